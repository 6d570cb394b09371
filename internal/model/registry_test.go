package model

import (
	"errors"
	"testing"

	"github.com/1broseidon/deskshell/internal/configstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeModel struct {
	Base
	loads   int
	loadErr error
	value   string
}

func (m *fakeModel) Load(g *configstore.Group) error {
	m.loads++
	if m.loadErr != nil {
		return m.loadErr
	}
	m.value = g.String("Value", "")
	return nil
}

func (m *fakeModel) Save(g *configstore.Group) error {
	g.Set("Value", m.value)
	return nil
}

type factoryLog struct {
	calls map[string]int
	fail  map[string]error
}

func newFactoryLog() *factoryLog {
	return &factoryLog{calls: map[string]int{}, fail: map[string]error{}}
}

func (l *factoryLog) factory(kind Kind) Factory {
	return func(name string, parent Model) Model {
		l.calls[name]++
		return &fakeModel{Base: NewBase(name, kind, parent), loadErr: l.fail[name]}
	}
}

func (l *factoryLog) table() map[Kind]Factory {
	return map[Kind]Factory{
		KindPanel: l.factory(KindPanel),
		KindTasks: l.factory(KindTasks),
		KindTask:  l.factory(KindTask),
		KindDate:  l.factory(KindDate),
	}
}

func newStore() *configstore.Store {
	s := configstore.New()
	s.Group("top1").Set("Type", "Panel")
	s.Group("top1").Set("Value", "a")
	s.Group("tasks").Set("Type", "Tasks")
	s.Group("term").Set("Type", "Task")
	s.Group("clock").Set("Type", "Date")
	s.Group("weird").Set("Type", "Spaceship")
	s.Group("untyped").Set("Value", "x")
	return s
}

func TestResolve_Idempotent(t *testing.T) {
	log := newFactoryLog()
	reg := NewRegistry(newStore(), log.table(), nil)

	first, err := reg.Resolve("top1", nil)
	require.NoError(t, err)
	second, err := reg.Resolve("top1", nil)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, log.calls["top1"])
	assert.Equal(t, 1, first.(*fakeModel).loads)
	assert.Equal(t, "a", first.(*fakeModel).value)
}

func TestResolve_CachedDoesNotRereadStore(t *testing.T) {
	store := newStore()
	reg := NewRegistry(store, newFactoryLog().table(), nil)

	first, err := reg.Resolve("top1", nil)
	require.NoError(t, err)

	store.Group("top1").Set("Type", "Date")
	store.DeleteGroup("top1")

	again, err := reg.Resolve("top1", nil)
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, KindPanel, again.Kind())
}

func TestResolve_NotConfigured(t *testing.T) {
	log := newFactoryLog()
	reg := NewRegistry(newStore(), log.table(), nil)

	for i := 0; i < 3; i++ {
		m, err := reg.Resolve("Foo", nil)
		assert.Nil(t, m)
		assert.ErrorIs(t, err, ErrNotConfigured)
		assert.True(t, IsAbsent(err))
	}
	assert.Zero(t, reg.Len())
	assert.Empty(t, log.calls)
}

func TestResolve_MissingTypeIsNotCached(t *testing.T) {
	store := newStore()
	reg := NewRegistry(store, newFactoryLog().table(), nil)

	_, err := reg.Resolve("untyped", nil)
	require.ErrorIs(t, err, ErrMissingType)

	store.Group("untyped").Set("Type", "Date")
	m, err := reg.Resolve("untyped", nil)
	require.NoError(t, err)
	assert.Equal(t, KindDate, m.Kind())
}

func TestResolve_UnknownType(t *testing.T) {
	reg := NewRegistry(newStore(), newFactoryLog().table(), nil)

	for i := 0; i < 2; i++ {
		_, err := reg.Resolve("weird", nil)
		assert.ErrorIs(t, err, ErrUnknownType)
	}
	_, ok := reg.Lookup("weird")
	assert.False(t, ok)
}

func TestResolve_KnownTagWithoutFactory(t *testing.T) {
	store := newStore()
	store.Group("vol").Set("Type", "Volume")
	reg := NewRegistry(store, newFactoryLog().table(), nil)

	_, err := reg.Resolve("vol", nil)
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestResolve_OrphanChild(t *testing.T) {
	reg := NewRegistry(newStore(), newFactoryLog().table(), nil)

	_, err := reg.Resolve("term", nil)
	assert.ErrorIs(t, err, ErrOrphanChild)

	panel, err := reg.Resolve("top1", nil)
	require.NoError(t, err)
	_, err = reg.Resolve("term", panel)
	assert.ErrorIs(t, err, ErrOrphanChild, "a Task under a non-Tasks parent is still an orphan")

	tasks, err := reg.Resolve("tasks", nil)
	require.NoError(t, err)
	task, err := reg.Resolve("term", tasks)
	require.NoError(t, err)
	assert.Same(t, tasks, task.Parent())
}

func TestResolve_LoadFailureIsNotCached(t *testing.T) {
	log := newFactoryLog()
	log.fail["clock"] = errors.New("bad format")
	reg := NewRegistry(newStore(), log.table(), nil)

	_, err := reg.Resolve("clock", nil)
	require.Error(t, err)
	assert.False(t, IsAbsent(err))

	delete(log.fail, "clock")
	m, err := reg.Resolve("clock", nil)
	require.NoError(t, err)
	assert.NotNil(t, m)
	assert.Equal(t, 2, log.calls["clock"])
}

func TestResolve_ReentrantGuard(t *testing.T) {
	store := newStore()
	var reg *Registry
	var inner error
	factories := map[Kind]Factory{
		KindPanel: func(name string, parent Model) Model {
			_, inner = reg.Resolve(name, nil)
			return &fakeModel{Base: NewBase(name, KindPanel, parent)}
		},
	}
	reg = NewRegistry(store, factories, nil)

	_, err := reg.Resolve("top1", nil)
	require.NoError(t, err)
	assert.ErrorIs(t, inner, ErrReentrant)
}

func TestModels_RegistrationOrder(t *testing.T) {
	reg := NewRegistry(newStore(), newFactoryLog().table(), nil)

	for _, name := range []string{"clock", "top1", "tasks"} {
		_, err := reg.Resolve(name, nil)
		require.NoError(t, err)
	}

	var names []string
	for _, m := range reg.Models() {
		names = append(names, m.Name())
	}
	assert.Equal(t, []string{"clock", "top1", "tasks"}, names)
}

func TestEnumerate_SkipsUnresolvable(t *testing.T) {
	store := newStore()
	reg := NewRegistry(store, newFactoryLog().table(), nil)

	got := reg.Enumerate(store.Groups())

	var names []string
	for _, m := range got {
		names = append(names, m.Name())
	}
	assert.ElementsMatch(t, []string{"top1", "tasks", "clock"}, names)
	_, ok := reg.Lookup("term")
	assert.False(t, ok)
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind("DashButton")
	assert.True(t, ok)
	assert.Equal(t, KindDashButton, k)
	assert.Equal(t, "DashButton", k.String())

	_, ok = ParseKind("dashbutton")
	assert.False(t, ok)
	_, ok = ParseKind("")
	assert.False(t, ok)

	parent, child := KindTask.RequiredParent()
	assert.True(t, child)
	assert.Equal(t, KindTasks, parent)
	_, child = KindPanel.RequiredParent()
	assert.False(t, child)
}
