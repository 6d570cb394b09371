package widgets

import (
	"errors"
	"fmt"

	"github.com/1broseidon/deskshell/internal/configstore"
	"github.com/1broseidon/deskshell/internal/model"
	"github.com/1broseidon/deskshell/internal/platform"
)

// Tasks is a launcher menu. Its entries are Task groups resolved with the
// Tasks model as their parent.
type Tasks struct {
	model.Base
	host Host
	popover

	Title string
	Names []string

	entries []*Task
}

// NewTasks returns an unloaded launcher menu.
func NewTasks(host Host, name string, parent model.Model) *Tasks {
	return &Tasks{
		Base:    model.NewBase(name, model.KindTasks, parent),
		host:    host,
		popover: popover{host: host},
	}
}

func (t *Tasks) Load(g *configstore.Group) error {
	t.popover.load(g)
	t.Title = g.String("Label", "Apps")
	t.Names = g.List("Tasks")

	entries := make([]*Task, 0, len(t.Names))
	for _, name := range t.Names {
		m, err := t.host.Resolve(name, t)
		if err != nil {
			t.host.Logger().Warn("task unavailable", "tasks", t.Name(), "task", name, "error", err)
			continue
		}
		task, ok := m.(*Task)
		if !ok {
			t.host.Logger().Warn("tasks entry is not a task", "tasks", t.Name(), "entry", name)
			continue
		}
		entries = append(entries, task)
	}
	t.entries = entries
	return nil
}

func (t *Tasks) Save(g *configstore.Group) error {
	g.Set("Type", model.KindTasks.String())
	g.Set("Label", t.Title)
	g.Set("Tasks", t.Names)
	t.popover.save(g)
	return nil
}

// Entries returns the resolved tasks in configured order.
func (t *Tasks) Entries() []*Task {
	return t.entries
}

// Launch starts the i-th task.
func (t *Tasks) Launch(i int) error {
	if i < 0 || i >= len(t.entries) {
		return fmt.Errorf("tasks %q has no entry %d", t.Name(), i)
	}
	return t.entries[i].Launch()
}

func (t *Tasks) Label() string {
	return t.Title
}

// Activate opens the launcher menu.
func (t *Tasks) Activate(trigger platform.Rect) error {
	return t.toggle(trigger)
}

func (t *Tasks) Close() {
	t.popover.close()
}

// Task is one launcher entry.
type Task struct {
	model.Base
	host Host

	Title   string
	Command string
	Icon    string
}

// NewTask returns an unloaded task. parent must be the owning Tasks.
func NewTask(host Host, name string, parent model.Model) *Task {
	return &Task{Base: model.NewBase(name, model.KindTask, parent), host: host}
}

func (t *Task) Load(g *configstore.Group) error {
	t.Command = g.String("Command", "")
	if t.Command == "" {
		return errors.New("task has no Command")
	}
	t.Title = g.String("Label", t.Name())
	t.Icon = g.String("Icon", "")
	return nil
}

func (t *Task) Save(g *configstore.Group) error {
	g.Set("Type", model.KindTask.String())
	g.Set("Label", t.Title)
	g.Set("Command", t.Command)
	if t.Icon != "" {
		g.Set("Icon", t.Icon)
	}
	return nil
}

// Launch starts the task's command.
func (t *Task) Launch() error {
	launcher := t.host.Services().Launcher
	if launcher == nil {
		return errors.New("no launcher available")
	}
	t.host.Logger().Info("launching task", "task", t.Name(), "command", t.Command)
	return launcher.Launch(t.Command)
}

func (t *Task) Label() string {
	return t.Title
}

// Activate launches the task; the trigger is not used.
func (t *Task) Activate(platform.Rect) error {
	return t.Launch()
}

func (t *Task) Close() {}
