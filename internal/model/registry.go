package model

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/1broseidon/deskshell/internal/configstore"
)

// TypeKey is the group key declaring a model's kind.
const TypeKey = "Type"

// Factory constructs an unloaded model.
type Factory func(name string, parent Model) Model

// Registry owns every live model, keyed by name. Each name is constructed at
// most once; failed resolutions are not cached, so a later call re-checks
// the store.
//
// Registry is not safe for concurrent use.
type Registry struct {
	store        *configstore.Store
	factories    map[Kind]Factory
	models       map[string]Model
	order        []string
	constructing map[string]bool
	logger       *slog.Logger
}

// NewRegistry creates a registry resolving names against store.
func NewRegistry(store *configstore.Store, factories map[Kind]Factory, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	table := make(map[Kind]Factory, len(factories))
	for k, f := range factories {
		table[k] = f
	}
	return &Registry{
		store:        store,
		factories:    table,
		models:       make(map[string]Model),
		constructing: make(map[string]bool),
		logger:       logger,
	}
}

// Resolve returns the model named name, constructing and loading it on first
// use. parent is required for child kinds and ignored once a model is cached.
func (r *Registry) Resolve(name string, parent Model) (Model, error) {
	if m, ok := r.models[name]; ok {
		return m, nil
	}
	if r.constructing[name] {
		return nil, fmt.Errorf("%w: %q", ErrReentrant, name)
	}
	if !r.store.HasGroup(name) {
		return nil, fmt.Errorf("%w: %q", ErrNotConfigured, name)
	}

	group := r.store.Group(name)
	tag := strings.TrimSpace(group.String(TypeKey, ""))
	if tag == "" {
		return nil, fmt.Errorf("%w: %q", ErrMissingType, name)
	}
	kind, ok := ParseKind(tag)
	if !ok {
		return nil, fmt.Errorf("%w: %q has type %q", ErrUnknownType, name, tag)
	}
	factory, ok := r.factories[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q has type %q", ErrUnknownType, name, tag)
	}
	if want, child := kind.RequiredParent(); child {
		if parent == nil || parent.Kind() != want {
			return nil, fmt.Errorf("%w: %q is a %s and needs a %s parent", ErrOrphanChild, name, kind, want)
		}
	}

	r.constructing[name] = true
	defer delete(r.constructing, name)

	m := factory(name, parent)
	if m == nil {
		return nil, fmt.Errorf("%w: no constructor produced %q", ErrUnknownType, name)
	}
	if err := m.Load(group); err != nil {
		return nil, fmt.Errorf("load %q: %w", name, err)
	}

	r.models[name] = m
	r.order = append(r.order, name)
	r.logger.Debug("model resolved", "name", name, "kind", kind.String())
	return m, nil
}

// Lookup returns a cached model without touching the store.
func (r *Registry) Lookup(name string) (Model, bool) {
	m, ok := r.models[name]
	return m, ok
}

// Models returns cached models in the order they were first resolved.
func (r *Registry) Models() []Model {
	out := make([]Model, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.models[name])
	}
	return out
}

// Len returns the number of cached models.
func (r *Registry) Len() int {
	return len(r.models)
}

// Enumerate resolves each group name as a top-level model. Groups that do not
// describe a top-level model are skipped; only unexpected failures are
// logged above debug level.
func (r *Registry) Enumerate(groups []string) []Model {
	var resolved []Model
	for _, name := range groups {
		m, err := r.Resolve(name, nil)
		if err != nil {
			r.logResolveError(name, err)
			continue
		}
		resolved = append(resolved, m)
	}
	return resolved
}

func (r *Registry) logResolveError(name string, err error) {
	switch {
	case isExpected(err):
		r.logger.Debug("group skipped", "name", name, "error", err)
	default:
		r.logger.Warn("model failed to load", "name", name, "error", err)
	}
}
