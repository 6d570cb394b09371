// Package model turns named store groups into live, typed shell objects.
package model

import "github.com/1broseidon/deskshell/internal/configstore"

// Model is a named, persisted entity of the shell.
type Model interface {
	Name() string
	Kind() Kind
	// Parent is nil for top-level models.
	Parent() Model
	// Load reads the model's state from its own group.
	Load(g *configstore.Group) error
	// Save writes the model's state back to its own group.
	Save(g *configstore.Group) error
}

// Base carries the identity every model shares. Concrete models embed it.
type Base struct {
	name   string
	kind   Kind
	parent Model
}

// NewBase returns the identity part of a model.
func NewBase(name string, kind Kind, parent Model) Base {
	return Base{name: name, kind: kind, parent: parent}
}

func (b *Base) Name() string  { return b.name }
func (b *Base) Kind() Kind    { return b.kind }
func (b *Base) Parent() Model { return b.parent }
