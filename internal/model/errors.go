package model

import "errors"

var (
	// ErrNotConfigured means the name is neither cached nor a store group.
	ErrNotConfigured = errors.New("not configured")
	// ErrMissingType means the group has no Type key or an empty one.
	ErrMissingType = errors.New("missing type")
	// ErrUnknownType means the Type tag has no registered factory.
	ErrUnknownType = errors.New("unknown type")
	// ErrOrphanChild means a child kind was resolved without a suitable parent.
	ErrOrphanChild = errors.New("child resolved without parent")
	// ErrReentrant means a model's construction tried to resolve its own name.
	ErrReentrant = errors.New("reentrant resolution")
)

// IsAbsent reports whether err means "no such configured entity" rather
// than a load failure worth surfacing.
func IsAbsent(err error) bool {
	return errors.Is(err, ErrNotConfigured) ||
		errors.Is(err, ErrMissingType) ||
		errors.Is(err, ErrUnknownType) ||
		errors.Is(err, ErrOrphanChild)
}

// Groups without a Type and child groups are routine during enumeration.
func isExpected(err error) bool {
	return errors.Is(err, ErrMissingType) || errors.Is(err, ErrOrphanChild)
}
