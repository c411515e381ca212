package cache

import "fmt"

// Kind classifies cache package errors.
type Kind uint8

const (
	// ConfigMismatch indicates a cache load was refused because the
	// runtime configuration disagrees with the stored analysis metadata
	// (spec.md §4.5's GUC-validation rule).
	ConfigMismatch Kind = iota

	// NotLoaded indicates a query against a cache that has no analysis
	// loaded for the requested (table, column).
	NotLoaded
)

func (k Kind) String() string {
	switch k {
	case ConfigMismatch:
		return "ConfigMismatch"
	case NotLoaded:
		return "NotLoaded"
	default:
		return fmt.Sprintf("UnknownKind(%d)", k)
	}
}

// Error represents a cache operation failure.
type Error struct {
	Kind  Kind
	Field string
	Want  string
	Got   string
}

func (e *Error) Error() string {
	switch e.Kind {
	case ConfigMismatch:
		return fmt.Sprintf("cache: config mismatch on %s: cache has %s, runtime wants %s", e.Field, e.Got, e.Want)
	case NotLoaded:
		return "cache: no analysis loaded"
	default:
		return fmt.Sprintf("cache: error kind %s", e.Kind)
	}
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}
