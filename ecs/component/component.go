package component

import (
	"errors"
	"reflect"
	"sync/atomic"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)

// ComponentID keys one store in the world. Zero is never handed out.
type ComponentID uint32

var lastComponentID atomic.Uint32

// Kind is the untyped view of a ComponentKind, used where kinds of different
// component types travel together (queries, world errors).
type Kind interface {
	ID() ComponentID
	Name() string
	Valid() bool
}

// ComponentKind identifies the store holding *T values.
type ComponentKind[T any] struct {
	id   ComponentID
	name string
}

// NewComponentKind allocates a fresh id for T. Two calls for the same T give
// two separate stores.
func NewComponentKind[T any]() ComponentKind[T] {
	return ComponentKind[T]{
		id:   ComponentID(lastComponentID.Add(1)),
		name: reflect.TypeFor[T]().String(),
	}
}

func (k ComponentKind[T]) ID() ComponentID { return k.id }

// Name is the Go type name of T, for logs and errors.
func (k ComponentKind[T]) Name() string { return k.name }

func (k ComponentKind[T]) Valid() bool { return k.id != 0 }

func (k ComponentKind[T]) String() string {
	if !k.Valid() {
		return "invalid"
	}
	return k.name
}

// ComponentHandle is the package-level registration of a component type,
// e.g. HealthComponent.
type ComponentHandle[T any] struct {
	kind ComponentKind[T]
}

func NewComponent[T any]() ComponentHandle[T] {
	return ComponentHandle[T]{kind: NewComponentKind[T]()}
}

func (h ComponentHandle[T]) Kind() ComponentKind[T] {
	return h.kind
}
