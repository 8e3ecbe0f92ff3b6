package platform

import (
	"fmt"
	"slices"
	"sync"
)

// Type names a platform class, e.g. "android.net.Network".
type Type string

// Object is a real platform object.
type Object interface {
	PlatformType() Type
}

// Declared is implemented by real types that know their platform type
// without an instance. DeclaredType must not dereference its receiver, so a
// typed nil handle still reports its type.
type Declared interface {
	DeclaredType() Type
}

// Internals is the friend-only mutation surface of a real object.
//
// Only the field bridge calls it. Shadow code reaches it through the bridge so
// every privileged access is scoped and auditable.
type Internals interface {
	// Fields lists the declared field names of the object's shape.
	Fields() []string
	// HasField reports whether name is part of the declared shape.
	HasField(name string) bool
	// LoadField returns the current value of a declared field.
	LoadField(name string) any
	// StoreField replaces the value of a declared field.
	StoreField(name string, v any)
}

// Friend is implemented by real objects that expose Internals.
type Friend interface {
	Object
	Internals() Internals
}

// Original is implemented by real objects that carry their own
// (un-shadowed) behavior for some operations. handled is false when the
// object has no original behavior for op.
type Original interface {
	InvokeOriginal(op string, args []any) (result any, handled bool, err error)
}

// Base is an embeddable real-object core with a declared field shape.
//
// Field values live behind the Internals view; the owning type decides which
// of them get public accessors.
type Base struct {
	typ    Type
	mu     sync.RWMutex
	shape  []string
	values map[string]any
}

// NewBase creates a Base of the given type whose shape declares fields.
func NewBase(typ Type, fields ...string) *Base {
	values := make(map[string]any, len(fields))
	for _, f := range fields {
		values[f] = nil
	}
	return &Base{
		typ:    typ,
		shape:  slices.Clone(fields),
		values: values,
	}
}

// PlatformType implements Object.
func (b *Base) PlatformType() Type {
	return b.typ
}

// Internals implements Friend.
func (b *Base) Internals() Internals {
	return (*baseInternals)(b)
}

// With sets the initial value of a declared field and returns b. Real
// constructors call it before the object is shared; after that, fields
// change only through Internals. It panics on an undeclared field.
func (b *Base) With(name string, v any) *Base {
	if !slices.Contains(b.shape, name) {
		panic(fmt.Sprintf("%s declares no field %q", b.typ, name))
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.values[name] = v
	return b
}

// Get returns a field value for use by the owning type's public accessors.
func (b *Base) Get(name string) any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.values[name]
}

type baseInternals Base

func (b *baseInternals) Fields() []string {
	return slices.Clone(b.shape)
}

func (b *baseInternals) HasField(name string) bool {
	return slices.Contains(b.shape, name)
}

func (b *baseInternals) LoadField(name string) any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.values[name]
}

func (b *baseInternals) StoreField(name string, v any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.values[name] = v
}
