package vm

import (
	"fmt"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

type PropertyKind uint8

const (
	PropertyData PropertyKind = iota
	PropertyAccessor
	// PropertyHidden marks a name as present but absent: lookup yields
	// undefined and does not continue up the prototype chain.
	PropertyHidden
)

func (k PropertyKind) String() string {
	switch k {
	case PropertyData:
		return "data"
	case PropertyAccessor:
		return "accessor"
	case PropertyHidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// Getter computes an accessor property. r is the realm the lookup runs in,
// this is the object (or primitive) the lookup started from.
type Getter func(r *Realm, this Value) (Value, error)

// PropertyDesc is one entry of a static descriptor list handed to BuildTable.
// A desc with Native set becomes a data property holding a shared native
// function object.
type PropertyDesc struct {
	Name         string
	Kind         PropertyKind
	Value        Value
	Native       *NativeFunction
	Getter       Getter
	Writable     bool
	Enumerable   bool
	Configurable bool
}

// Data describes a read-only constant such as Math.PI.
func Data(name string, v Value) PropertyDesc {
	return PropertyDesc{Name: name, Kind: PropertyData, Value: v}
}

// Method describes a writable, configurable, non-enumerable function slot.
func Method(fn *NativeFunction) PropertyDesc {
	return PropertyDesc{Name: fn.name, Kind: PropertyData, Native: fn, Writable: true, Configurable: true}
}

// Accessor describes a native getter.
func Accessor(name string, g Getter) PropertyDesc {
	return PropertyDesc{Name: name, Kind: PropertyAccessor, Getter: g, Configurable: true}
}

// WritableAccessor describes a getter that an assignment replaces with a
// plain data property in the object's overlay.
func WritableAccessor(name string, g Getter) PropertyDesc {
	return PropertyDesc{Name: name, Kind: PropertyAccessor, Getter: g, Writable: true, Configurable: true}
}

// Hidden describes a whiteout entry.
func Hidden(name string) PropertyDesc {
	return PropertyDesc{Name: name, Kind: PropertyHidden, Value: Null}
}

// Property is an immutable record stored in a PropertyTable.
type Property struct {
	name         string
	kind         PropertyKind
	value        Value
	getter       Getter
	writable     bool
	enumerable   bool
	configurable bool
}

func (p Property) Name() string       { return p.name }
func (p Property) Kind() PropertyKind { return p.kind }
func (p Property) Value() Value       { return p.value }
func (p Property) Getter() Getter     { return p.getter }
func (p Property) Writable() bool     { return p.writable }
func (p Property) Enumerable() bool   { return p.enumerable }
func (p Property) Configurable() bool { return p.configurable }

// IsFunction reports whether the record is a data slot holding a function.
func (p Property) IsFunction() bool {
	return p.kind == PropertyData && p.value.IsFunction()
}

// PropertyTable is an insertion-ordered name -> Property map. Tables built
// by BuildTable are never mutated afterwards.
type PropertyTable struct {
	m *linkedhashmap.Map
}

// BuildTable constructs a table from a static descriptor list. Native
// method descriptors are materialised as shared function objects whose
// parent is the Function prototype slot. Every record and function object
// is charged to pool.
func BuildTable(pool *Pool, descs []PropertyDesc) (*PropertyTable, error) {
	t := &PropertyTable{m: linkedhashmap.New()}
	for i := range descs {
		d := &descs[i]
		if _, exists := t.m.Get(d.Name); exists {
			return nil, fmt.Errorf("duplicate property %q", d.Name)
		}
		if err := pool.Charge(propertySize + len(d.Name)); err != nil {
			return nil, err
		}
		p := Property{
			name:         d.Name,
			kind:         d.Kind,
			value:        d.Value,
			getter:       d.Getter,
			writable:     d.Writable,
			enumerable:   d.Enumerable,
			configurable: d.Configurable,
		}
		switch d.Kind {
		case PropertyData:
			if d.Native != nil {
				fn, err := newSharedFunction(pool, d.Native, nil)
				if err != nil {
					return nil, err
				}
				p.value = ObjectValue(fn)
			}
		case PropertyAccessor:
			if d.Getter == nil {
				return nil, fmt.Errorf("accessor %q has no getter", d.Name)
			}
		case PropertyHidden:
			p.value = Undefined
		}
		t.m.Put(d.Name, p)
	}
	return t, nil
}

// Get looks up name. A nil table has no properties.
func (t *PropertyTable) Get(name string) (Property, bool) {
	if t == nil {
		return Property{}, false
	}
	v, ok := t.m.Get(name)
	if !ok {
		return Property{}, false
	}
	return v.(Property), true
}

func (t *PropertyTable) Len() int {
	if t == nil {
		return 0
	}
	return t.m.Size()
}

// Each visits properties in table order until fn returns false.
func (t *PropertyTable) Each(fn func(Property) bool) {
	if t == nil {
		return
	}
	it := t.m.Iterator()
	for it.Next() {
		if !fn(it.Value().(Property)) {
			return
		}
	}
}

// Names returns the property names in table order.
func (t *PropertyTable) Names() []string {
	names := make([]string, 0, t.Len())
	t.Each(func(p Property) bool {
		names = append(names, p.name)
		return true
	})
	return names
}

// ownProperties is the mutable overlay an OwnedObject writes into.
type ownProperties struct {
	m *linkedhashmap.Map
}

func (o *ownProperties) get(name string) (Property, bool) {
	if o == nil {
		return Property{}, false
	}
	v, ok := o.m.Get(name)
	if !ok {
		return Property{}, false
	}
	return v.(Property), true
}

func (o *ownProperties) put(p Property) {
	o.m.Put(p.name, p)
}

func (o *ownProperties) each(fn func(Property) bool) {
	if o == nil {
		return
	}
	it := o.m.Iterator()
	for it.Next() {
		if !fn(it.Value().(Property)) {
			return
		}
	}
}
