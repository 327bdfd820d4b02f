package vm

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Class is the type tag of an object.
type Class uint8

const (
	ClassObject Class = iota
	ClassArray
	ClassBoolean
	ClassNumber
	ClassString
	ClassFunction
	ClassRegExp
	ClassDate
)

func (c Class) String() string {
	switch c {
	case ClassObject:
		return "Object"
	case ClassArray:
		return "Array"
	case ClassBoolean:
		return "Boolean"
	case ClassNumber:
		return "Number"
	case ClassString:
		return "String"
	case ClassFunction:
		return "Function"
	case ClassRegExp:
		return "RegExp"
	case ClassDate:
		return "Date"
	default:
		return "Unknown"
	}
}

// ObjectID indexes an object in its arena: the template slab or a realm.
// Prototypes occupy [0, NumBuiltins), constructors follow contiguously.
type ObjectID int32

// NullObject is the null terminal of every prototype chain.
const NullObject ObjectID = -1

// Object is the read side common to template and realm objects.
type Object interface {
	Class() Class
	Name() string
	Parent() ObjectID
	Extensible() bool
	Shared() bool
	PrimitiveValue() Value
	Pattern() *Pattern

	// Function side; Native returns nil for plain objects.
	Native() *NativeFunction
	IsConstructor() bool
	ArgsOffset() int
	ArgTypes() []CoercionTag

	// OwnProperty resolves name against the object's own storage only.
	OwnProperty(name string) (Property, bool)
	// EachOwn visits own properties until fn returns false.
	EachOwn(fn func(Property) bool)

	core() *objectCore
}

// objectCore is the part of an object that cloning copies by value.
type objectCore struct {
	class      Class
	name       string
	props      *PropertyTable
	parent     ObjectID
	extensible bool
	value      Value
	pattern    *Pattern
	fn         *functionData
}

func (o *objectCore) Class() Class          { return o.class }
func (o *objectCore) Name() string          { return o.name }
func (o *objectCore) Parent() ObjectID      { return o.parent }
func (o *objectCore) Extensible() bool      { return o.extensible }
func (o *objectCore) PrimitiveValue() Value { return o.value }
func (o *objectCore) Pattern() *Pattern     { return o.pattern }
func (o *objectCore) Table() *PropertyTable { return o.props }

func (o *objectCore) core() *objectCore { return o }

func (o *objectCore) Native() *NativeFunction {
	if o.fn == nil {
		return nil
	}
	return o.fn.entry
}

func (o *objectCore) IsConstructor() bool { return o.fn != nil && o.fn.ctor }

func (o *objectCore) ArgsOffset() int {
	if o.fn == nil {
		return 0
	}
	return o.fn.argsOffset
}

func (o *objectCore) ArgTypes() []CoercionTag {
	if o.fn == nil {
		return nil
	}
	return append([]CoercionTag(nil), o.fn.argTypes...)
}

// SharedObject lives in the template. It has no mutating methods: once the
// template is published nothing can write to it.
type SharedObject struct {
	objectCore
}

func (o *SharedObject) Shared() bool { return true }

func (o *SharedObject) OwnProperty(name string) (Property, bool) {
	return o.props.Get(name)
}

func (o *SharedObject) EachOwn(fn func(Property) bool) {
	o.props.Each(fn)
}

// OwnedObject belongs to exactly one realm. Reads fall through a private
// overlay to the table inherited from the template; writes only touch the
// overlay.
type OwnedObject struct {
	objectCore
	id    ObjectID
	own   *ownProperties
	items []Value // array elements
}

func (o *OwnedObject) Shared() bool { return false }

// ID is the object's slot in its realm arena.
func (o *OwnedObject) ID() ObjectID { return o.id }

func (o *OwnedObject) OwnProperty(name string) (Property, bool) {
	if p, ok := o.own.get(name); ok {
		return p, true
	}
	return o.props.Get(name)
}

func (o *OwnedObject) EachOwn(fn func(Property) bool) {
	stopped := false
	o.own.each(func(p Property) bool {
		if !fn(p) {
			stopped = true
			return false
		}
		return true
	})
	if stopped {
		return
	}
	o.props.Each(func(p Property) bool {
		if _, shadowed := o.own.get(p.name); shadowed {
			return true
		}
		return fn(p)
	})
}

// SetParent relinks the prototype chain.
func (o *OwnedObject) SetParent(id ObjectID) { o.parent = id }

// Items returns the array elements of an Array object.
func (o *OwnedObject) Items() []Value { return o.items }

// defineOwn writes a data property into the overlay.
func (o *OwnedObject) defineOwn(name string, v Value, writable, enumerable, configurable bool) {
	if o.own == nil {
		o.own = &ownProperties{m: linkedhashmap.New()}
	}
	o.own.put(Property{
		name:         name,
		kind:         PropertyData,
		value:        v,
		writable:     writable,
		enumerable:   enumerable,
		configurable: configurable,
	})
}
