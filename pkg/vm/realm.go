package vm

import (
	"strconv"

	"github.com/google/uuid"

	"njscore/pkg/errors"
)

// Realm is the state of one VM instance: a private copy of the builtin
// prototypes and constructors, objects created at run time, and the global
// variable scope. A realm is used by one logical thread at a time.
type Realm struct {
	// Identity
	id string

	template *Template
	pool     *Pool

	// slab mirrors the template slab: prototypes then constructors.
	slab []OwnedObject
	// extra holds objects created after cloning; their ids continue
	// after the slab.
	extra []*OwnedObject

	// Global environment
	Globals *Heap

	// fnProtos holds the "prototype" objects made on demand for native
	// functions that do not define one.
	fnProtos map[Object]*OwnedObject

	cloned bool
}

// NewRealm allocates the instance storage from pool. Call CloneBuiltins
// before running anything in it.
func NewRealm(t *Template, pool *Pool) (*Realm, error) {
	globals := NumBuiltins + t.NumFunctions() + t.NumNamespaces()
	if err := pool.Charge(len(t.slab)*objectSize + globals*valueSize); err != nil {
		return nil, errors.NewInitError("realm", err)
	}
	return &Realm{
		id:       uuid.NewString(),
		template: t,
		pool:     pool,
		slab:     make([]OwnedObject, len(t.slab)),
		Globals:  NewHeap(globals),
	}, nil
}

// ID returns the unique identifier for this realm.
func (r *Realm) ID() string { return r.id }

// Template returns the template the realm was cloned from.
func (r *Realm) Template() *Template { return r.template }

// Pool returns the realm's memory arena.
func (r *Realm) Pool() *Pool { return r.pool }

/*
 * Object(),
 * Object.__proto__             -> Function.prototype,
 * Object.prototype.__proto__   -> null,
 *
 * Array(), Boolean(), Number(), String(), Function(), RegExp(), Date():
 *   <Ctor>.__proto__           -> Function.prototype,
 *   <Ctor>.prototype.__proto__ -> Object.prototype,
 *
 * eval(), parseInt(), ...:
 *   <fn>.__proto__             -> Function.prototype.
 */

// CloneBuiltins copies the template's prototypes and constructors into the
// realm, relinks their parents to the realm's own copies and binds the
// globals. It does not allocate.
func (r *Realm) CloneBuiltins() error {
	t := r.template
	if r.cloned {
		return &errors.InitError{Stage: "clone", Msg: "realm already initialised"}
	}
	if len(r.slab) != len(t.slab) {
		return &errors.InitError{Stage: "clone", Msg: "realm slab does not match template layout"}
	}

	for i := range t.slab {
		r.slab[i] = OwnedObject{objectCore: t.slab[i].objectCore, id: ObjectID(i)}
	}

	objectPrototype := PrototypeID(BuiltinObject)
	for k := BuiltinArray; int(k) < NumBuiltins; k++ {
		r.slab[PrototypeID(k)].parent = objectPrototype
	}

	functionPrototype := PrototypeID(BuiltinFunction)
	for k := BuiltinObject; int(k) < NumBuiltins; k++ {
		ctor := &r.slab[ConstructorID(k)]
		if err := r.Globals.Bind(ctor.name, int(k), ObjectValue(ctor)); err != nil {
			return &errors.InitError{Stage: "clone", Msg: err.Error()}
		}
		ctor.parent = functionPrototype
	}

	slot := NumBuiltins
	for i := 0; i < t.NumFunctions(); i++ {
		fn := t.Function(i)
		if err := r.Globals.Bind(fn.name, slot, ObjectValue(fn)); err != nil {
			return &errors.InitError{Stage: "clone", Msg: err.Error()}
		}
		slot++
	}
	for i := 0; i < t.NumNamespaces(); i++ {
		ns := t.Namespace(i)
		if err := r.Globals.Bind(ns.name, slot, ObjectValue(ns)); err != nil {
			return &errors.InitError{Stage: "clone", Msg: err.Error()}
		}
		slot++
	}

	r.cloned = true
	return nil
}

// Object resolves an arena slot, nil for the null terminal.
func (r *Realm) Object(id ObjectID) *OwnedObject {
	if id < 0 {
		return nil
	}
	if int(id) < len(r.slab) {
		return &r.slab[id]
	}
	i := int(id) - len(r.slab)
	if i < len(r.extra) {
		return r.extra[i]
	}
	return nil
}

func (r *Realm) Prototype(k BuiltinKind) *OwnedObject   { return &r.slab[PrototypeID(k)] }
func (r *Realm) Constructor(k BuiltinKind) *OwnedObject { return &r.slab[ConstructorID(k)] }

// GetGlobal returns the value bound to name in the global scope.
func (r *Realm) GetGlobal(name string) (Value, bool) {
	return r.Globals.Lookup(name)
}

// newObject appends an object to the arena.
func (r *Realm) newObject(core objectCore) (*OwnedObject, error) {
	if err := r.pool.Charge(objectSize); err != nil {
		return nil, err
	}
	o := &OwnedObject{objectCore: core, id: ObjectID(len(r.slab) + len(r.extra))}
	r.extra = append(r.extra, o)
	return o, nil
}

// NewObject creates a plain object inheriting from parent. Objects without
// a parent hide the intrinsic __proto__ accessor.
func (r *Realm) NewObject(parent ObjectID) (*OwnedObject, error) {
	core := objectCore{class: ClassObject, parent: parent, extensible: true}
	if parent == NullObject {
		core.props = r.template.nullProto
	}
	return r.newObject(core)
}

// NewBoxed creates a Boolean, Number, String or Date wrapper around v.
func (r *Realm) NewBoxed(k BuiltinKind, v Value) (*OwnedObject, error) {
	return r.newObject(objectCore{
		class:      k.Class(),
		parent:     PrototypeID(k),
		extensible: true,
		value:      v,
	})
}

// NewArray creates an Array holding items.
func (r *Realm) NewArray(items []Value) (*OwnedObject, error) {
	if err := r.pool.Charge(len(items) * valueSize); err != nil {
		return nil, err
	}
	o, err := r.newObject(objectCore{class: ClassArray, parent: PrototypeID(BuiltinArray), extensible: true})
	if err != nil {
		return nil, err
	}
	o.items = items
	return o, nil
}

// NewRegExp creates a RegExp object around a compiled pattern.
func (r *Realm) NewRegExp(p *Pattern) (*OwnedObject, error) {
	return r.newObject(objectCore{
		class:      ClassRegExp,
		parent:     PrototypeID(BuiltinRegExp),
		extensible: true,
		pattern:    p,
	})
}

// prototypeOf returns the object property lookup starts from for v.
func (r *Realm) prototypeOf(v Value) Object {
	switch v.typ {
	case TypeBoolean:
		return r.Prototype(BuiltinBoolean)
	case TypeNumber:
		return r.Prototype(BuiltinNumber)
	case TypeString:
		return r.Prototype(BuiltinString)
	default:
		return v.obj
	}
}

// GetPrototypeOf returns the prototype of v, null at the end of a chain.
func (r *Realm) GetPrototypeOf(v Value) Value {
	switch v.typ {
	case TypeUndefined, TypeNull:
		return Null
	case TypeBoolean, TypeNumber, TypeString:
		return ObjectValue(r.prototypeOf(v))
	}
	if p := r.Object(v.obj.Parent()); p != nil {
		return ObjectValue(p)
	}
	return Null
}

// OwnKeys lists the enumerable own property names of o, array indices
// first.
func (r *Realm) OwnKeys(o Object) []string {
	var keys []string
	if a, ok := o.(*OwnedObject); ok {
		for i := range a.items {
			keys = append(keys, strconv.Itoa(i))
		}
	}
	o.EachOwn(func(p Property) bool {
		if p.enumerable && p.kind != PropertyHidden {
			keys = append(keys, p.name)
		}
		return true
	})
	return keys
}

// Lookup finds the property record name resolves to for v, walking the
// prototype chain. A hidden record ends the walk as not found.
func (r *Realm) Lookup(v Value, name string) (Property, bool) {
	o := r.prototypeOf(v)
	if o == nil {
		return Property{}, false
	}
	start := o
	for {
		if p, ok := o.OwnProperty(name); ok {
			if p.kind == PropertyHidden {
				return Property{}, false
			}
			return p, true
		}
		if name == "prototype" && o == start && o.Native() != nil {
			if p, ok := r.template.functionPrototype.Get(name); ok {
				return p, true
			}
		}
		parent := o.Parent()
		if parent == NullObject {
			break
		}
		next := r.Object(parent)
		if next == nil {
			break
		}
		o = next
	}
	// __proto__ is intrinsic to every object unless hidden.
	if name == "__proto__" {
		return r.Prototype(BuiltinObject).OwnProperty(name)
	}
	return Property{}, false
}

// Get reads property name of v, running accessors.
func (r *Realm) Get(v Value, name string) (Value, error) {
	switch v.typ {
	case TypeUndefined, TypeNull:
		return Undefined, errors.NewTypeError("cannot get property '%s' of %s", name, v.ToString())
	case TypeObject:
		if o, ok := v.obj.(*OwnedObject); ok && o.class == ClassArray {
			if i, ok := arrayIndex(name); ok {
				if i < len(o.items) {
					return o.items[i], nil
				}
				return Undefined, nil
			}
		}
	}
	p, ok := r.Lookup(v, name)
	if !ok {
		return Undefined, nil
	}
	if p.kind == PropertyAccessor {
		return p.getter(r, v)
	}
	return p.value, nil
}

// Set writes property name of v. Only realm-owned objects are writable;
// the write lands in the object's private overlay.
func (r *Realm) Set(v Value, name string, val Value) error {
	if !v.IsObject() {
		return errors.NewTypeError("cannot create property '%s' on %s", name, v.typ)
	}
	o, ok := v.obj.(*OwnedObject)
	if !ok {
		return errors.NewTypeError("cannot assign to property '%s' of shared builtin %s", name, v.obj.Name())
	}
	if o.class == ClassArray {
		if i, ok := arrayIndex(name); ok {
			return r.setItem(o, i, val)
		}
	}
	if p, ok := o.OwnProperty(name); ok && p.kind != PropertyHidden {
		if p.kind == PropertyAccessor && !p.writable {
			return errors.NewTypeError("cannot set property '%s' which has only a getter", name)
		}
		if !p.writable {
			return errors.NewTypeError("cannot assign to read-only property '%s'", name)
		}
		if err := r.pool.Charge(propertySize); err != nil {
			return err
		}
		o.defineOwn(name, val, p.writable, p.enumerable, p.configurable)
		return nil
	}
	if !o.extensible {
		return errors.NewTypeError("cannot add property '%s', object is not extensible", name)
	}
	if err := r.pool.Charge(propertySize + len(name)); err != nil {
		return err
	}
	o.defineOwn(name, val, true, true, true)
	return nil
}

// FunctionPrototype returns the "prototype" object of fn in this realm,
// calling create on first use.
func (r *Realm) FunctionPrototype(fn Object, create func() (*OwnedObject, error)) (*OwnedObject, error) {
	if o, ok := r.fnProtos[fn]; ok {
		return o, nil
	}
	o, err := create()
	if err != nil {
		return nil, err
	}
	if r.fnProtos == nil {
		r.fnProtos = make(map[Object]*OwnedObject)
	}
	r.fnProtos[fn] = o
	return o, nil
}

// Define adds or replaces an own data property with explicit flags.
func (r *Realm) Define(o *OwnedObject, name string, val Value, writable, enumerable, configurable bool) error {
	if err := r.pool.Charge(propertySize + len(name)); err != nil {
		return err
	}
	o.defineOwn(name, val, writable, enumerable, configurable)
	return nil
}

// Push appends to an Array object.
func (r *Realm) Push(o *OwnedObject, vals ...Value) error {
	if err := r.pool.Charge(len(vals) * valueSize); err != nil {
		return err
	}
	o.items = append(o.items, vals...)
	return nil
}

// Truncate shortens an Array object to n elements.
func (r *Realm) Truncate(o *OwnedObject, n int) {
	if n < len(o.items) {
		o.items = o.items[:n]
	}
}

func (r *Realm) setItem(o *OwnedObject, i int, val Value) error {
	if i < len(o.items) {
		o.items[i] = val
		return nil
	}
	if !o.extensible {
		return errors.NewTypeError("cannot add element %d, object is not extensible", i)
	}
	grow := i + 1 - len(o.items)
	if err := r.pool.Charge(grow * valueSize); err != nil {
		return err
	}
	for len(o.items) < i {
		o.items = append(o.items, Undefined)
	}
	o.items = append(o.items, val)
	return nil
}

// Call invokes fn with the given receiver. The function's coercion vector
// is applied positionally over [this, args...] before its entry point runs.
func (r *Realm) Call(fn Value, this Value, args ...Value) (Value, error) {
	if !fn.IsFunction() {
		return Undefined, errors.NewTypeError("%s is not a function", fn.ToString())
	}
	argv := make([]Value, 0, len(args)+1)
	argv = append(argv, this)
	argv = append(argv, args...)
	return r.invoke(fn, argv, false)
}

// Construct invokes a constructor as with `new`.
func (r *Realm) Construct(ctor Value, args ...Value) (Value, error) {
	if !ctor.IsFunction() || !ctor.obj.IsConstructor() {
		return Undefined, errors.NewTypeError("%s is not a constructor", ctor.ToString())
	}
	argv := make([]Value, 0, len(args)+1)
	argv = append(argv, Undefined)
	argv = append(argv, args...)
	return r.invoke(ctor, argv, true)
}

func (r *Realm) invoke(callee Value, argv []Value, ctor bool) (Value, error) {
	fd := callee.obj.core().fn
	fd.coerce(argv)
	return fd.entry.fn(&NativeCall{Realm: r, Callee: callee, Args: argv, Ctor: ctor})
}

// arrayIndex parses a canonical array index.
func arrayIndex(name string) (int, bool) {
	if name == "" || (len(name) > 1 && name[0] == '0') {
		return 0, false
	}
	i, err := strconv.Atoi(name)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}
