package vm

import "fmt"

// BuiltinKind enumerates the builtin types that get both a prototype and a
// constructor. The order fixes the slab layout.
type BuiltinKind uint8

const (
	BuiltinObject BuiltinKind = iota
	BuiltinArray
	BuiltinBoolean
	BuiltinNumber
	BuiltinString
	BuiltinFunction
	BuiltinRegExp
	BuiltinDate
)

// NumBuiltins is the number of prototype (and constructor) slots.
const NumBuiltins = int(BuiltinDate) + 1

func (k BuiltinKind) String() string { return k.Class().String() }

// Class is the object class of the kind's prototype and instances.
func (k BuiltinKind) Class() Class { return Class(k) }

// PrototypeID is the arena slot of the kind's prototype.
func PrototypeID(k BuiltinKind) ObjectID { return ObjectID(k) }

// ConstructorID is the arena slot of the kind's constructor.
func ConstructorID(k BuiltinKind) ObjectID { return ObjectID(NumBuiltins + int(k)) }

// Template is the engine-lifetime, read-only builtin object graph every
// realm is cloned from.
type Template struct {
	namespaces []SharedObject
	functions  []SharedObject
	// slab holds the prototypes followed by the constructors so a realm
	// can copy both in one pass.
	slab []SharedObject

	nullProto         *PropertyTable
	functionPrototype *PropertyTable
	emptyPattern      *Pattern
}

// Object resolves an arena slot, nil for the null terminal or an
// out-of-range id.
func (t *Template) Object(id ObjectID) *SharedObject {
	if id < 0 || int(id) >= len(t.slab) {
		return nil
	}
	return &t.slab[id]
}

func (t *Template) Prototype(k BuiltinKind) *SharedObject   { return &t.slab[PrototypeID(k)] }
func (t *Template) Constructor(k BuiltinKind) *SharedObject { return &t.slab[ConstructorID(k)] }

func (t *Template) NumNamespaces() int                     { return len(t.namespaces) }
func (t *Template) Namespace(i int) *SharedObject          { return &t.namespaces[i] }
func (t *Template) NumFunctions() int                      { return len(t.functions) }
func (t *Template) Function(i int) *SharedObject           { return &t.functions[i] }
func (t *Template) NullProtoTable() *PropertyTable         { return t.nullProto }
func (t *Template) FunctionPrototypeTable() *PropertyTable { return t.functionPrototype }
func (t *Template) EmptyPattern() *Pattern                 { return t.emptyPattern }

// PrototypeDef describes one prototype slot.
type PrototypeDef struct {
	Name    string
	Value   Value           // boxed default payload
	Pattern *Pattern        // RegExp payload
	Native  *NativeFunction // Function.prototype is itself callable
	Props   []PropertyDesc
}

// TemplateBuilder assembles a Template. It is the only code that writes
// to shared objects, and only before Template() publishes them.
type TemplateBuilder struct {
	pool *Pool
	t    *Template
}

// NewTemplateBuilder reserves the namespace, function and slab storage.
func NewTemplateBuilder(pool *Pool, namespaces, functions int) (*TemplateBuilder, error) {
	n := namespaces + functions + 2*NumBuiltins
	if err := pool.Charge(n * objectSize); err != nil {
		return nil, err
	}
	return &TemplateBuilder{
		pool: pool,
		t: &Template{
			namespaces: make([]SharedObject, namespaces),
			functions:  make([]SharedObject, functions),
			slab:       make([]SharedObject, 2*NumBuiltins),
		},
	}, nil
}

func (b *TemplateBuilder) SetNullProtoTable(descs []PropertyDesc) error {
	t, err := BuildTable(b.pool, descs)
	if err != nil {
		return err
	}
	b.t.nullProto = t
	return nil
}

func (b *TemplateBuilder) SetFunctionPrototypeTable(descs []PropertyDesc) error {
	t, err := BuildTable(b.pool, descs)
	if err != nil {
		return err
	}
	b.t.functionPrototype = t
	return nil
}

func (b *TemplateBuilder) SetEmptyPattern(p *Pattern) { b.t.emptyPattern = p }

// DefineNamespace fills namespace slot i. A namespace with no descriptors
// stays propertyless.
func (b *TemplateBuilder) DefineNamespace(i int, name string, descs []PropertyDesc) error {
	o := &b.t.namespaces[i]
	o.class = ClassObject
	o.name = name
	o.parent = PrototypeID(BuiltinObject)
	o.extensible = true
	if len(descs) > 0 {
		t, err := BuildTable(b.pool, descs)
		if err != nil {
			return err
		}
		o.props = t
	}
	return nil
}

// DefineFunction fills standalone function slot i.
func (b *TemplateBuilder) DefineFunction(i int, entry *NativeFunction, descs []PropertyDesc) error {
	o := &b.t.functions[i]
	if len(descs) > 0 {
		t, err := BuildTable(b.pool, descs)
		if err != nil {
			return err
		}
		o.props = t
	}
	o.class = ClassFunction
	o.name = entry.name
	o.parent = PrototypeID(BuiltinFunction)
	o.extensible = true
	o.fn = newFunctionData(entry, false)
	return nil
}

// DefinePrototype fills the prototype slot of k. Object's prototype ends
// the chain; every other prototype inherits from it.
func (b *TemplateBuilder) DefinePrototype(k BuiltinKind, def PrototypeDef) error {
	o := &b.t.slab[PrototypeID(k)]
	o.class = k.Class()
	o.name = def.Name
	o.value = def.Value
	o.pattern = def.Pattern
	o.extensible = true
	if def.Native != nil {
		o.fn = newFunctionData(def.Native, false)
	}
	o.parent = PrototypeID(BuiltinObject)
	if k == BuiltinObject {
		o.parent = NullObject
	}
	t, err := BuildTable(b.pool, def.Props)
	if err != nil {
		return err
	}
	o.props = t
	return nil
}

// DefineConstructor fills the constructor slot of k.
func (b *TemplateBuilder) DefineConstructor(k BuiltinKind, name string, entry *NativeFunction, descs []PropertyDesc) error {
	o := &b.t.slab[ConstructorID(k)]
	o.class = ClassFunction
	o.name = name
	o.extensible = true
	o.fn = newFunctionData(entry, true)
	o.parent = PrototypeID(BuiltinFunction)
	t, err := BuildTable(b.pool, descs)
	if err != nil {
		return err
	}
	o.props = t
	return nil
}

// Template publishes the built graph. The builder must not be used again.
func (b *TemplateBuilder) Template() (*Template, error) {
	t := b.t
	b.t = nil
	if t == nil {
		return nil, fmt.Errorf("template already published")
	}
	for i := range t.slab {
		if t.slab[i].props == nil {
			return nil, fmt.Errorf("builtin slot %d was never defined", i)
		}
	}
	return t, nil
}
