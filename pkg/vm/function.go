package vm

// CoercionTag tells the call path how to convert one raw argument before
// the native entry point runs.
type CoercionTag uint8

const (
	SkipArg CoercionTag = iota // leave the position untouched (the receiver)
	NumberArg
	StringArg
	IntegerArg
)

func (t CoercionTag) String() string {
	switch t {
	case SkipArg:
		return "skip"
	case NumberArg:
		return "number"
	case StringArg:
		return "string"
	case IntegerArg:
		return "integer"
	default:
		return "unknown"
	}
}

// NativeCall is what a native entry point receives.
type NativeCall struct {
	Realm  *Realm
	Callee Value
	Args   []Value // Args[0] is the receiver, arguments start at Args[1]
	Ctor   bool    // invoked through Construct
}

// This returns the receiver slot.
func (c *NativeCall) This() Value {
	if len(c.Args) == 0 {
		return Undefined
	}
	return c.Args[0]
}

// Arg returns the i-th script argument, or undefined when absent.
func (c *NativeCall) Arg(i int) Value {
	if i+1 < len(c.Args) {
		return c.Args[i+1]
	}
	return Undefined
}

// NArgs is the number of script arguments, receiver excluded.
func (c *NativeCall) NArgs() int {
	if len(c.Args) == 0 {
		return 0
	}
	return len(c.Args) - 1
}

// NativeFn is a Go entry point callable from scripts.
type NativeFn func(c *NativeCall) (Value, error)

// NativeFunction is the static descriptor of a native entry point: its
// name, the Go function and its coercion vector. The pointer identity of a
// NativeFunction is the identity name resolution compares against.
type NativeFunction struct {
	name     string
	fn       NativeFn
	argTypes []CoercionTag
}

// NewNativeFunction describes an entry point. The coercion vector is
// positional over [receiver, args...]; positions past its end pass through.
func NewNativeFunction(name string, fn NativeFn, argTypes ...CoercionTag) *NativeFunction {
	return &NativeFunction{
		name:     name,
		fn:       fn,
		argTypes: append([]CoercionTag(nil), argTypes...),
	}
}

func (f *NativeFunction) Name() string { return f.name }

// ArgTypes returns a copy of the declared coercion vector.
func (f *NativeFunction) ArgTypes() []CoercionTag {
	return append([]CoercionTag(nil), f.argTypes...)
}

// functionData is the function part of an object. The coercion vector is
// copied from the descriptor when the object is built and never resized.
type functionData struct {
	entry      *NativeFunction
	argsOffset int
	ctor       bool
	argTypes   []CoercionTag
}

func newFunctionData(entry *NativeFunction, ctor bool) *functionData {
	return &functionData{
		entry:      entry,
		argsOffset: 1,
		ctor:       ctor,
		argTypes:   append([]CoercionTag(nil), entry.argTypes...),
	}
}

// coerce converts args in place according to the coercion vector.
func (fd *functionData) coerce(args []Value) {
	for i, tag := range fd.argTypes {
		if i >= len(args) {
			return
		}
		switch tag {
		case NumberArg:
			if !args[i].IsNumber() {
				args[i] = NumberValue(args[i].ToNumber())
			}
		case StringArg:
			if !args[i].IsString() {
				args[i] = NewString(args[i].ToString())
			}
		case IntegerArg:
			args[i] = NumberValue(args[i].ToInteger())
		}
	}
}

// newSharedFunction builds a template function object around entry. Its
// parent is the Function prototype slot of whichever arena resolves it.
func newSharedFunction(pool *Pool, entry *NativeFunction, props *PropertyTable) (*SharedObject, error) {
	if err := pool.Charge(objectSize); err != nil {
		return nil, err
	}
	return &SharedObject{objectCore{
		class:      ClassFunction,
		name:       entry.name,
		props:      props,
		parent:     PrototypeID(BuiltinFunction),
		extensible: true,
		fn:         newFunctionData(entry, false),
	}}, nil
}
