package builtins

import (
	"njscore/pkg/vm"
)

// BuiltinInitializer is implemented by each builtin module
type BuiltinInitializer interface {
	// Name returns the module name (e.g., "Array", "String", "Math")
	Name() string

	// Priority returns initialization order (lower = earlier). It fixes the
	// order of namespaces and global functions in the template.
	Priority() int
}

// TypeInitializer contributes a builtin type: one prototype and one
// constructor, placed in the template slab by Kind.
type TypeInitializer interface {
	BuiltinInitializer

	Kind() vm.BuiltinKind

	// InitPrototype describes the prototype object
	InitPrototype(ctx *TemplateContext) (vm.PrototypeDef, error)

	// InitConstructor returns the constructor entry point and its statics
	InitConstructor(ctx *TemplateContext) (*vm.NativeFunction, []vm.PropertyDesc, error)
}

// NamespaceInitializer contributes a plain namespace object such as Math.
type NamespaceInitializer interface {
	BuiltinInitializer

	InitNamespace(ctx *TemplateContext) ([]vm.PropertyDesc, error)
}

// GlobalFunction is one standalone global function with its optional own
// properties.
type GlobalFunction struct {
	Entry *vm.NativeFunction
	Props []vm.PropertyDesc
}

// FunctionsInitializer contributes standalone global functions.
type FunctionsInitializer interface {
	BuiltinInitializer

	InitFunctions(ctx *TemplateContext) ([]GlobalFunction, error)
}

// TemplateContext provides everything needed while describing builtins
type TemplateContext struct {
	// Arena the template is charged to
	Pool *vm.Pool

	// EmptyPattern is the payload of RegExp.prototype
	EmptyPattern *vm.Pattern
}

// Priority constants for initialization order
const (
	PriorityGlobalThis = 0   // globalThis namespace comes first
	PriorityObject     = 1   // Object must be first (base prototype)
	PriorityArray      = 2   // Array
	PriorityBoolean    = 3   // Boolean primitives
	PriorityNumber     = 4   // Number primitives
	PriorityString     = 5   // String primitives
	PriorityFunction   = 6   // Function
	PriorityRegExp     = 7   // RegExp constructor
	PriorityDate       = 8   // Date constructor
	PriorityGlobals    = 10  // eval, parseInt, ...
	PriorityMath       = 100 // Math object
)
