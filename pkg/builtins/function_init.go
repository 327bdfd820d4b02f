package builtins

import (
	"fmt"

	"njscore/pkg/errors"
	"njscore/pkg/vm"
)

type FunctionInitializer struct{}

func (f *FunctionInitializer) Name() string {
	return "Function"
}

func (f *FunctionInitializer) Priority() int {
	return PriorityFunction
}

func (f *FunctionInitializer) Kind() vm.BuiltinKind {
	return vm.BuiltinFunction
}

func (f *FunctionInitializer) InitPrototype(ctx *TemplateContext) (vm.PrototypeDef, error) {
	return vm.PrototypeDef{
		Name: "Function",
		// Function.prototype is itself a function that accepts anything
		// and returns undefined.
		Native: vm.NewNativeFunction("", func(c *vm.NativeCall) (vm.Value, error) {
			return vm.Undefined, nil
		}),
		Props: []vm.PropertyDesc{
			constructorProperty(vm.BuiltinFunction),
			method("call", functionCall),
			method("apply", functionApply),
			method("toString", functionToString),
		},
	}, nil
}

func (f *FunctionInitializer) InitConstructor(ctx *TemplateContext) (*vm.NativeFunction, []vm.PropertyDesc, error) {
	return vm.NewNativeFunction("Function", functionConstructor),
		[]vm.PropertyDesc{prototypeProperty(vm.BuiltinFunction)}, nil
}

// errNoCompiler is returned by everything that would need to compile
// source text.
func errNoCompiler(what string) error {
	return &errors.RuntimeError{Name: "InternalError", Msg: what + ": no compiler is attached to this VM"}
}

func functionConstructor(c *vm.NativeCall) (vm.Value, error) {
	return vm.Undefined, errNoCompiler("Function")
}

func thisFunction(c *vm.NativeCall, method string) (vm.Value, error) {
	this := c.This()
	if !this.IsFunction() {
		return vm.Undefined, errors.NewTypeError("Function.prototype.%s called on %s", method, this.Type())
	}
	return this, nil
}

func functionCall(c *vm.NativeCall) (vm.Value, error) {
	fn, err := thisFunction(c, "call")
	if err != nil {
		return vm.Undefined, err
	}
	var args []vm.Value
	if c.NArgs() > 1 {
		args = c.Args[2:]
	}
	return c.Realm.Call(fn, c.Arg(0), args...)
}

func functionApply(c *vm.NativeCall) (vm.Value, error) {
	fn, err := thisFunction(c, "apply")
	if err != nil {
		return vm.Undefined, err
	}
	var args []vm.Value
	switch list := c.Arg(1); {
	case list.IsUndefined() || list.IsNull():
	case list.IsObject() && list.AsObject().Class() == vm.ClassArray:
		if a, ok := list.AsObject().(*vm.OwnedObject); ok {
			args = a.Items()
		}
	default:
		return vm.Undefined, errors.NewTypeError("second argument to Function.prototype.apply must be an array")
	}
	return c.Realm.Call(fn, c.Arg(0), args...)
}

func functionToString(c *vm.NativeCall) (vm.Value, error) {
	fn, err := thisFunction(c, "toString")
	if err != nil {
		return vm.Undefined, err
	}
	return vm.NewString(fmt.Sprintf("function %s() { [native code] }", fn.AsNative().Name())), nil
}
