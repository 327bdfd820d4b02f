package builtins

import (
	"njscore/pkg/vm"
)

type BooleanInitializer struct{}

func (b *BooleanInitializer) Name() string {
	return "Boolean"
}

func (b *BooleanInitializer) Priority() int {
	return PriorityBoolean
}

func (b *BooleanInitializer) Kind() vm.BuiltinKind {
	return vm.BuiltinBoolean
}

func (b *BooleanInitializer) InitPrototype(ctx *TemplateContext) (vm.PrototypeDef, error) {
	return vm.PrototypeDef{
		Name:  "Boolean",
		Value: vm.False,
		Props: []vm.PropertyDesc{
			constructorProperty(vm.BuiltinBoolean),
			method("valueOf", booleanValueOf),
			method("toString", booleanToString),
		},
	}, nil
}

func (b *BooleanInitializer) InitConstructor(ctx *TemplateContext) (*vm.NativeFunction, []vm.PropertyDesc, error) {
	return vm.NewNativeFunction("Boolean", booleanConstructor),
		[]vm.PropertyDesc{prototypeProperty(vm.BuiltinBoolean)}, nil
}

func booleanConstructor(c *vm.NativeCall) (vm.Value, error) {
	v := vm.BooleanValue(c.Arg(0).ToBoolean())
	if !c.Ctor {
		return v, nil
	}
	o, err := c.Realm.NewBoxed(vm.BuiltinBoolean, v)
	if err != nil {
		return vm.Undefined, err
	}
	return vm.ObjectValue(o), nil
}

func booleanValueOf(c *vm.NativeCall) (vm.Value, error) {
	return thisPrimitive(c, vm.BuiltinBoolean, "valueOf")
}

func booleanToString(c *vm.NativeCall) (vm.Value, error) {
	v, err := thisPrimitive(c, vm.BuiltinBoolean, "toString")
	if err != nil {
		return vm.Undefined, err
	}
	return vm.NewString(v.ToString()), nil
}
