package builtins

import (
	"math"
	"strings"

	"njscore/pkg/errors"
	"njscore/pkg/vm"
)

type ArrayInitializer struct{}

func (a *ArrayInitializer) Name() string {
	return "Array"
}

func (a *ArrayInitializer) Priority() int {
	return PriorityArray
}

func (a *ArrayInitializer) Kind() vm.BuiltinKind {
	return vm.BuiltinArray
}

func (a *ArrayInitializer) InitPrototype(ctx *TemplateContext) (vm.PrototypeDef, error) {
	return vm.PrototypeDef{
		Name: "Array",
		Props: []vm.PropertyDesc{
			vm.Accessor("length", arrayLength),
			constructorProperty(vm.BuiltinArray),
			method("push", arrayPush),
			method("pop", arrayPop),
			method("join", arrayJoin),
			method("toString", arrayToString),
			method("slice", arraySlice),
			method("indexOf", arrayIndexOf),
		},
	}, nil
}

func (a *ArrayInitializer) InitConstructor(ctx *TemplateContext) (*vm.NativeFunction, []vm.PropertyDesc, error) {
	ctor := vm.NewNativeFunction("Array", arrayConstructor)
	statics := []vm.PropertyDesc{
		prototypeProperty(vm.BuiltinArray),
		method("isArray", arrayIsArray),
	}
	return ctor, statics, nil
}

func arrayConstructor(c *vm.NativeCall) (vm.Value, error) {
	var items []vm.Value
	if c.NArgs() == 1 && c.Arg(0).IsNumber() {
		n := c.Arg(0).AsFloat()
		if n < 0 || n != math.Trunc(n) || n > math.MaxUint32 {
			return vm.Undefined, errors.NewRangeError("Invalid array length")
		}
		items = make([]vm.Value, int(n))
	} else {
		items = append(items, c.Args[1:]...)
	}
	a, err := c.Realm.NewArray(items)
	if err != nil {
		return vm.Undefined, err
	}
	return vm.ObjectValue(a), nil
}

func arrayLength(r *vm.Realm, this vm.Value) (vm.Value, error) {
	if this.IsObject() {
		if a, ok := this.AsObject().(*vm.OwnedObject); ok && a.Class() == vm.ClassArray {
			return vm.NumberValue(float64(len(a.Items()))), nil
		}
	}
	return vm.NumberValue(0), nil
}

func arrayIsArray(c *vm.NativeCall) (vm.Value, error) {
	v := c.Arg(0)
	return vm.BooleanValue(v.IsObject() && v.AsObject().Class() == vm.ClassArray), nil
}

func arrayPush(c *vm.NativeCall) (vm.Value, error) {
	a, err := thisArray(c, "push")
	if err != nil {
		return vm.Undefined, err
	}
	if err := c.Realm.Push(a, c.Args[1:]...); err != nil {
		return vm.Undefined, err
	}
	return vm.NumberValue(float64(len(a.Items()))), nil
}

func arrayPop(c *vm.NativeCall) (vm.Value, error) {
	a, err := thisArray(c, "pop")
	if err != nil {
		return vm.Undefined, err
	}
	items := a.Items()
	if len(items) == 0 {
		return vm.Undefined, nil
	}
	last := items[len(items)-1]
	c.Realm.Truncate(a, len(items)-1)
	return last, nil
}

func arrayJoin(c *vm.NativeCall) (vm.Value, error) {
	a, err := thisArray(c, "join")
	if err != nil {
		return vm.Undefined, err
	}
	sep := ","
	if !c.Arg(0).IsUndefined() {
		sep = c.Arg(0).ToString()
	}
	return vm.NewString(joinItems(a.Items(), sep)), nil
}

func arrayToString(c *vm.NativeCall) (vm.Value, error) {
	a, err := thisArray(c, "toString")
	if err != nil {
		return vm.Undefined, err
	}
	return vm.NewString(joinItems(a.Items(), ",")), nil
}

func joinItems(items []vm.Value, sep string) string {
	parts := make([]string, len(items))
	for i, el := range items {
		if !el.IsUndefined() && !el.IsNull() {
			parts[i] = el.ToString()
		}
	}
	return strings.Join(parts, sep)
}

func arraySlice(c *vm.NativeCall) (vm.Value, error) {
	a, err := thisArray(c, "slice")
	if err != nil {
		return vm.Undefined, err
	}
	items := a.Items()
	start := relativeIndex(c.Arg(0), len(items), 0)
	end := relativeIndex(c.Arg(1), len(items), len(items))
	var out []vm.Value
	if start < end {
		out = append(out, items[start:end]...)
	}
	res, err := c.Realm.NewArray(out)
	if err != nil {
		return vm.Undefined, err
	}
	return vm.ObjectValue(res), nil
}

func arrayIndexOf(c *vm.NativeCall) (vm.Value, error) {
	a, err := thisArray(c, "indexOf")
	if err != nil {
		return vm.Undefined, err
	}
	items := a.Items()
	target := c.Arg(0)
	for i := relativeIndex(c.Arg(1), len(items), 0); i < len(items); i++ {
		el := items[i]
		// Strict equality: NaN never matches, +0 matches -0.
		if el.Type() == vm.TypeNumber && target.Type() == vm.TypeNumber {
			if el.AsFloat() == target.AsFloat() {
				return vm.NumberValue(float64(i)), nil
			}
			continue
		}
		if el.SameValue(target) {
			return vm.NumberValue(float64(i)), nil
		}
	}
	return vm.NumberValue(-1), nil
}
