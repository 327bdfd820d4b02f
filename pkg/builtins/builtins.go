package builtins

import (
	"njscore/pkg/errors"
	"njscore/pkg/vm"
)

// method is shorthand for a writable, non-enumerable native method slot.
func method(name string, fn vm.NativeFn, argTypes ...vm.CoercionTag) vm.PropertyDesc {
	return vm.Method(vm.NewNativeFunction(name, fn, argTypes...))
}

// prototypeProperty is a constructor's "prototype". It is an accessor so
// the shared table resolves to the prototype of whichever realm reads it.
func prototypeProperty(k vm.BuiltinKind) vm.PropertyDesc {
	return vm.Accessor("prototype", func(r *vm.Realm, this vm.Value) (vm.Value, error) {
		return vm.ObjectValue(r.Prototype(k)), nil
	})
}

// constructorProperty is a prototype's "constructor". Assigning to it
// shadows the accessor with a data property.
func constructorProperty(k vm.BuiltinKind) vm.PropertyDesc {
	return vm.WritableAccessor("constructor", func(r *vm.Realm, this vm.Value) (vm.Value, error) {
		return vm.ObjectValue(r.Constructor(k)), nil
	})
}

// thisPrimitive unwraps the receiver of a Boolean, Number, String or Date
// prototype method.
func thisPrimitive(c *vm.NativeCall, k vm.BuiltinKind, method string) (vm.Value, error) {
	this := c.This()
	switch k {
	case vm.BuiltinBoolean:
		if this.IsBoolean() {
			return this, nil
		}
	case vm.BuiltinNumber:
		if this.IsNumber() {
			return this, nil
		}
	case vm.BuiltinString:
		if this.IsString() {
			return this, nil
		}
	}
	if this.IsObject() && this.AsObject().Class() == k.Class() {
		return this.AsObject().PrimitiveValue(), nil
	}
	return vm.Undefined, errors.NewTypeError("%s.prototype.%s requires that 'this' be a %s", k, method, k)
}

// thisArray returns the receiver of an Array prototype method.
func thisArray(c *vm.NativeCall, method string) (*vm.OwnedObject, error) {
	this := c.This()
	if this.IsObject() {
		if a, ok := this.AsObject().(*vm.OwnedObject); ok && a.Class() == vm.ClassArray {
			return a, nil
		}
	}
	return nil, errors.NewTypeError("Array.prototype.%s called on a non-array", method)
}

// box wraps a primitive, or returns objects unchanged.
func box(r *vm.Realm, v vm.Value) (vm.Value, error) {
	var k vm.BuiltinKind
	switch v.Type() {
	case vm.TypeBoolean:
		k = vm.BuiltinBoolean
	case vm.TypeNumber:
		k = vm.BuiltinNumber
	case vm.TypeString:
		k = vm.BuiltinString
	case vm.TypeObject, vm.TypeFunction:
		return v, nil
	default:
		o, err := r.NewObject(vm.PrototypeID(vm.BuiltinObject))
		if err != nil {
			return vm.Undefined, err
		}
		return vm.ObjectValue(o), nil
	}
	o, err := r.NewBoxed(k, v)
	if err != nil {
		return vm.Undefined, err
	}
	return vm.ObjectValue(o), nil
}

// relativeIndex clamps a possibly negative index into [0, n].
func relativeIndex(v vm.Value, n int, def int) int {
	if v.IsUndefined() {
		return def
	}
	i := v.ToInteger()
	if i < 0 {
		i += float64(n)
		if i < 0 {
			return 0
		}
	}
	if i > float64(n) {
		return n
	}
	return int(i)
}
