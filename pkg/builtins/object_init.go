package builtins

import (
	"njscore/pkg/errors"
	"njscore/pkg/vm"
)

type ObjectInitializer struct{}

func (o *ObjectInitializer) Name() string {
	return "Object"
}

func (o *ObjectInitializer) Priority() int {
	return PriorityObject
}

func (o *ObjectInitializer) Kind() vm.BuiltinKind {
	return vm.BuiltinObject
}

func (o *ObjectInitializer) InitPrototype(ctx *TemplateContext) (vm.PrototypeDef, error) {
	return vm.PrototypeDef{
		Name: "Object",
		Props: []vm.PropertyDesc{
			vm.Accessor("__proto__", objectProtoGetter),
			constructorProperty(vm.BuiltinObject),
			method("valueOf", objectValueOf),
			method("toString", objectToString),
			method("hasOwnProperty", objectHasOwnProperty, vm.SkipArg, vm.StringArg),
			method("isPrototypeOf", objectIsPrototypeOf),
		},
	}, nil
}

func (o *ObjectInitializer) InitConstructor(ctx *TemplateContext) (*vm.NativeFunction, []vm.PropertyDesc, error) {
	ctor := vm.NewNativeFunction("Object", objectConstructor)
	statics := []vm.PropertyDesc{
		prototypeProperty(vm.BuiltinObject),
		method("create", objectCreate),
		method("keys", objectKeys),
		method("getPrototypeOf", objectGetPrototypeOf),
	}
	return ctor, statics, nil
}

func objectConstructor(c *vm.NativeCall) (vm.Value, error) {
	return box(c.Realm, c.Arg(0))
}

func objectProtoGetter(r *vm.Realm, this vm.Value) (vm.Value, error) {
	return r.GetPrototypeOf(this), nil
}

func objectValueOf(c *vm.NativeCall) (vm.Value, error) {
	this := c.This()
	if this.IsUndefined() || this.IsNull() {
		return vm.Undefined, errors.NewTypeError("cannot convert %s to object", this.ToString())
	}
	return box(c.Realm, this)
}

func objectToString(c *vm.NativeCall) (vm.Value, error) {
	this := c.This()
	var tag string
	switch this.Type() {
	case vm.TypeUndefined:
		tag = "Undefined"
	case vm.TypeNull:
		tag = "Null"
	case vm.TypeBoolean:
		tag = "Boolean"
	case vm.TypeNumber:
		tag = "Number"
	case vm.TypeString:
		tag = "String"
	default:
		tag = this.AsObject().Class().String()
	}
	return vm.NewString("[object " + tag + "]"), nil
}

func objectHasOwnProperty(c *vm.NativeCall) (vm.Value, error) {
	this := c.This()
	name := c.Arg(0).ToString()
	if !this.IsObject() {
		if this.IsString() && name == "length" {
			return vm.True, nil
		}
		return vm.False, nil
	}
	o := this.AsObject()
	if a, ok := o.(*vm.OwnedObject); ok && a.Class() == vm.ClassArray {
		for _, key := range c.Realm.OwnKeys(a) {
			if key == name {
				return vm.True, nil
			}
		}
	}
	p, ok := o.OwnProperty(name)
	return vm.BooleanValue(ok && p.Kind() != vm.PropertyHidden), nil
}

func objectIsPrototypeOf(c *vm.NativeCall) (vm.Value, error) {
	this := c.This()
	v := c.Arg(0)
	if !this.IsObject() || !v.IsObject() {
		return vm.False, nil
	}
	for p := c.Realm.GetPrototypeOf(v); p.IsObject(); p = c.Realm.GetPrototypeOf(p) {
		if p.AsObject() == this.AsObject() {
			return vm.True, nil
		}
	}
	return vm.False, nil
}

func objectCreate(c *vm.NativeCall) (vm.Value, error) {
	proto := c.Arg(0)
	parent := vm.NullObject
	switch {
	case proto.IsNull():
	case proto.IsObject():
		owned, ok := proto.AsObject().(*vm.OwnedObject)
		if !ok {
			return vm.Undefined, errors.NewTypeError("prototype must be an object owned by this VM")
		}
		parent = owned.ID()
	default:
		return vm.Undefined, errors.NewTypeError("Object prototype may only be an Object or null: %s", proto.ToString())
	}
	o, err := c.Realm.NewObject(parent)
	if err != nil {
		return vm.Undefined, err
	}
	return vm.ObjectValue(o), nil
}

func objectKeys(c *vm.NativeCall) (vm.Value, error) {
	v := c.Arg(0)
	if !v.IsObject() {
		return vm.Undefined, errors.NewTypeError("Object.keys called on non-object")
	}
	keys := c.Realm.OwnKeys(v.AsObject())
	items := make([]vm.Value, len(keys))
	for i, k := range keys {
		items[i] = vm.NewString(k)
	}
	a, err := c.Realm.NewArray(items)
	if err != nil {
		return vm.Undefined, err
	}
	return vm.ObjectValue(a), nil
}

func objectGetPrototypeOf(c *vm.NativeCall) (vm.Value, error) {
	v := c.Arg(0)
	if v.IsUndefined() || v.IsNull() {
		return vm.Undefined, errors.NewTypeError("cannot convert %s to object", v.ToString())
	}
	return c.Realm.GetPrototypeOf(v), nil
}
