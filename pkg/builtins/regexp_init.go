package builtins

import (
	"njscore/pkg/errors"
	"njscore/pkg/vm"
)

type RegExpInitializer struct{}

func (r *RegExpInitializer) Name() string {
	return "RegExp"
}

func (r *RegExpInitializer) Priority() int {
	return PriorityRegExp
}

func (r *RegExpInitializer) Kind() vm.BuiltinKind {
	return vm.BuiltinRegExp
}

func (r *RegExpInitializer) InitPrototype(ctx *TemplateContext) (vm.PrototypeDef, error) {
	return vm.PrototypeDef{
		Name:    "RegExp",
		Pattern: ctx.EmptyPattern,
		Props: []vm.PropertyDesc{
			constructorProperty(vm.BuiltinRegExp),
			vm.Accessor("source", regexpFlag(func(p *vm.Pattern) vm.Value { return vm.NewString(p.Source()) })),
			vm.Accessor("global", regexpFlag(func(p *vm.Pattern) vm.Value { return vm.BooleanValue(p.Global()) })),
			vm.Accessor("ignoreCase", regexpFlag(func(p *vm.Pattern) vm.Value { return vm.BooleanValue(p.IgnoreCase()) })),
			vm.Accessor("multiline", regexpFlag(func(p *vm.Pattern) vm.Value { return vm.BooleanValue(p.Multiline()) })),
			method("exec", regexpExec, vm.SkipArg, vm.StringArg),
			method("test", regexpTest, vm.SkipArg, vm.StringArg),
			method("toString", regexpToString),
		},
	}, nil
}

func (r *RegExpInitializer) InitConstructor(ctx *TemplateContext) (*vm.NativeFunction, []vm.PropertyDesc, error) {
	ctor := vm.NewNativeFunction("RegExp", regexpConstructor, vm.SkipArg, vm.StringArg, vm.StringArg)
	return ctor, []vm.PropertyDesc{prototypeProperty(vm.BuiltinRegExp)}, nil
}

func regexpConstructor(c *vm.NativeCall) (vm.Value, error) {
	var source, flags string
	if c.NArgs() > 0 {
		source = c.Arg(0).AsString()
	}
	if c.NArgs() > 1 {
		flags = c.Arg(1).AsString()
	}
	p, err := vm.CompilePattern(source, flags)
	if err != nil {
		return vm.Undefined, err
	}
	o, err := c.Realm.NewRegExp(p)
	if err != nil {
		return vm.Undefined, err
	}
	return vm.ObjectValue(o), nil
}

func thisPattern(this vm.Value, method string) (*vm.Pattern, error) {
	if this.IsObject() {
		if p := this.AsObject().Pattern(); p != nil {
			return p, nil
		}
	}
	return nil, errors.NewTypeError("RegExp.prototype.%s requires that 'this' be a RegExp", method)
}

func regexpFlag(get func(*vm.Pattern) vm.Value) vm.Getter {
	return func(r *vm.Realm, this vm.Value) (vm.Value, error) {
		p, err := thisPattern(this, "flags")
		if err != nil {
			return vm.Undefined, nil
		}
		return get(p), nil
	}
}

func regexpExec(c *vm.NativeCall) (vm.Value, error) {
	p, err := thisPattern(c.This(), "exec")
	if err != nil {
		return vm.Undefined, err
	}
	input := c.Arg(0).ToString()
	groups, index, err := p.Match(input)
	if err != nil {
		return vm.Undefined, errors.NewSyntaxError("RegExp.prototype.exec: %v", err).CausedBy(err)
	}
	if groups == nil {
		return vm.Null, nil
	}
	items := make([]vm.Value, len(groups))
	for i, g := range groups {
		items[i] = vm.NewString(g)
	}
	a, err := c.Realm.NewArray(items)
	if err != nil {
		return vm.Undefined, err
	}
	if err := c.Realm.Define(a, "index", vm.NumberValue(float64(index)), true, true, true); err != nil {
		return vm.Undefined, err
	}
	if err := c.Realm.Define(a, "input", vm.NewString(input), true, true, true); err != nil {
		return vm.Undefined, err
	}
	return vm.ObjectValue(a), nil
}

func regexpTest(c *vm.NativeCall) (vm.Value, error) {
	p, err := thisPattern(c.This(), "test")
	if err != nil {
		return vm.Undefined, err
	}
	ok, err := p.Test(c.Arg(0).ToString())
	if err != nil {
		return vm.Undefined, errors.NewSyntaxError("RegExp.prototype.test: %v", err).CausedBy(err)
	}
	return vm.BooleanValue(ok), nil
}

func regexpToString(c *vm.NativeCall) (vm.Value, error) {
	p, err := thisPattern(c.This(), "toString")
	if err != nil {
		return vm.Undefined, err
	}
	return vm.NewString(p.String()), nil
}
