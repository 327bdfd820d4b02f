package builtins

import (
	"math"
	"strconv"
	"strings"

	"njscore/pkg/errors"
	"njscore/pkg/vm"
)

type NumberInitializer struct{}

func (n *NumberInitializer) Name() string {
	return "Number"
}

func (n *NumberInitializer) Priority() int {
	return PriorityNumber
}

func (n *NumberInitializer) Kind() vm.BuiltinKind {
	return vm.BuiltinNumber
}

func (n *NumberInitializer) InitPrototype(ctx *TemplateContext) (vm.PrototypeDef, error) {
	return vm.PrototypeDef{
		Name:  "Number",
		Value: vm.NumberValue(0),
		Props: []vm.PropertyDesc{
			constructorProperty(vm.BuiltinNumber),
			method("valueOf", numberValueOf),
			method("toString", numberToString),
		},
	}, nil
}

func (n *NumberInitializer) InitConstructor(ctx *TemplateContext) (*vm.NativeFunction, []vm.PropertyDesc, error) {
	ctor := vm.NewNativeFunction("Number", numberConstructor, vm.SkipArg, vm.NumberArg)
	statics := []vm.PropertyDesc{
		prototypeProperty(vm.BuiltinNumber),
		vm.Data("MAX_VALUE", vm.NumberValue(math.MaxFloat64)),
		vm.Data("MIN_VALUE", vm.NumberValue(5e-324)),
		vm.Data("NaN", vm.NumberValue(math.NaN())),
		vm.Data("POSITIVE_INFINITY", vm.NumberValue(math.Inf(1))),
		vm.Data("NEGATIVE_INFINITY", vm.NumberValue(math.Inf(-1))),
		vm.Data("EPSILON", vm.NumberValue(math.Nextafter(1, 2)-1)),
		method("isFinite", numberIsFinite),
		method("isNaN", numberIsNaN),
		method("isInteger", numberIsInteger),
	}
	return ctor, statics, nil
}

func numberConstructor(c *vm.NativeCall) (vm.Value, error) {
	v := vm.NumberValue(0)
	if c.NArgs() > 0 {
		v = c.Arg(0)
	}
	if !c.Ctor {
		return v, nil
	}
	o, err := c.Realm.NewBoxed(vm.BuiltinNumber, v)
	if err != nil {
		return vm.Undefined, err
	}
	return vm.ObjectValue(o), nil
}

func numberValueOf(c *vm.NativeCall) (vm.Value, error) {
	return thisPrimitive(c, vm.BuiltinNumber, "valueOf")
}

func numberToString(c *vm.NativeCall) (vm.Value, error) {
	v, err := thisPrimitive(c, vm.BuiltinNumber, "toString")
	if err != nil {
		return vm.Undefined, err
	}
	radix := 10
	if r := c.Arg(0); !r.IsUndefined() {
		f := r.ToInteger()
		if f < 2 || f > 36 {
			return vm.Undefined, errors.NewRangeError("toString() radix must be between 2 and 36")
		}
		radix = int(f)
	}
	f := v.AsFloat()
	if radix == 10 || math.IsNaN(f) || math.IsInf(f, 0) {
		return vm.NewString(v.ToString()), nil
	}
	return vm.NewString(formatRadix(f, radix)), nil
}

// formatRadix renders a finite number in base radix with up to 20
// fractional digits.
func formatRadix(f float64, radix int) string {
	neg := f < 0
	f = math.Abs(f)
	ip, fp := math.Modf(f)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	if ip < 1<<63 {
		b.WriteString(strconv.FormatUint(uint64(ip), radix))
	} else {
		b.WriteString(strconv.FormatFloat(ip, 'f', 0, 64))
	}
	if fp > 0 {
		b.WriteByte('.')
		for i := 0; i < 20 && fp > 0; i++ {
			fp *= float64(radix)
			d := int(fp)
			b.WriteByte(strconv.FormatInt(int64(d), radix)[0])
			fp -= float64(d)
		}
	}
	return b.String()
}

func numberIsFinite(c *vm.NativeCall) (vm.Value, error) {
	v := c.Arg(0)
	return vm.BooleanValue(v.IsNumber() && !math.IsNaN(v.AsFloat()) && !math.IsInf(v.AsFloat(), 0)), nil
}

func numberIsNaN(c *vm.NativeCall) (vm.Value, error) {
	v := c.Arg(0)
	return vm.BooleanValue(v.IsNumber() && math.IsNaN(v.AsFloat())), nil
}

func numberIsInteger(c *vm.NativeCall) (vm.Value, error) {
	v := c.Arg(0)
	if !v.IsNumber() {
		return vm.False, nil
	}
	f := v.AsFloat()
	return vm.BooleanValue(!math.IsInf(f, 0) && f == math.Trunc(f)), nil
}
