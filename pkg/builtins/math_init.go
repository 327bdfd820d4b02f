package builtins

import (
	"math"
	"math/rand"

	"njscore/pkg/vm"
)

type MathInitializer struct{}

func (m *MathInitializer) Name() string {
	return "Math"
}

func (m *MathInitializer) Priority() int {
	return PriorityMath // 100 - After core types
}

func (m *MathInitializer) InitNamespace(ctx *TemplateContext) ([]vm.PropertyDesc, error) {
	return []vm.PropertyDesc{
		// Constants
		vm.Data("E", vm.NumberValue(math.E)),
		vm.Data("LN2", vm.NumberValue(math.Ln2)),
		vm.Data("LN10", vm.NumberValue(math.Ln10)),
		vm.Data("LOG2E", vm.NumberValue(math.Log2E)),
		vm.Data("LOG10E", vm.NumberValue(math.Log10E)),
		vm.Data("PI", vm.NumberValue(math.Pi)),
		vm.Data("SQRT1_2", vm.NumberValue(math.Sqrt2/2)),
		vm.Data("SQRT2", vm.NumberValue(math.Sqrt2)),

		// Methods
		unary("abs", math.Abs),
		unary("ceil", math.Ceil),
		unary("floor", math.Floor),
		method("max", mathExtremum(math.Inf(-1), math.Max)),
		method("min", mathExtremum(math.Inf(1), math.Min)),
		method("pow", mathPow, vm.SkipArg, vm.NumberArg, vm.NumberArg),
		method("random", mathRandom),
		unary("round", mathRound),
		unary("sqrt", math.Sqrt),
		unary("sin", math.Sin),
		unary("cos", math.Cos),
		unary("tan", math.Tan),
		unary("log", math.Log),
		unary("exp", math.Exp),
	}, nil
}

// unary wraps a float function as a Math method taking one number.
func unary(name string, fn func(float64) float64) vm.PropertyDesc {
	return method(name, func(c *vm.NativeCall) (vm.Value, error) {
		return vm.NumberValue(fn(c.Arg(0).ToNumber())), nil
	}, vm.SkipArg, vm.NumberArg)
}

func mathExtremum(init float64, pick func(a, b float64) float64) vm.NativeFn {
	return func(c *vm.NativeCall) (vm.Value, error) {
		result := init
		for _, arg := range c.Args[1:] {
			result = pick(result, arg.ToNumber())
		}
		return vm.NumberValue(result), nil
	}
}

func mathPow(c *vm.NativeCall) (vm.Value, error) {
	x, y := c.Arg(0).ToNumber(), c.Arg(1).ToNumber()
	// ECMAScript differs from Go for 1 ** +-Infinity.
	if math.Abs(x) == 1 && math.IsInf(y, 0) {
		return vm.NumberValue(math.NaN()), nil
	}
	return vm.NumberValue(math.Pow(x, y)), nil
}

func mathRandom(c *vm.NativeCall) (vm.Value, error) {
	return vm.NumberValue(rand.Float64()), nil
}

// mathRound rounds half up, keeping -0 for (-0.5, -0].
func mathRound(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	if x < 0 && x >= -0.5 {
		return math.Copysign(0, -1)
	}
	return math.Floor(x + 0.5)
}
