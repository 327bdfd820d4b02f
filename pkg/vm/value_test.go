package vm

import (
	"math"
	"testing"
)

func floatsEqual(t *testing.T, want, got float64) {
	t.Helper()
	if math.IsNaN(want) && math.IsNaN(got) {
		return
	}
	if math.Abs(want-got) > 1e-9 {
		t.Errorf("Float mismatch. Expected %v, got %v", want, got)
	}
}

func TestConstants(t *testing.T) {
	if Undefined.Type() != TypeUndefined {
		t.Errorf("Undefined type mismatch. Expected %v, got %v", TypeUndefined, Undefined.Type())
	}
	if Null.Type() != TypeNull {
		t.Errorf("Null type mismatch. Expected %v, got %v", TypeNull, Null.Type())
	}
	if True.Type() != TypeBoolean || !True.AsBoolean() {
		t.Errorf("True mismatch, got %v", True.Inspect())
	}
	if False.Type() != TypeBoolean || False.AsBoolean() {
		t.Errorf("False mismatch, got %v", False.Inspect())
	}
	if !BooleanValue(true).SameValue(True) || !BooleanValue(false).SameValue(False) {
		t.Errorf("BooleanValue should return the True/False constants")
	}
}

func TestToStringConversion(t *testing.T) {
	testCases := []struct {
		name string
		in   Value
		want string
	}{
		{"String", NewString("test"), "test"},
		{"Float", NumberValue(123.45), "123.45"},
		{"Integer", NumberValue(987), "987"},
		{"NegativeZero", NumberValue(math.Copysign(0, -1)), "0"},
		{"NaN", NumberValue(math.NaN()), "NaN"},
		{"Infinity", NumberValue(math.Inf(1)), "Infinity"},
		{"NegInfinity", NumberValue(math.Inf(-1)), "-Infinity"},
		{"Small", NumberValue(1e-7), "1e-7"},
		{"Large", NumberValue(1e21), "1e+21"},
		{"BooleanTrue", True, "true"},
		{"BooleanFalse", False, "false"},
		{"Null", Null, "null"},
		{"Undefined", Undefined, "undefined"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.ToString(); got != tc.want {
				t.Errorf("ToString() mismatch. Expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestToNumberConversion(t *testing.T) {
	testCases := []struct {
		name  string
		input Value
		want  float64
	}{
		{"Float", NumberValue(123.45), 123.45},
		{"BooleanTrue", True, 1},
		{"BooleanFalse", False, 0},
		{"StringNumber", NewString(" -1.5e2 "), -150},
		{"StringHex", NewString("0xff"), 255},
		{"StringBinary", NewString("0b101"), 5},
		{"StringEmpty", NewString("  "), 0},
		{"StringInfinity", NewString("-Infinity"), math.Inf(-1)},
		{"StringGoInf", NewString("inf"), math.NaN()},
		{"StringInvalid", NewString("test"), math.NaN()},
		{"Null", Null, 0},
		{"Undefined", Undefined, math.NaN()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			floatsEqual(t, tc.want, tc.input.ToNumber())
		})
	}
}

func TestToIntegerConversion(t *testing.T) {
	testCases := []struct {
		name  string
		input Value
		want  float64
	}{
		{"Float", NumberValue(123.45), 123},
		{"FloatNegative", NumberValue(-123.99), -123},
		{"FloatNaN", NumberValue(math.NaN()), 0},
		{"FloatInf", NumberValue(math.Inf(1)), math.Inf(1)},
		{"StringFloat", NewString(" 123.9 "), 123},
		{"StringInvalid", NewString("12a"), 0},
		{"Undefined", Undefined, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.input.ToInteger(); got != tc.want {
				t.Errorf("ToInteger() mismatch. Expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestToBoolean(t *testing.T) {
	falsy := []Value{Undefined, Null, False, NumberValue(0), NumberValue(math.NaN()), NewString("")}
	for _, v := range falsy {
		if v.ToBoolean() {
			t.Errorf("Expected %s to be falsy", v.Inspect())
		}
	}
	truthy := []Value{True, NumberValue(-1), NewString("0"), NewString("false")}
	for _, v := range truthy {
		if !v.ToBoolean() {
			t.Errorf("Expected %s to be truthy", v.Inspect())
		}
	}
}

func TestSameValue(t *testing.T) {
	if !NumberValue(math.NaN()).SameValue(NumberValue(math.NaN())) {
		t.Errorf("NaN should be the same value as NaN")
	}
	if NumberValue(0).SameValue(NumberValue(math.Copysign(0, -1))) {
		t.Errorf("+0 and -0 should differ")
	}
	if NewString("1").SameValue(NumberValue(1)) {
		t.Errorf("SameValue must not coerce")
	}
	a := &SharedObject{objectCore{class: ClassObject}}
	b := &SharedObject{objectCore{class: ClassObject}}
	if !ObjectValue(a).SameValue(ObjectValue(a)) || ObjectValue(a).SameValue(ObjectValue(b)) {
		t.Errorf("objects should compare by identity")
	}
}

func TestObjectValueTagsFunctions(t *testing.T) {
	fn, err := newSharedFunction(nil, NewNativeFunction("f", nil), nil)
	if err != nil {
		t.Fatalf("newSharedFunction: %v", err)
	}
	v := ObjectValue(fn)
	if !v.IsFunction() || !v.IsObject() {
		t.Errorf("Expected function value, got %v", v.Type())
	}
	if v.AsNative().Name() != "f" {
		t.Errorf("AsNative name mismatch, got %q", v.AsNative().Name())
	}
	if got := v.Inspect(); got != "[Function: f]" {
		t.Errorf("Inspect() = %q", got)
	}
	if NumberValue(1).AsNative() != nil {
		t.Errorf("AsNative on a number should be nil")
	}
	if !ObjectValue(nil).IsNull() {
		t.Errorf("ObjectValue(nil) should be null")
	}
}
