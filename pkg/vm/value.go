package vm

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// cleanExponentialFormat removes leading zeros from exponent to match JS format
// e.g., "1e-07" -> "1e-7", "1e+25" -> "1e+25"
func cleanExponentialFormat(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == 'e' || s[i] == 'E' {
			if i+1 < len(s) && (s[i+1] == '+' || s[i+1] == '-') {
				sign := s[i+1]
				j := i + 2
				for j < len(s) && s[j] == '0' {
					j++
				}
				if j >= len(s) {
					return s[:i+2] + "0"
				}
				return s[:i+1] + string(sign) + s[j:]
			}
			break
		}
	}
	return s
}

type ValueType uint8

const (
	TypeUndefined ValueType = iota
	TypeNull
	TypeBoolean
	TypeNumber
	TypeString
	TypeObject
	TypeFunction
)

// String returns a human-readable string representation of the ValueType
func (vt ValueType) String() string {
	switch vt {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeBoolean:
		return "boolean"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeObject:
		return "object"
	case TypeFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Value is the tagged union every property slot and argument holds.
// Values are immutable; only property tables change through Realm.Set.
type Value struct {
	typ ValueType
	num float64
	str string
	obj Object
}

var (
	Undefined = Value{typ: TypeUndefined}
	Null      = Value{typ: TypeNull}
	True      = Value{typ: TypeBoolean, num: 1}
	False     = Value{typ: TypeBoolean}
)

func NumberValue(value float64) Value {
	return Value{typ: TypeNumber, num: value}
}

func BooleanValue(value bool) Value {
	if value {
		return True
	}
	return False
}

func NewString(value string) Value {
	return Value{typ: TypeString, str: value}
}

// ObjectValue wraps an object. Objects carrying a native entry point are
// tagged as functions.
func ObjectValue(o Object) Value {
	if o == nil {
		return Null
	}
	if o.Native() != nil {
		return Value{typ: TypeFunction, obj: o}
	}
	return Value{typ: TypeObject, obj: o}
}

func (v Value) Type() ValueType { return v.typ }

func (v Value) IsUndefined() bool { return v.typ == TypeUndefined }
func (v Value) IsNull() bool      { return v.typ == TypeNull }
func (v Value) IsBoolean() bool   { return v.typ == TypeBoolean }
func (v Value) IsNumber() bool    { return v.typ == TypeNumber }
func (v Value) IsString() bool    { return v.typ == TypeString }
func (v Value) IsFunction() bool  { return v.typ == TypeFunction }

// IsObject reports whether v references an object, functions included.
func (v Value) IsObject() bool {
	return v.typ == TypeObject || v.typ == TypeFunction
}

func (v Value) IsPrimitive() bool { return !v.IsObject() }

func (v Value) AsBoolean() bool  { return v.num != 0 }
func (v Value) AsFloat() float64 { return v.num }
func (v Value) AsString() string { return v.str }
func (v Value) AsObject() Object { return v.obj }

// AsNative returns the entry point of a function value, or nil.
func (v Value) AsNative() *NativeFunction {
	if v.typ != TypeFunction {
		return nil
	}
	return v.obj.Native()
}

// ToBoolean implements the ECMAScript ToBoolean conversion.
func (v Value) ToBoolean() bool {
	switch v.typ {
	case TypeUndefined, TypeNull:
		return false
	case TypeBoolean:
		return v.num != 0
	case TypeNumber:
		return v.num != 0 && !math.IsNaN(v.num)
	case TypeString:
		return v.str != ""
	default:
		return true
	}
}

// primitive unwraps boxed Boolean/Number/String/Date objects.
func (v Value) primitive() Value {
	if !v.IsObject() {
		return v
	}
	switch v.obj.Class() {
	case ClassBoolean, ClassNumber, ClassString, ClassDate:
		return v.obj.PrimitiveValue()
	case ClassFunction:
		return NewString("[object Function]")
	case ClassArray:
		if a, ok := v.obj.(*OwnedObject); ok {
			parts := make([]string, len(a.items))
			for i, el := range a.items {
				if el.typ != TypeUndefined && el.typ != TypeNull {
					parts[i] = el.ToString()
				}
			}
			return NewString(strings.Join(parts, ","))
		}
		return NewString("")
	case ClassRegExp:
		if p := v.obj.Pattern(); p != nil {
			return NewString(p.String())
		}
	}
	return NewString("[object Object]")
}

// ToNumber implements the ECMAScript ToNumber conversion for the values
// this core knows how to unwrap without running user code.
func (v Value) ToNumber() float64 {
	switch v.typ {
	case TypeUndefined:
		return math.NaN()
	case TypeNull:
		return 0
	case TypeBoolean, TypeNumber:
		return v.num
	case TypeString:
		return parseStringToNumber(v.str)
	default:
		return v.primitive().ToNumber()
	}
}

// ToInteger truncates toward zero; NaN becomes 0, infinities are kept.
func (v Value) ToInteger() float64 {
	f := v.ToNumber()
	if math.IsNaN(f) {
		return 0
	}
	if math.IsInf(f, 0) {
		return f
	}
	return math.Trunc(f)
}

func (v Value) ToString() string {
	switch v.typ {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeBoolean:
		if v.num != 0 {
			return "true"
		}
		return "false"
	case TypeNumber:
		return formatNumber(v.num)
	case TypeString:
		return v.str
	default:
		return v.primitive().ToString()
	}
}

// formatNumber follows ECMAScript Number::toString for radix 10.
func formatNumber(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	if f == 0 {
		return "0"
	}
	abs := math.Abs(f)
	if abs < 1e-6 || abs >= 1e21 {
		return cleanExponentialFormat(strconv.FormatFloat(f, 'e', -1, 64))
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// parseStringToNumber converts a string to a number following ECMAScript rules
func parseStringToNumber(s string) float64 {
	str := strings.TrimSpace(s)
	if str == "" {
		return 0
	}

	if len(str) >= 2 && str[0] == '0' {
		base := 0
		switch str[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			if i, err := strconv.ParseUint(str[2:], base, 64); err == nil {
				return float64(i)
			}
			return math.NaN()
		}
	}

	switch str {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	// Go accepts "inf" and "infinity" in any case, ECMAScript does not.
	if l := strings.ToLower(strings.TrimLeft(str, "+-")); l == "inf" || l == "infinity" {
		return math.NaN()
	}

	if f, err := strconv.ParseFloat(str, 64); err == nil {
		return f
	}
	return math.NaN()
}

// SameValue compares two values without coercion; objects compare by identity.
func (v Value) SameValue(other Value) bool {
	if v.typ != other.typ {
		return false
	}
	switch v.typ {
	case TypeUndefined, TypeNull:
		return true
	case TypeBoolean:
		return v.num == other.num
	case TypeNumber:
		if math.IsNaN(v.num) && math.IsNaN(other.num) {
			return true
		}
		return v.num == other.num && math.Signbit(v.num) == math.Signbit(other.num)
	case TypeString:
		return v.str == other.str
	default:
		return v.obj == other.obj
	}
}

// Inspect returns a developer-friendly representation of Value, similar to a REPL.
func (v Value) Inspect() string {
	switch v.typ {
	case TypeString:
		return strconv.Quote(v.str)
	case TypeFunction:
		if fn := v.AsNative(); fn != nil && fn.name != "" {
			return fmt.Sprintf("[Function: %s]", fn.name)
		}
		return "[Function]"
	case TypeObject:
		switch v.obj.Class() {
		case ClassObject:
			return "[object Object]"
		case ClassArray:
			return "[" + v.ToString() + "]"
		default:
			return fmt.Sprintf("[%s: %s]", v.obj.Class(), v.ToString())
		}
	default:
		return v.ToString()
	}
}
