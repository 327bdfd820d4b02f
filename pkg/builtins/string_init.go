package builtins

import (
	"math"
	"strings"
	"unicode/utf16"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"njscore/pkg/errors"
	"njscore/pkg/vm"
)

type StringInitializer struct{}

func (s *StringInitializer) Name() string {
	return "String"
}

func (s *StringInitializer) Priority() int {
	return PriorityString
}

func (s *StringInitializer) Kind() vm.BuiltinKind {
	return vm.BuiltinString
}

func (s *StringInitializer) InitPrototype(ctx *TemplateContext) (vm.PrototypeDef, error) {
	return vm.PrototypeDef{
		Name:  "String",
		Value: vm.NewString(""),
		Props: []vm.PropertyDesc{
			vm.Accessor("length", stringLength),
			constructorProperty(vm.BuiltinString),
			method("valueOf", stringValueOf),
			method("toString", stringToString),
			method("charAt", stringCharAt, vm.SkipArg, vm.IntegerArg),
			method("charCodeAt", stringCharCodeAt, vm.SkipArg, vm.IntegerArg),
			method("indexOf", stringIndexOf, vm.SkipArg, vm.StringArg, vm.IntegerArg),
			method("slice", stringSlice),
			method("toLowerCase", stringToLowerCase),
			method("toUpperCase", stringToUpperCase),
			method("trim", stringTrim),
			method("concat", stringConcat),
			method("normalize", stringNormalize),
		},
	}, nil
}

func (s *StringInitializer) InitConstructor(ctx *TemplateContext) (*vm.NativeFunction, []vm.PropertyDesc, error) {
	ctor := vm.NewNativeFunction("String", stringConstructor, vm.SkipArg, vm.StringArg)
	statics := []vm.PropertyDesc{
		prototypeProperty(vm.BuiltinString),
		method("fromCharCode", stringFromCharCode),
	}
	return ctor, statics, nil
}

// Strings index by UTF-16 code unit.
func codeUnits(s string) []uint16 { return utf16.Encode([]rune(s)) }

func fromCodeUnits(u []uint16) string { return string(utf16.Decode(u)) }

// thisString coerces the receiver of a generic String method.
func thisString(c *vm.NativeCall, method string) (string, error) {
	this := c.This()
	if this.IsUndefined() || this.IsNull() {
		return "", errors.NewTypeError("String.prototype.%s called on null or undefined", method)
	}
	return this.ToString(), nil
}

func stringConstructor(c *vm.NativeCall) (vm.Value, error) {
	v := vm.NewString("")
	if c.NArgs() > 0 {
		v = c.Arg(0)
	}
	if !c.Ctor {
		return v, nil
	}
	o, err := c.Realm.NewBoxed(vm.BuiltinString, v)
	if err != nil {
		return vm.Undefined, err
	}
	return vm.ObjectValue(o), nil
}

func stringLength(r *vm.Realm, this vm.Value) (vm.Value, error) {
	var s string
	switch {
	case this.IsString():
		s = this.AsString()
	case this.IsObject() && this.AsObject().Class() == vm.ClassString:
		s = this.AsObject().PrimitiveValue().AsString()
	}
	return vm.NumberValue(float64(len(codeUnits(s)))), nil
}

func stringValueOf(c *vm.NativeCall) (vm.Value, error) {
	return thisPrimitive(c, vm.BuiltinString, "valueOf")
}

func stringToString(c *vm.NativeCall) (vm.Value, error) {
	return thisPrimitive(c, vm.BuiltinString, "toString")
}

func stringCharAt(c *vm.NativeCall) (vm.Value, error) {
	s, err := thisString(c, "charAt")
	if err != nil {
		return vm.Undefined, err
	}
	u := codeUnits(s)
	i := c.Arg(0).ToInteger()
	if i < 0 || i >= float64(len(u)) {
		return vm.NewString(""), nil
	}
	return vm.NewString(fromCodeUnits(u[int(i) : int(i)+1])), nil
}

func stringCharCodeAt(c *vm.NativeCall) (vm.Value, error) {
	s, err := thisString(c, "charCodeAt")
	if err != nil {
		return vm.Undefined, err
	}
	u := codeUnits(s)
	i := c.Arg(0).ToInteger()
	if i < 0 || i >= float64(len(u)) {
		return vm.NumberValue(math.NaN()), nil
	}
	return vm.NumberValue(float64(u[int(i)])), nil
}

func stringIndexOf(c *vm.NativeCall) (vm.Value, error) {
	s, err := thisString(c, "indexOf")
	if err != nil {
		return vm.Undefined, err
	}
	u := codeUnits(s)
	needle := codeUnits(c.Arg(0).ToString())
	start := int(math.Max(0, math.Min(c.Arg(1).ToInteger(), float64(len(u)))))
	for i := start; i+len(needle) <= len(u); i++ {
		match := true
		for j := range needle {
			if u[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return vm.NumberValue(float64(i)), nil
		}
	}
	return vm.NumberValue(-1), nil
}

func stringSlice(c *vm.NativeCall) (vm.Value, error) {
	s, err := thisString(c, "slice")
	if err != nil {
		return vm.Undefined, err
	}
	u := codeUnits(s)
	start := relativeIndex(c.Arg(0), len(u), 0)
	end := relativeIndex(c.Arg(1), len(u), len(u))
	if start >= end {
		return vm.NewString(""), nil
	}
	return vm.NewString(fromCodeUnits(u[start:end])), nil
}

func stringToLowerCase(c *vm.NativeCall) (vm.Value, error) {
	s, err := thisString(c, "toLowerCase")
	if err != nil {
		return vm.Undefined, err
	}
	return vm.NewString(cases.Lower(language.Und).String(s)), nil
}

func stringToUpperCase(c *vm.NativeCall) (vm.Value, error) {
	s, err := thisString(c, "toUpperCase")
	if err != nil {
		return vm.Undefined, err
	}
	return vm.NewString(cases.Upper(language.Und).String(s)), nil
}

// ECMAScript whitespace and line terminators
const jsWhitespace = " \t\n\r\v\f\u00A0\u1680\u2000\u2001\u2002\u2003\u2004\u2005\u2006\u2007\u2008\u2009\u200A\u2028\u2029\u202F\u205F\u3000\uFEFF"

func stringTrim(c *vm.NativeCall) (vm.Value, error) {
	s, err := thisString(c, "trim")
	if err != nil {
		return vm.Undefined, err
	}
	return vm.NewString(strings.Trim(s, jsWhitespace)), nil
}

func stringConcat(c *vm.NativeCall) (vm.Value, error) {
	s, err := thisString(c, "concat")
	if err != nil {
		return vm.Undefined, err
	}
	var b strings.Builder
	b.WriteString(s)
	for _, arg := range c.Args[1:] {
		b.WriteString(arg.ToString())
	}
	return vm.NewString(b.String()), nil
}

func stringNormalize(c *vm.NativeCall) (vm.Value, error) {
	s, err := thisString(c, "normalize")
	if err != nil {
		return vm.Undefined, err
	}
	form := "NFC"
	if !c.Arg(0).IsUndefined() {
		form = c.Arg(0).ToString()
	}
	var f norm.Form
	switch form {
	case "NFC":
		f = norm.NFC
	case "NFD":
		f = norm.NFD
	case "NFKC":
		f = norm.NFKC
	case "NFKD":
		f = norm.NFKD
	default:
		return vm.Undefined, errors.NewRangeError("The normalization form should be one of NFC, NFD, NFKC, NFKD")
	}
	return vm.NewString(f.String(s)), nil
}

func stringFromCharCode(c *vm.NativeCall) (vm.Value, error) {
	units := make([]uint16, 0, c.NArgs())
	for _, arg := range c.Args[1:] {
		units = append(units, uint16(uint32(int64(arg.ToInteger()))))
	}
	return vm.NewString(fromCodeUnits(units)), nil
}
