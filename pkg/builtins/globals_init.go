package builtins

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"njscore/pkg/errors"
	"njscore/pkg/vm"
)

type GlobalsInitializer struct{}

func (g *GlobalsInitializer) Name() string {
	return "Globals"
}

func (g *GlobalsInitializer) Priority() int {
	return PriorityGlobals
}

func (g *GlobalsInitializer) InitFunctions(ctx *TemplateContext) ([]GlobalFunction, error) {
	str := []vm.CoercionTag{vm.SkipArg, vm.StringArg}
	num := []vm.CoercionTag{vm.SkipArg, vm.NumberArg}
	return []GlobalFunction{
		{
			Entry: vm.NewNativeFunction("eval", globalEval),
			Props: []vm.PropertyDesc{vm.Data("length", vm.NumberValue(1))},
		},
		{Entry: vm.NewNativeFunction("toString", objectToString)},
		{Entry: vm.NewNativeFunction("isNaN", globalIsNaN, num...)},
		{Entry: vm.NewNativeFunction("isFinite", globalIsFinite, num...)},
		{Entry: vm.NewNativeFunction("parseInt", globalParseInt, vm.SkipArg, vm.StringArg, vm.IntegerArg)},
		{Entry: vm.NewNativeFunction("parseFloat", globalParseFloat, str...)},
		{Entry: vm.NewNativeFunction("encodeURI", uriEncoder(uriReserved+uriUnescaped), str...)},
		{Entry: vm.NewNativeFunction("encodeURIComponent", uriEncoder(uriUnescaped), str...)},
		{Entry: vm.NewNativeFunction("decodeURI", uriDecoder(uriReserved+"#"), str...)},
		{Entry: vm.NewNativeFunction("decodeURIComponent", uriDecoder(""), str...)},
	}, nil
}

func globalEval(c *vm.NativeCall) (vm.Value, error) {
	if !c.Arg(0).IsString() {
		return c.Arg(0), nil
	}
	return vm.Undefined, errNoCompiler("eval")
}

func globalIsNaN(c *vm.NativeCall) (vm.Value, error) {
	return vm.BooleanValue(math.IsNaN(c.Arg(0).ToNumber())), nil
}

func globalIsFinite(c *vm.NativeCall) (vm.Value, error) {
	f := c.Arg(0).ToNumber()
	return vm.BooleanValue(!math.IsNaN(f) && !math.IsInf(f, 0)), nil
}

func globalParseInt(c *vm.NativeCall) (vm.Value, error) {
	str := strings.TrimLeft(c.Arg(0).ToString(), jsWhitespace)

	sign := 1.0
	if strings.HasPrefix(str, "-") {
		sign = -1
		str = str[1:]
	} else if strings.HasPrefix(str, "+") {
		str = str[1:]
	}

	radix := int(int32(int64(c.Arg(1).ToInteger())))
	stripPrefix := false
	if radix == 0 {
		radix = 10
		stripPrefix = true
	} else if radix < 2 || radix > 36 {
		return vm.NumberValue(math.NaN()), nil
	} else if radix == 16 {
		stripPrefix = true
	}
	if stripPrefix && (strings.HasPrefix(str, "0x") || strings.HasPrefix(str, "0X")) {
		str = str[2:]
		radix = 16
	}

	// Accumulate the longest valid prefix.
	result := 0.0
	digits := 0
	for _, ch := range str {
		d := digitValue(ch)
		if d < 0 || d >= radix {
			break
		}
		result = result*float64(radix) + float64(d)
		digits++
	}
	if digits == 0 {
		return vm.NumberValue(math.NaN()), nil
	}
	return vm.NumberValue(sign * result), nil
}

func digitValue(ch rune) int {
	switch {
	case '0' <= ch && ch <= '9':
		return int(ch - '0')
	case 'a' <= ch && ch <= 'z':
		return int(ch-'a') + 10
	case 'A' <= ch && ch <= 'Z':
		return int(ch-'A') + 10
	}
	return -1
}

func globalParseFloat(c *vm.NativeCall) (vm.Value, error) {
	str := strings.TrimLeft(c.Arg(0).ToString(), jsWhitespace)
	if str == "" {
		return vm.NumberValue(math.NaN()), nil
	}

	for _, inf := range []string{"Infinity", "+Infinity"} {
		if strings.HasPrefix(str, inf) {
			return vm.NumberValue(math.Inf(1)), nil
		}
	}
	if strings.HasPrefix(str, "-Infinity") {
		return vm.NumberValue(math.Inf(-1)), nil
	}

	// Find the longest valid float prefix
	for i := len(str); i > 0; i-- {
		prefix := str[:i]
		if strings.ContainsAny(prefix, "xXnN_") {
			continue
		}
		if result, err := strconv.ParseFloat(prefix, 64); err == nil {
			return vm.NumberValue(result), nil
		}
	}
	return vm.NumberValue(math.NaN()), nil
}

const (
	uriReserved  = ";/?:@&=+$,#"
	uriUnescaped = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_.!~*'()"
)

const upperHex = "0123456789ABCDEF"

func uriEncoder(keep string) vm.NativeFn {
	return func(c *vm.NativeCall) (vm.Value, error) {
		s := c.Arg(0).ToString()
		var b strings.Builder
		for i := 0; i < len(s); {
			r, size := utf8.DecodeRuneInString(s[i:])
			if r == utf8.RuneError && size == 1 {
				return vm.Undefined, errors.NewURIError("URI malformed")
			}
			if size == 1 && strings.IndexByte(keep, s[i]) >= 0 {
				b.WriteByte(s[i])
			} else {
				for j := 0; j < size; j++ {
					ch := s[i+j]
					b.WriteByte('%')
					b.WriteByte(upperHex[ch>>4])
					b.WriteByte(upperHex[ch&15])
				}
			}
			i += size
		}
		return vm.NewString(b.String()), nil
	}
}

// uriDecoder decodes percent escapes, leaving escapes of characters in
// preserve untouched.
func uriDecoder(preserve string) vm.NativeFn {
	return func(c *vm.NativeCall) (vm.Value, error) {
		s := c.Arg(0).ToString()
		var b strings.Builder
		var pending []byte
		for i := 0; i < len(s); {
			if s[i] != '%' {
				if len(pending) > 0 {
					return vm.Undefined, errors.NewURIError("URI malformed")
				}
				b.WriteByte(s[i])
				i++
				continue
			}
			if i+2 >= len(s) {
				return vm.Undefined, errors.NewURIError("URI malformed")
			}
			v, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
			if err != nil {
				return vm.Undefined, errors.NewURIError("URI malformed")
			}
			ch := byte(v)
			if len(pending) == 0 && ch < utf8.RuneSelf {
				if strings.IndexByte(preserve, ch) >= 0 {
					b.WriteString(s[i : i+3])
				} else {
					b.WriteByte(ch)
				}
				i += 3
				continue
			}
			pending = append(pending, ch)
			i += 3
			if utf8.FullRune(pending) {
				r, size := utf8.DecodeRune(pending)
				if (r == utf8.RuneError && size <= 1) || size != len(pending) {
					return vm.Undefined, errors.NewURIError("URI malformed")
				}
				b.Write(pending)
				pending = pending[:0]
			}
		}
		if len(pending) > 0 {
			return vm.Undefined, errors.NewURIError("URI malformed")
		}
		return vm.NewString(b.String()), nil
	}
}
