package builtins

import (
	"math"
	"time"

	"njscore/pkg/errors"
	"njscore/pkg/vm"
)

type DateInitializer struct{}

func (d *DateInitializer) Name() string {
	return "Date"
}

func (d *DateInitializer) Priority() int {
	return PriorityDate
}

func (d *DateInitializer) Kind() vm.BuiltinKind {
	return vm.BuiltinDate
}

func (d *DateInitializer) InitPrototype(ctx *TemplateContext) (vm.PrototypeDef, error) {
	return vm.PrototypeDef{
		Name:  "Date",
		Value: vm.NumberValue(math.NaN()),
		Props: []vm.PropertyDesc{
			constructorProperty(vm.BuiltinDate),
			method("valueOf", dateGetTime),
			method("getTime", dateGetTime),
			method("toISOString", dateToISOString),
			method("toString", dateToString),
			method("getFullYear", dateField(func(t time.Time) int { return t.Year() })),
			method("getMonth", dateField(func(t time.Time) int { return int(t.Month()) - 1 })),
			method("getDate", dateField(func(t time.Time) int { return t.Day() })),
		},
	}, nil
}

func (d *DateInitializer) InitConstructor(ctx *TemplateContext) (*vm.NativeFunction, []vm.PropertyDesc, error) {
	ctor := vm.NewNativeFunction("Date", dateConstructor)
	statics := []vm.PropertyDesc{
		prototypeProperty(vm.BuiltinDate),
		method("now", dateNow),
		method("parse", dateParse, vm.SkipArg, vm.StringArg),
	}
	return ctor, statics, nil
}

// Dates are kept and reported in UTC.
const dateStringLayout = "Mon Jan 02 2006 15:04:05 GMT-0700 (MST)"

var dateParseLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006-01",
	"2006",
	dateStringLayout,
	time.RFC1123,
	time.RFC1123Z,
	"Jan 2, 2006",
	"January 2, 2006",
}

// parseDate returns milliseconds since the epoch, or NaN.
func parseDate(s string) float64 {
	for _, layout := range dateParseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return float64(t.UnixMilli())
		}
	}
	return math.NaN()
}

func msToTime(ms float64) time.Time {
	return time.UnixMilli(int64(ms)).UTC()
}

func dateConstructor(c *vm.NativeCall) (vm.Value, error) {
	if !c.Ctor {
		return vm.NewString(time.Now().UTC().Format(dateStringLayout)), nil
	}
	ms := float64(time.Now().UnixMilli())
	switch c.NArgs() {
	case 0:
	case 1:
		arg := c.Arg(0)
		if arg.IsObject() && arg.AsObject().Class() == vm.ClassDate {
			ms = arg.AsObject().PrimitiveValue().AsFloat()
		} else if arg.IsString() {
			ms = parseDate(arg.AsString())
		} else {
			ms = timeClip(arg.ToNumber())
		}
	default:
		var fields [7]float64
		fields[2] = 1
		for i := 0; i < len(fields) && i < c.NArgs(); i++ {
			fields[i] = c.Arg(i).ToNumber()
		}
		ms = makeDate(fields)
	}
	o, err := c.Realm.NewBoxed(vm.BuiltinDate, vm.NumberValue(ms))
	if err != nil {
		return vm.Undefined, err
	}
	return vm.ObjectValue(o), nil
}

// timeClip bounds a time value to +/-8.64e15 ms.
func timeClip(ms float64) float64 {
	if math.IsNaN(ms) || math.Abs(ms) > 8.64e15 {
		return math.NaN()
	}
	return math.Trunc(ms)
}

// makeDate builds a time value from year, month, day, hours, minutes,
// seconds and milliseconds.
func makeDate(f [7]float64) float64 {
	for _, v := range f {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return math.NaN()
		}
	}
	year := int(f[0])
	if year >= 0 && year <= 99 {
		year += 1900
	}
	t := time.Date(year, time.Month(int(f[1])+1), int(f[2]),
		int(f[3]), int(f[4]), int(f[5]), int(f[6])*int(time.Millisecond), time.UTC)
	return timeClip(float64(t.UnixMilli()))
}

func thisTime(c *vm.NativeCall, method string) (float64, error) {
	v, err := thisPrimitive(c, vm.BuiltinDate, method)
	if err != nil {
		return 0, err
	}
	return v.AsFloat(), nil
}

func dateGetTime(c *vm.NativeCall) (vm.Value, error) {
	ms, err := thisTime(c, "getTime")
	if err != nil {
		return vm.Undefined, err
	}
	return vm.NumberValue(ms), nil
}

func dateToISOString(c *vm.NativeCall) (vm.Value, error) {
	ms, err := thisTime(c, "toISOString")
	if err != nil {
		return vm.Undefined, err
	}
	if math.IsNaN(ms) {
		return vm.Undefined, errors.NewRangeError("Invalid time value")
	}
	return vm.NewString(msToTime(ms).Format("2006-01-02T15:04:05.000Z")), nil
}

func dateToString(c *vm.NativeCall) (vm.Value, error) {
	ms, err := thisTime(c, "toString")
	if err != nil {
		return vm.Undefined, err
	}
	if math.IsNaN(ms) {
		return vm.NewString("Invalid Date"), nil
	}
	return vm.NewString(msToTime(ms).Format(dateStringLayout)), nil
}

func dateField(field func(time.Time) int) vm.NativeFn {
	return func(c *vm.NativeCall) (vm.Value, error) {
		ms, err := thisTime(c, "get")
		if err != nil {
			return vm.Undefined, err
		}
		if math.IsNaN(ms) {
			return vm.NumberValue(math.NaN()), nil
		}
		return vm.NumberValue(float64(field(msToTime(ms)))), nil
	}
}

func dateNow(c *vm.NativeCall) (vm.Value, error) {
	return vm.NumberValue(float64(time.Now().UnixMilli())), nil
}

func dateParse(c *vm.NativeCall) (vm.Value, error) {
	return vm.NumberValue(parseDate(c.Arg(0).ToString())), nil
}
