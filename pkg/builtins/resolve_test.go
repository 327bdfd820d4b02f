package builtins

import (
	"testing"

	"njscore/pkg/errors"
	"njscore/pkg/vm"
)

func nativeOf(t *testing.T, o vm.Object, name string) *vm.NativeFunction {
	t.Helper()
	p, ok := o.OwnProperty(name)
	if !ok || p.Value().AsNative() == nil {
		t.Fatalf("%s.%s is not a native function", o.Name(), name)
	}
	return p.Value().AsNative()
}

func TestResolveName(t *testing.T) {
	pool := vm.NewPool(0)
	tmpl, err := BuildTemplate(pool)
	if err != nil {
		t.Fatalf("BuildTemplate failed: %v", err)
	}

	tests := []struct {
		owner vm.Object
		prop  string
		want  string
	}{
		{tmpl.Namespace(1), "abs", "Math.abs"},
		{tmpl.Namespace(1), "max", "Math.max"},
		{tmpl.Prototype(vm.BuiltinArray), "join", "Array.prototype.join"},
		{tmpl.Prototype(vm.BuiltinArray), "toString", "Array.prototype.toString"},
		{tmpl.Prototype(vm.BuiltinObject), "toString", "Object.prototype.toString"},
		{tmpl.Prototype(vm.BuiltinString), "charAt", "String.prototype.charAt"},
		{tmpl.Prototype(vm.BuiltinFunction), "call", "Function.prototype.call"},
		{tmpl.Prototype(vm.BuiltinRegExp), "exec", "RegExp.prototype.exec"},
		{tmpl.Constructor(vm.BuiltinNumber), "isNaN", "Number.isNaN"},
		{tmpl.Constructor(vm.BuiltinObject), "create", "Object.create"},
		{tmpl.Constructor(vm.BuiltinDate), "parse", "Date.parse"},
	}
	for _, tt := range tests {
		got, ok, err := ResolveName(tmpl, pool, nativeOf(t, tt.owner, tt.prop))
		if err != nil || !ok || got != tt.want {
			t.Errorf("resolve %s: got %q, %v, %v", tt.want, got, ok, err)
		}
	}
}

func TestResolveNameNotFound(t *testing.T) {
	pool := vm.NewPool(0)
	tmpl, err := BuildTemplate(pool)
	if err != nil {
		t.Fatalf("BuildTemplate failed: %v", err)
	}
	used := pool.Used()

	foreign := vm.NewNativeFunction("join", func(c *vm.NativeCall) (vm.Value, error) {
		return vm.Undefined, nil
	})
	for _, fn := range []*vm.NativeFunction{
		foreign,
		nil,
		// Constructors and global functions are not table members.
		tmpl.Constructor(vm.BuiltinNumber).Native(),
		tmpl.Function(0).Native(),
	} {
		name, ok, err := ResolveName(tmpl, pool, fn)
		if ok || err != nil || name != "" {
			t.Errorf("expected NotFound, got %q, %v, %v", name, ok, err)
		}
	}
	if pool.Used() != used {
		t.Errorf("NotFound path allocated %d bytes", pool.Used()-used)
	}

	if _, ok, _ := ResolveValue(tmpl, pool, vm.NumberValue(1)); ok {
		t.Errorf("a number should not resolve")
	}
}

func TestResolveRealmFunctions(t *testing.T) {
	pool := vm.NewPool(0)
	tmpl, err := BuildTemplate(pool)
	if err != nil {
		t.Fatalf("BuildTemplate failed: %v", err)
	}
	r := newTestRealm(t, tmpl)

	for path, want := range map[string]string{
		"Math.floor":                "Math.floor",
		"Array.prototype.push":      "Array.prototype.push",
		"Object.keys":               "Object.keys",
		"String.prototype.trim":     "String.prototype.trim",
		"Date.prototype.getTime":    "Date.prototype.getTime",
		"Boolean.prototype.valueOf": "Boolean.prototype.valueOf",
	} {
		got, ok, err := ResolveValue(tmpl, pool, lookupPath(t, r, path))
		if err != nil || !ok || got != want {
			t.Errorf("%s resolved to %q, %v, %v", path, got, ok, err)
		}
	}

	// Methods reached through a primitive resolve the same way.
	fn, _ := r.Get(vm.NewString("x"), "slice")
	if got, ok, _ := ResolveValue(tmpl, pool, fn); !ok || got != "String.prototype.slice" {
		t.Errorf("\"x\".slice resolved to %q", got)
	}
}

func TestResolveNameOutOfMemory(t *testing.T) {
	tmpl := newTestTemplate(t)
	pool := vm.NewPool(4)

	fn := nativeOf(t, tmpl.Prototype(vm.BuiltinArray), "join")
	name, ok, err := ResolveName(tmpl, pool, fn)
	if ok || name != "" {
		t.Errorf("expected no name, got %q", name)
	}
	var ie *errors.IntrospectionError
	if !errors.As(err, &ie) || !errors.Is(err, errors.ErrOutOfMemory) {
		t.Errorf("expected IntrospectionError wrapping ErrOutOfMemory, got %v", err)
	}
}
