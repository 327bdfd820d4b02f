package builtins

import (
	"strings"
	"testing"

	"njscore/pkg/vm"
)

func newTestTemplate(t *testing.T) *vm.Template {
	t.Helper()
	tmpl, err := BuildTemplate(vm.NewPool(0))
	if err != nil {
		t.Fatalf("BuildTemplate failed: %v", err)
	}
	return tmpl
}

func newTestRealm(t *testing.T, tmpl *vm.Template) *vm.Realm {
	t.Helper()
	r, err := vm.NewRealm(tmpl, vm.NewPool(0))
	if err != nil {
		t.Fatalf("NewRealm failed: %v", err)
	}
	if err := r.CloneBuiltins(); err != nil {
		t.Fatalf("CloneBuiltins failed: %v", err)
	}
	return r
}

// lookupPath evaluates a dotted path such as "Array.prototype.join".
func lookupPath(t *testing.T, r *vm.Realm, path string) vm.Value {
	t.Helper()
	parts := strings.Split(path, ".")
	v, ok := r.GetGlobal(parts[0])
	if !ok {
		t.Fatalf("global %q not bound", parts[0])
	}
	for _, name := range parts[1:] {
		var err error
		if v, err = r.Get(v, name); err != nil {
			t.Fatalf("get %q of %s: %v", name, path, err)
		}
	}
	return v
}

// callPath calls the function at path with the given receiver.
func callPath(t *testing.T, r *vm.Realm, path string, this vm.Value, args ...vm.Value) vm.Value {
	t.Helper()
	res, err := r.Call(lookupPath(t, r, path), this, args...)
	if err != nil {
		t.Fatalf("%s failed: %v", path, err)
	}
	return res
}

// callMethod looks name up on recv and calls it with recv as receiver.
func callMethod(t *testing.T, r *vm.Realm, recv vm.Value, name string, args ...vm.Value) vm.Value {
	t.Helper()
	fn, err := r.Get(recv, name)
	if err != nil {
		t.Fatalf("get %q: %v", name, err)
	}
	res, err := r.Call(fn, recv, args...)
	if err != nil {
		t.Fatalf("%s failed: %v", name, err)
	}
	return res
}

// construct runs `new <global>(args...)`.
func construct(t *testing.T, r *vm.Realm, name string, args ...vm.Value) vm.Value {
	t.Helper()
	ctor, ok := r.GetGlobal(name)
	if !ok {
		t.Fatalf("global %q not bound", name)
	}
	res, err := r.Construct(ctor, args...)
	if err != nil {
		t.Fatalf("new %s failed: %v", name, err)
	}
	return res
}

func num(f float64) vm.Value { return vm.NumberValue(f) }
func str(s string) vm.Value  { return vm.NewString(s) }
