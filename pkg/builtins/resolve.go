package builtins

import (
	"njscore/pkg/vm"
)

// ResolveName returns the dotted path a builtin native function is
// reachable under: "Math.abs", "Array.prototype.join" or "Number.isNaN".
// The search order is namespaces, prototypes, constructors; the first
// data property holding fn wins. ok is false when fn is not a builtin
// method; that path does not allocate.
func ResolveName(t *vm.Template, pool *vm.Pool, fn *vm.NativeFunction) (name string, ok bool, err error) {
	if fn == nil {
		return "", false, nil
	}

	for i := 0; i < t.NumNamespaces(); i++ {
		ns := t.Namespace(i)
		if p, found := findNative(ns, fn); found {
			return format(pool, "%s.%s", ns.Name(), p)
		}
	}

	for k := vm.BuiltinObject; int(k) < vm.NumBuiltins; k++ {
		if p, found := findNative(t.Prototype(k), fn); found {
			return format(pool, "%s.prototype.%s", t.Constructor(k).Name(), p)
		}
	}

	for k := vm.BuiltinObject; int(k) < vm.NumBuiltins; k++ {
		ctor := t.Constructor(k)
		if p, found := findNative(ctor, fn); found {
			return format(pool, "%s.%s", ctor.Name(), p)
		}
	}

	return "", false, nil
}

// ResolveValue resolves a function value. Non-function values are not
// found.
func ResolveValue(t *vm.Template, pool *vm.Pool, v vm.Value) (string, bool, error) {
	return ResolveName(t, pool, v.AsNative())
}

func findNative(o vm.Object, fn *vm.NativeFunction) (name string, found bool) {
	o.EachOwn(func(p vm.Property) bool {
		if p.IsFunction() && p.Value().AsNative() == fn {
			name, found = p.Name(), true
			return false
		}
		return true
	})
	return name, found
}

func format(pool *vm.Pool, f string, args ...any) (string, bool, error) {
	s, err := pool.Sprintf(f, args...)
	if err != nil {
		return "", false, introspectionError("resolve", err)
	}
	return s, true, nil
}
