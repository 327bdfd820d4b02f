package vm

import (
	"testing"

	"njscore/pkg/errors"
)

func nop(c *NativeCall) (Value, error) { return Undefined, nil }

// echo returns its arguments as an array so tests can observe coercion.
func echo(c *NativeCall) (Value, error) {
	a, err := c.Realm.NewArray(append([]Value(nil), c.Args...))
	if err != nil {
		return Undefined, err
	}
	return ObjectValue(a), nil
}

// buildTestTemplate assembles a minimal template: every builtin gets a
// toString method, String gets a coercing constructor and there is one
// function and one namespace.
func buildTestTemplate(t *testing.T, pool *Pool) *Template {
	t.Helper()
	b, err := NewTemplateBuilder(pool, 1, 1)
	if err != nil {
		t.Fatalf("NewTemplateBuilder: %v", err)
	}
	if err := b.SetNullProtoTable([]PropertyDesc{Hidden("__proto__")}); err != nil {
		t.Fatalf("SetNullProtoTable: %v", err)
	}
	for k := BuiltinObject; int(k) < NumBuiltins; k++ {
		props := []PropertyDesc{Method(NewNativeFunction("toString", nop))}
		if k == BuiltinObject {
			props = append(props, Accessor("__proto__", func(r *Realm, this Value) (Value, error) {
				return NewString("intrinsic"), nil
			}))
		}
		if err := b.DefinePrototype(k, PrototypeDef{Name: k.String(), Props: props}); err != nil {
			t.Fatalf("DefinePrototype(%s): %v", k, err)
		}
		var tags []CoercionTag
		if k == BuiltinString {
			tags = []CoercionTag{SkipArg, StringArg}
		}
		entry := NewNativeFunction(k.String(), echo, tags...)
		if err := b.DefineConstructor(k, k.String(), entry, []PropertyDesc{Data("kind", NumberValue(float64(k)))}); err != nil {
			t.Fatalf("DefineConstructor(%s): %v", k, err)
		}
	}
	if err := b.DefineFunction(0, NewNativeFunction("parseInt", echo, SkipArg, StringArg, IntegerArg), nil); err != nil {
		t.Fatalf("DefineFunction: %v", err)
	}
	if err := b.DefineNamespace(0, "Math", []PropertyDesc{Data("PI", NumberValue(3.14))}); err != nil {
		t.Fatalf("DefineNamespace: %v", err)
	}
	tmpl, err := b.Template()
	if err != nil {
		t.Fatalf("Template: %v", err)
	}
	return tmpl
}

func newTestRealm(t *testing.T, tmpl *Template) *Realm {
	t.Helper()
	r, err := NewRealm(tmpl, NewPool(0))
	if err != nil {
		t.Fatalf("NewRealm: %v", err)
	}
	if err := r.CloneBuiltins(); err != nil {
		t.Fatalf("CloneBuiltins: %v", err)
	}
	return r
}

func TestBuildTableRejectsDuplicates(t *testing.T) {
	_, err := BuildTable(nil, []PropertyDesc{Data("a", Null), Data("a", Null)})
	if err == nil {
		t.Fatal("expected duplicate property error")
	}
	_, err = BuildTable(nil, []PropertyDesc{{Name: "g", Kind: PropertyAccessor}})
	if err == nil {
		t.Fatal("expected error for accessor without getter")
	}
}

func TestBuildTableKeepsOrder(t *testing.T) {
	tbl, err := BuildTable(nil, []PropertyDesc{
		Data("z", Null),
		Method(NewNativeFunction("m", nop)),
		Hidden("h"),
	})
	if err != nil {
		t.Fatalf("BuildTable: %v", err)
	}
	names := tbl.Names()
	if len(names) != 3 || names[0] != "z" || names[1] != "m" || names[2] != "h" {
		t.Errorf("Names() = %v, want [z m h]", names)
	}
	m, _ := tbl.Get("m")
	if !m.IsFunction() || !m.Writable() || m.Enumerable() {
		t.Errorf("method slot has wrong shape: %+v", m)
	}
	if fn := m.Value().AsObject(); fn.Parent() != PrototypeID(BuiltinFunction) || !fn.Shared() {
		t.Errorf("method object should be shared and inherit from Function.prototype")
	}
	h, _ := tbl.Get("h")
	if h.Kind() != PropertyHidden || !h.Value().IsUndefined() {
		t.Errorf("hidden slot has wrong shape: %+v", h)
	}
}

func TestBuildTableOutOfMemory(t *testing.T) {
	_, err := BuildTable(NewPool(10), []PropertyDesc{Data("a", Null)})
	if !errors.Is(err, errors.ErrOutOfMemory) {
		t.Errorf("expected ErrOutOfMemory, got %v", err)
	}
}

func TestTemplateParents(t *testing.T) {
	tmpl := buildTestTemplate(t, NewPool(0))

	if p := tmpl.Prototype(BuiltinObject).Parent(); p != NullObject {
		t.Errorf("Object.prototype parent = %d, want null", p)
	}
	for k := BuiltinArray; int(k) < NumBuiltins; k++ {
		if p := tmpl.Prototype(k).Parent(); p != PrototypeID(BuiltinObject) {
			t.Errorf("%s.prototype parent = %d, want Object.prototype", k, p)
		}
	}
	for k := BuiltinObject; int(k) < NumBuiltins; k++ {
		c := tmpl.Constructor(k)
		if c.Parent() != PrototypeID(BuiltinFunction) {
			t.Errorf("%s parent = %d, want Function.prototype", k, c.Parent())
		}
		if !c.IsConstructor() || c.ArgsOffset() != 1 {
			t.Errorf("%s should be a constructor with args offset 1", k)
		}
	}
	if tmpl.Function(0).Parent() != PrototypeID(BuiltinFunction) {
		t.Errorf("parseInt should inherit from Function.prototype")
	}
	if tmpl.Namespace(0).Parent() != PrototypeID(BuiltinObject) {
		t.Errorf("Math should inherit from Object.prototype")
	}
}

func TestTemplateRequiresEverySlot(t *testing.T) {
	b, err := NewTemplateBuilder(nil, 0, 0)
	if err != nil {
		t.Fatalf("NewTemplateBuilder: %v", err)
	}
	if _, err := b.Template(); err == nil {
		t.Fatal("expected error for undefined builtin slots")
	}
	if _, err := b.Template(); err == nil {
		t.Fatal("expected error publishing twice")
	}
}

func TestCloneRelinksParents(t *testing.T) {
	tmpl := buildTestTemplate(t, NewPool(0))
	r := newTestRealm(t, tmpl)

	if r.Prototype(BuiltinObject).Parent() != NullObject {
		t.Errorf("realm Object.prototype should end the chain")
	}
	for k := BuiltinArray; int(k) < NumBuiltins; k++ {
		p := r.Object(r.Prototype(k).Parent())
		if p != r.Prototype(BuiltinObject) {
			t.Errorf("realm %s.prototype does not point at the realm's Object.prototype", k)
		}
	}
	for k := BuiltinObject; int(k) < NumBuiltins; k++ {
		c := r.Constructor(k)
		if r.Object(c.Parent()) != r.Prototype(BuiltinFunction) {
			t.Errorf("realm %s does not point at the realm's Function.prototype", k)
		}
		v, ok := r.GetGlobal(k.String())
		if !ok || v.AsObject() != Object(c) {
			t.Errorf("global %s is not bound to the realm constructor", k)
		}
		if idx, _ := r.Globals.Index(k.String()); idx != int(k) {
			t.Errorf("global %s bound at slot %d, want %d", k, idx, k)
		}
	}
	if _, ok := r.GetGlobal("parseInt"); !ok {
		t.Errorf("parseInt not bound")
	}
	if idx, _ := r.Globals.Index("Math"); idx != NumBuiltins+1 {
		t.Errorf("Math bound at slot %d, want %d", idx, NumBuiltins+1)
	}
	if err := r.CloneBuiltins(); err == nil {
		t.Errorf("expected error cloning twice")
	}
}

func TestRealmsAreDisjoint(t *testing.T) {
	tmpl := buildTestTemplate(t, NewPool(0))
	a := newTestRealm(t, tmpl)
	b := newTestRealm(t, tmpl)

	protoA := ObjectValue(a.Prototype(BuiltinNumber))
	if err := a.Set(protoA, "extra", NumberValue(1)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := b.Get(ObjectValue(b.Prototype(BuiltinNumber)), "extra")
	if err != nil || !got.IsUndefined() {
		t.Errorf("write in realm A leaked into realm B: %v", got.Inspect())
	}
	if _, ok := tmpl.Prototype(BuiltinNumber).OwnProperty("extra"); ok {
		t.Errorf("write in realm A leaked into the template")
	}
	a.Prototype(BuiltinArray).SetParent(NullObject)
	if b.Prototype(BuiltinArray).Parent() != PrototypeID(BuiltinObject) {
		t.Errorf("relinking in realm A changed realm B")
	}

	// Clones of the same template are structurally identical.
	c := newTestRealm(t, tmpl)
	for i := 0; i < 2*NumBuiltins; i++ {
		x, y := b.Object(ObjectID(i)), c.Object(ObjectID(i))
		if x.Class() != y.Class() || x.Parent() != y.Parent() || x.Name() != y.Name() || x.Table() != y.Table() {
			t.Errorf("slot %d differs between clones", i)
		}
	}
}

func TestSharedObjectsAreReadOnly(t *testing.T) {
	tmpl := buildTestTemplate(t, NewPool(0))
	r := newTestRealm(t, tmpl)

	ns, _ := r.GetGlobal("Math")
	err := r.Set(ns, "PI", NumberValue(3))
	var rt *errors.RuntimeError
	if !errors.As(err, &rt) || rt.Name != "TypeError" {
		t.Errorf("expected TypeError writing to a shared namespace, got %v", err)
	}
	pi, _ := r.Get(ns, "PI")
	if pi.AsFloat() != 3.14 {
		t.Errorf("Math.PI changed to %v", pi.Inspect())
	}
}

func TestLookupWalksChain(t *testing.T) {
	tmpl := buildTestTemplate(t, NewPool(0))
	r := newTestRealm(t, tmpl)

	// Primitives start at their prototype.
	fn, err := r.Get(NumberValue(1), "toString")
	if err != nil || !fn.IsFunction() {
		t.Fatalf("(1).toString = %v, %v", fn.Inspect(), err)
	}
	// Constructors reach Function.prototype.toString.
	fn, _ = r.Get(ObjectValue(r.Constructor(BuiltinDate)), "toString")
	want, _ := tmpl.Prototype(BuiltinFunction).OwnProperty("toString")
	if fn.AsObject() != want.Value().AsObject() {
		t.Errorf("Date.toString should come from Function.prototype")
	}
	if _, err := r.Get(Undefined, "x"); err == nil {
		t.Errorf("expected TypeError reading a property of undefined")
	}
}

func TestHiddenProto(t *testing.T) {
	tmpl := buildTestTemplate(t, NewPool(0))
	r := newTestRealm(t, tmpl)

	plain, err := r.NewObject(PrototypeID(BuiltinObject))
	if err != nil {
		t.Fatalf("NewObject: %v", err)
	}
	v, _ := r.Get(ObjectValue(plain), "__proto__")
	if v.AsString() != "intrinsic" {
		t.Errorf("plain __proto__ = %v, want the intrinsic accessor", v.Inspect())
	}

	bare, err := r.NewObject(NullObject)
	if err != nil {
		t.Fatalf("NewObject: %v", err)
	}
	v, _ = r.Get(ObjectValue(bare), "__proto__")
	if !v.IsUndefined() {
		t.Errorf("null-prototype __proto__ = %v, want undefined", v.Inspect())
	}
	if _, ok := r.Lookup(ObjectValue(bare), "__proto__"); ok {
		t.Errorf("hidden entry must read as absent")
	}
}

func TestCallCoercesArguments(t *testing.T) {
	tmpl := buildTestTemplate(t, NewPool(0))
	r := newTestRealm(t, tmpl)

	str, _ := r.GetGlobal("String")
	out, err := r.Construct(str, NumberValue(42), NumberValue(7))
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}
	items := out.AsObject().(*OwnedObject).Items()
	if len(items) != 3 || !items[1].IsString() || items[1].AsString() != "42" {
		t.Errorf("String ctor arg 1 not coerced to string: %v", out.Inspect())
	}
	if !items[2].IsNumber() {
		t.Errorf("String ctor arg 2 should pass through, got %v", items[2].Type())
	}

	date, _ := r.GetGlobal("Date")
	out, err = r.Call(date, Undefined, NewString("x"))
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	items = out.AsObject().(*OwnedObject).Items()
	if !items[1].IsString() {
		t.Errorf("Date has no coercion vector, argument should pass through")
	}

	parse, _ := r.GetGlobal("parseInt")
	out, _ = r.Call(parse, Null, NumberValue(12), NewString("16.9"))
	items = out.AsObject().(*OwnedObject).Items()
	if !items[0].IsNull() || items[1].AsString() != "12" || items[2].AsFloat() != 16 {
		t.Errorf("parseInt coercion mismatch: %v", out.Inspect())
	}

	if _, err := r.Call(NumberValue(1), Undefined); err == nil {
		t.Errorf("expected TypeError calling a number")
	}
	if _, err := r.Construct(parse); err == nil {
		t.Errorf("expected TypeError constructing a non-constructor")
	}
}

func TestArrayElements(t *testing.T) {
	tmpl := buildTestTemplate(t, NewPool(0))
	r := newTestRealm(t, tmpl)

	a, err := r.NewArray([]Value{NumberValue(1)})
	if err != nil {
		t.Fatalf("NewArray: %v", err)
	}
	if err := r.Set(ObjectValue(a), "2", NumberValue(3)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if len(a.Items()) != 3 || !a.Items()[1].IsUndefined() {
		t.Errorf("array not grown with holes: %v", ObjectValue(a).Inspect())
	}
	v, _ := r.Get(ObjectValue(a), "0")
	if v.AsFloat() != 1 {
		t.Errorf("a[0] = %v", v.Inspect())
	}
	if v, _ := r.Get(ObjectValue(a), "01"); !v.IsUndefined() {
		t.Errorf("non-canonical index should not hit elements")
	}
}

func TestPoolLimits(t *testing.T) {
	tmpl := buildTestTemplate(t, NewPool(0))
	if _, err := NewRealm(tmpl, NewPool(16)); !errors.Is(err, errors.ErrOutOfMemory) {
		t.Errorf("expected ErrOutOfMemory, got %v", err)
	}
	var ie *errors.InitError
	if _, err := NewRealm(tmpl, NewPool(16)); !errors.As(err, &ie) {
		t.Errorf("expected InitError, got %T", err)
	}
	p := NewPool(8)
	if _, err := p.Sprintf("%s", "too long for the pool"); err == nil {
		t.Errorf("expected Sprintf to fail on a small pool")
	}
	if p.Used() != 0 {
		t.Errorf("failed charge should not count, used %d", p.Used())
	}
}
