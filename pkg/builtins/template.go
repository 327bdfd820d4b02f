package builtins

import (
	"fmt"

	"njscore/pkg/errors"
	"njscore/pkg/vm"
)

// BuildTemplate builds the shared builtin template from the standard
// initializers. Every allocation is charged to pool; the first failure
// aborts the build and no template is returned.
func BuildTemplate(pool *vm.Pool) (*vm.Template, error) {
	return BuildTemplateFrom(pool, GetStandardInitializers())
}

// BuildTemplateFrom builds a template from an explicit initializer list.
// Every builtin kind must be covered by exactly one TypeInitializer.
func BuildTemplateFrom(pool *vm.Pool, initializers []BuiltinInitializer) (*vm.Template, error) {
	var (
		namespaces []NamespaceInitializer
		functions  []FunctionsInitializer
		kinds      [vm.NumBuiltins]TypeInitializer
	)
	for _, init := range initializers {
		switch i := init.(type) {
		case TypeInitializer:
			k := i.Kind()
			if int(k) >= vm.NumBuiltins {
				return nil, &errors.InitError{Stage: i.Name(), Msg: fmt.Sprintf("unknown builtin kind %d", k)}
			}
			if kinds[k] != nil {
				return nil, &errors.InitError{Stage: i.Name(), Msg: fmt.Sprintf("%s is already provided by %s", k, kinds[k].Name())}
			}
			kinds[k] = i
		case NamespaceInitializer:
			namespaces = append(namespaces, i)
		case FunctionsInitializer:
			functions = append(functions, i)
		default:
			return nil, &errors.InitError{Stage: init.Name(), Msg: "initializer contributes nothing"}
		}
	}
	for k, init := range kinds {
		if init == nil {
			return nil, &errors.InitError{Stage: vm.BuiltinKind(k).String(), Msg: "no initializer"}
		}
	}

	empty, err := vm.CompilePattern("", "")
	if err != nil {
		return nil, errors.NewInitError("RegExp.prototype", err)
	}
	ctx := &TemplateContext{Pool: pool, EmptyPattern: empty}

	var fns []GlobalFunction
	for _, init := range functions {
		list, err := init.InitFunctions(ctx)
		if err != nil {
			return nil, errors.NewInitError(init.Name(), err)
		}
		fns = append(fns, list...)
	}

	b, err := vm.NewTemplateBuilder(pool, len(namespaces), len(fns))
	if err != nil {
		return nil, errors.NewInitError("template", err)
	}
	b.SetEmptyPattern(empty)

	if err := b.SetNullProtoTable([]vm.PropertyDesc{vm.Hidden("__proto__")}); err != nil {
		return nil, errors.NewInitError("null prototype", err)
	}
	if err := b.SetFunctionPrototypeTable([]vm.PropertyDesc{vm.Accessor("prototype", functionPrototypeGetter)}); err != nil {
		return nil, errors.NewInitError("function prototype", err)
	}

	for i, init := range namespaces {
		descs, err := init.InitNamespace(ctx)
		if err == nil {
			err = b.DefineNamespace(i, init.Name(), descs)
		}
		if err != nil {
			return nil, errors.NewInitError("namespace "+init.Name(), err)
		}
	}

	for i, fn := range fns {
		if err := b.DefineFunction(i, fn.Entry, fn.Props); err != nil {
			return nil, errors.NewInitError("function "+fn.Entry.Name(), err)
		}
	}

	for _, init := range kinds {
		def, err := init.InitPrototype(ctx)
		if err == nil {
			err = b.DefinePrototype(init.Kind(), def)
		}
		if err != nil {
			return nil, errors.NewInitError("prototype "+init.Name(), err)
		}
	}

	for _, init := range kinds {
		entry, statics, err := init.InitConstructor(ctx)
		if err == nil {
			err = b.DefineConstructor(init.Kind(), init.Name(), entry, statics)
		}
		if err != nil {
			return nil, errors.NewInitError("constructor "+init.Name(), err)
		}
	}

	t, err := b.Template()
	if err != nil {
		return nil, errors.NewInitError("template", err)
	}
	return t, nil
}

// functionPrototypeGetter backs "prototype" on native functions that do
// not define their own: an object inheriting from Object.prototype, made
// once per realm and function.
func functionPrototypeGetter(r *vm.Realm, this vm.Value) (vm.Value, error) {
	o, err := r.FunctionPrototype(this.AsObject(), func() (*vm.OwnedObject, error) {
		o, err := r.NewObject(vm.PrototypeID(vm.BuiltinObject))
		if err != nil {
			return nil, err
		}
		if err := r.Define(o, "constructor", this, true, false, true); err != nil {
			return nil, err
		}
		return o, nil
	})
	if err != nil {
		return vm.Undefined, err
	}
	return vm.ObjectValue(o), nil
}
