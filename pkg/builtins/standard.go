package builtins

import "sort"

// GetStandardInitializers returns all built-in initializers sorted by priority
func GetStandardInitializers() []BuiltinInitializer {
	var initializers []BuiltinInitializer

	// Namespaces
	initializers = append(initializers, &GlobalThisInitializer{})
	initializers = append(initializers, &MathInitializer{})

	// Global functions
	initializers = append(initializers, &GlobalsInitializer{})

	// Core builtins
	initializers = append(initializers, &ObjectInitializer{})
	initializers = append(initializers, &ArrayInitializer{})
	initializers = append(initializers, &BooleanInitializer{})
	initializers = append(initializers, &NumberInitializer{})
	initializers = append(initializers, &StringInitializer{})
	initializers = append(initializers, &FunctionInitializer{})
	initializers = append(initializers, &RegExpInitializer{})
	initializers = append(initializers, &DateInitializer{})

	// Sort by priority (lower numbers first)
	sort.SliceStable(initializers, func(i, j int) bool {
		return initializers[i].Priority() < initializers[j].Priority()
	})

	return initializers
}
