package builtins

import (
	"njscore/pkg/vm"
)

// GlobalThisInitializer reserves the global object slot. It carries no
// properties of its own; globals live in the realm's scope.
type GlobalThisInitializer struct{}

func (g *GlobalThisInitializer) Name() string {
	return "globalThis"
}

func (g *GlobalThisInitializer) Priority() int {
	return PriorityGlobalThis
}

func (g *GlobalThisInitializer) InitNamespace(ctx *TemplateContext) ([]vm.PropertyDesc, error) {
	return nil, nil
}
