// Package timer derives the tick rate of the AXI timer.
package timer

import (
	"context"

	"github.com/vk/socforge/internal/registry"
)

// ModuleType is the catalog name this evaluator serves.
const ModuleType = "timer_axi"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the evaluator with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterEvaluator(ModuleType, registry.EvaluatorFunc(Evaluate))
}

// Evaluate sets TCKS_PER_US, the clock ticks per microsecond.
func Evaluate(_ context.Context, env *registry.Env) error {
	clock, err := env.Params.Setting("CLOCK_FREQ_MHZ")
	if err != nil {
		return err
	}
	return env.Params.Set("TCKS_PER_US", clock.Clone())
}
