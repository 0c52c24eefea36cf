// Package progloader derives the serial timing of the UART program loader.
package progloader

import (
	"context"

	"github.com/vk/socforge/internal/ctxlog"
	"github.com/vk/socforge/internal/derive"
	"github.com/vk/socforge/internal/registry"
)

// ModuleType is the catalog name this evaluator serves.
const ModuleType = "progloader_axi"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the evaluator with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterEvaluator(ModuleType, registry.EvaluatorFunc(Evaluate))
}

// Evaluate sets CLKS_PER_BIT from the loader's clock and baud rate.
func Evaluate(ctx context.Context, env *registry.Env) error {
	p := env.Params
	clock, err := p.Float("CLOCK_FREQ_MHZ")
	if err != nil {
		return err
	}
	baud, err := p.Float("UART_BAUD_RATE_BPS")
	if err != nil {
		return err
	}
	cpb, err := derive.ClocksPerBit(clock, baud)
	if err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("Derived program loader timing.", "instance", p.Name(), "clks_per_bit", cpb)
	return p.SetInt("CLKS_PER_BIT", cpb)
}
