// Package i2c derives the clock divider of the AXI I2C master.
package i2c

import (
	"context"

	"github.com/vk/socforge/internal/ctxlog"
	"github.com/vk/socforge/internal/derive"
	"github.com/vk/socforge/internal/registry"
)

// ModuleType is the catalog name this evaluator serves.
const ModuleType = "i2c_axi"

// busHz is the standard-mode I2C bus clock.
const busHz = 100_000

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the evaluator with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterEvaluator(ModuleType, registry.EvaluatorFunc(Evaluate))
}

// Evaluate sets CLOCK_DIVISOR = ceil(log2(clock_hz / 100 kHz)).
func Evaluate(ctx context.Context, env *registry.Env) error {
	p := env.Params
	clock, err := p.Float("CLOCK_FREQ_MHZ")
	if err != nil {
		return err
	}
	div, err := derive.CeilLog2(clock * 1e6 / busHz)
	if err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("Derived I2C divider.", "instance", p.Name(), "clock_divisor", div)
	return p.SetInt("CLOCK_DIVISOR", div)
}
