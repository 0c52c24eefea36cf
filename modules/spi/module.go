// Package spi derives the clock divider of the AXI SPI master.
package spi

import (
	"context"

	"github.com/vk/socforge/internal/ctxlog"
	"github.com/vk/socforge/internal/derive"
	"github.com/vk/socforge/internal/registry"
)

// ModuleType is the catalog name this evaluator serves.
const ModuleType = "spi_axi"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the evaluator with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterEvaluator(ModuleType, registry.EvaluatorFunc(Evaluate))
}

// Evaluate sets CLOCK_DIVISOR to the number of halvings of clock/4 needed
// to stay at or below SPI_FREQ_MHZ.
func Evaluate(ctx context.Context, env *registry.Env) error {
	p := env.Params
	clock, err := p.Float("CLOCK_FREQ_MHZ")
	if err != nil {
		return err
	}
	target, err := p.Float("SPI_FREQ_MHZ")
	if err != nil {
		return err
	}
	div, err := derive.HalvingDivisor(clock/4, target)
	if err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("Derived SPI divider.", "instance", p.Name(), "clock_divisor", div)
	return p.SetInt("CLOCK_DIVISOR", div)
}
