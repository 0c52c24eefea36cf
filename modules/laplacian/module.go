// Package laplacian derives the SPI and UART timing of the Laplacian image
// accelerator.
package laplacian

import (
	"context"

	"github.com/vk/socforge/internal/ctxlog"
	"github.com/vk/socforge/internal/derive"
	"github.com/vk/socforge/internal/registry"
)

// ModuleType is the catalog name this evaluator serves.
const ModuleType = "laplacian_rgb565_rv32_pcpi_full"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the evaluator with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterEvaluator(ModuleType, registry.EvaluatorFunc(Evaluate))
}

// Evaluate sets SPI_CLOCK_DIVISOR (halving from clock/2) and
// UART_TX_CLKS_PER_BIT.
func Evaluate(ctx context.Context, env *registry.Env) error {
	p := env.Params
	clock, err := p.Float("CLOCK_FREQ_MHZ")
	if err != nil {
		return err
	}
	spiTarget, err := p.Float("SPI_FREQ_MHZ")
	if err != nil {
		return err
	}
	baud, err := p.Float("UART_BAUD_RATE_BPS")
	if err != nil {
		return err
	}

	div, err := derive.HalvingDivisor(clock/2, spiTarget)
	if err != nil {
		return err
	}
	cpb, err := derive.ClocksPerBit(clock, baud)
	if err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("Derived accelerator timing.", "instance", p.Name(), "spi_clock_divisor", div, "uart_tx_clks_per_bit", cpb)

	if err := p.SetInt("SPI_CLOCK_DIVISOR", div); err != nil {
		return err
	}
	return p.SetInt("UART_TX_CLKS_PER_BIT", cpb)
}
