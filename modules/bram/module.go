// Package bram derives the address width of block RAM instances.
package bram

import (
	"context"

	"github.com/vk/socforge/internal/derive"
	"github.com/vk/socforge/internal/registry"
)

// ModuleType is the catalog name this evaluator serves.
const ModuleType = "bram"

// wordsPerUnit converts MEMORY_SIZE units (KiB) into 64-bit words.
const wordsPerUnit = 128

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the evaluator with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterEvaluator(ModuleType, registry.EvaluatorFunc(Evaluate))
}

// Evaluate sets ADDR_WIDTH = ceil(log2(MEMORY_SIZE * 128)).
func Evaluate(_ context.Context, env *registry.Env) error {
	size, err := env.Params.Float("MEMORY_SIZE")
	if err != nil {
		return err
	}
	width, err := derive.CeilLog2(size * wordsPerUnit)
	if err != nil {
		return err
	}
	return env.Params.SetInt("ADDR_WIDTH", width)
}
