// Package picorv32 lays out the address space of the PicoRV32 core and
// writes its linker script and reset handler.
package picorv32

import (
	"context"
	"fmt"

	"github.com/vk/socforge/internal/config"
	"github.com/vk/socforge/internal/ctxlog"
	"github.com/vk/socforge/internal/model"
	"github.com/vk/socforge/internal/registry"
)

// ModuleType is the catalog name this evaluator serves.
const ModuleType = "picorv32_axi"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the evaluator with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterEvaluator(ModuleType, registry.EvaluatorFunc(Evaluate))
}

// derived maps each core parameter to the setting it copies.
var derived = []struct{ param, setting string }{
	{"STACKADDR", "INSTRUCTION_AND_DATA_MEMORY_SIZE_BYTES"},
	{"LATCHED_IRQ", "INSTRUCTION_AND_DATA_MEMORY_SIZE_BYTES"},
	{"PROGADDR_RESET", "INSTRUCTION_MEMORY_STARTING_ADDRESS"},
	{"PROGADDR_IRQ", "INTERRUPT_HANDLER_STARTING_ADDRESS"},
	{"ENABLE_IRQ", "ENABLE_INTERRUPTS"},
}

// Evaluate derives the vector parameters and writes <inst>_linker.ld and
// <inst>_reset_handler.S.
func Evaluate(ctx context.Context, env *registry.Env) error {
	p := env.Params
	settings := make(map[string]*config.Value, len(derived))
	for _, d := range derived {
		v, err := p.Setting(d.setting)
		if err != nil {
			return err
		}
		settings[d.setting] = v
	}
	for _, d := range derived {
		if err := p.Set(d.param, settings[d.setting].Clone()); err != nil {
			return err
		}
	}

	inst := p.Instance
	mem, ok := inst.Map.Get(inst.Memory)
	if !ok {
		return fmt.Errorf("%w: instance %q: MEMORY %q is not a region of its MAP", model.ErrSchema, inst.Name, inst.Memory)
	}

	irq := settings["ENABLE_INTERRUPTS"].Truthy()
	var handler string
	if irq {
		handler = ResetHandlerIRQ(mem, settings["INTERRUPT_HANDLER_STARTING_ADDRESS"].Text())
	} else {
		handler = ResetHandler(mem)
	}
	ctxlog.FromContext(ctx).Debug("Writing core address layout.", "instance", inst.Name, "memory", mem.Name, "regions", inst.Map.Len(), "irq", irq)

	if err := env.Output.WriteFile(inst.Name+"_linker.ld", []byte(LinkerScript(inst))); err != nil {
		return err
	}
	return env.Output.WriteFile(inst.Name+"_reset_handler.S", []byte(handler))
}
