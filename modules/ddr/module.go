// Package ddr compiles the rule tables of the DDR memory controller.
//
// The controller executes command macros from three tables it loads through
// its configuration port: bank arbitration, refresh and runtime rules. This
// package derives the word layouts from the module encodings, packs the
// board's command set into those layouts and writes each table as hex text,
// one row per line.
package ddr

import (
	"context"
	"fmt"
	"math/bits"
	"strings"

	"github.com/vk/socforge/internal/config"
	"github.com/vk/socforge/internal/ctxlog"
	"github.com/vk/socforge/internal/derive"
	"github.com/vk/socforge/internal/model"
	"github.com/vk/socforge/internal/params"
	"github.com/vk/socforge/internal/registry"
)

// ModuleType is the catalog name this evaluator serves.
const ModuleType = "ddr_controller"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the evaluator with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterEvaluator(ModuleType, registry.EvaluatorFunc(Evaluate))
}

// Table file suffixes, in the order they are written.
const (
	arbiterSuffix = "_arbiter_rules.hex"
	refreshSuffix = "_refresh_rules.hex"
	runtimeSuffix = "_runtime_rules.hex"
)

// layout is the derived word geometry.
type layout struct {
	commandWord int64
	timerBits   int64
	numSlots    int64
	slotBits    int64
	largest     int64
	macroWord   int64
}

// entry is the width of one packed command inside a macro word.
func (l layout) entry() int64 {
	return l.timerBits + l.slotBits + l.commandWord
}

// Evaluate derives the controller geometry, allocates the configuration
// address space and writes the arbiter, refresh and runtime tables.
func Evaluate(ctx context.Context, env *registry.Env) error {
	p := env.Params
	logger := ctxlog.FromContext(ctx).With("instance", p.Name())
	enc := p.Module.Encodings

	var l layout
	var err error
	if l.commandWord, err = commandWordBits(enc); err != nil {
		return err
	}
	l.timerBits = timerBits(p)
	burst, err := p.Int("BURST_SIZE")
	if err != nil {
		return err
	}
	l.numSlots = burst / 2
	if l.slotBits, err = derive.BitsFor(l.numSlots); err != nil {
		return fmt.Errorf("%w: BURST_SIZE %d: %v", model.ErrResolution, burst, err)
	}

	chip, err := chipCommands(p, enc)
	if err != nil {
		return err
	}

	macros, err := setting(p, "MACRO_ENCODINGS")
	if err != nil {
		return err
	}
	if !macros.IsMap() {
		return fmt.Errorf("%w: MACRO_ENCODINGS of instance %q must be a table", model.ErrSchema, p.Name())
	}
	for _, m := range macros.Map.All() {
		cmds, _ := m.Get("COMMANDS")
		if cmds.IsList() {
			l.largest = max(l.largest, int64(len(cmds.List)))
		}
	}
	if l.largest == 0 {
		return fmt.Errorf("%w: MACRO_ENCODINGS of instance %q defines no commands", model.ErrSchema, p.Name())
	}
	countBits, _ := derive.BitsFor(l.largest)
	packed := l.largest * l.entry()
	l.macroWord = 8 * derive.CeilDiv(countBits+packed, 8)

	dataBits, err := p.Int("CONFIGURATION_DATA_BITS")
	if err != nil {
		return err
	}
	if dataBits < 1 {
		return fmt.Errorf("%w: CONFIGURATION_DATA_BITS of instance %q must be positive", model.ErrResolution, p.Name())
	}
	words := derive.CeilDiv(l.macroWord, dataBits)
	wordBits, _ := derive.BitsFor(words)

	derived := []struct {
		name  string
		value int64
	}{
		{"COMMAND_WORD", l.commandWord},
		{"TIMER_BITS", l.timerBits},
		{"NUM_SLOTS", l.numSlots},
		{"CMD_READ", chip["READ"]},
		{"CMD_WRITE", chip["WRITE"]},
		{"CMD_ACTIVATE", chip["ACTIVATE"]},
		{"CMD_PRECHARGE", chip["PRECHARGE"]},
		{"MACRO_WORD", l.macroWord},
		{"MACRO_COUNT_BITS", l.macroWord - packed},
		{"MACRO_CONFIG_WORDS_NEEDED", words},
		{"MACRO_CONFIG_BITS_NEEDED", wordBits},
	}
	for _, d := range derived {
		if err := p.SetInt(d.name, d.value); err != nil {
			return err
		}
	}
	logger.Debug("Derived controller geometry.", "command_word", l.commandWord, "timer_bits", l.timerBits, "macro_word", l.macroWord)

	if err := allocateConfigSpace(p); err != nil {
		return err
	}
	for _, t := range []struct{ param, suffix string }{
		{"REFRESH_RULES_INIT_HEX", refreshSuffix},
		{"RUNTIME_RULES_INIT_HEX", runtimeSuffix},
		{"ARBITER_RULES_INIT_HEX", arbiterSuffix},
	} {
		if err := p.Set(t.param, config.String(`"`+p.Name()+t.suffix+`"`)); err != nil {
			return err
		}
	}

	// Arbiter table.
	baWidth, err := p.Int("DDR_BA_WIDTH")
	if err != nil {
		return err
	}
	policy, err := setting(p, "BANK_ARBITRATION_POLICY")
	if err != nil {
		return err
	}
	arbiter, err := ArbiterTable(policy.Text(), 1<<baWidth)
	if err != nil {
		return fmt.Errorf("instance %q: %w", p.Name(), err)
	}
	var rows []string
	for _, bank := range arbiter {
		rows = append(rows, fmt.Sprintf("%x", bank))
	}
	if err := writeTable(env, arbiterSuffix, rows); err != nil {
		return err
	}

	commands, err := controllerCommands(p, enc, chip)
	if err != nil {
		return err
	}
	refresh, err := refreshTable(p, commands, l)
	if err != nil {
		return err
	}
	if err := writeTable(env, refreshSuffix, refresh); err != nil {
		return err
	}
	runtime, err := runtimeTable(p, enc, commands, l)
	if err != nil {
		return err
	}
	logger.Debug("Compiled rule tables.", "arbiter_rows", len(arbiter), "refresh_rows", len(refresh), "runtime_rows", len(runtime))
	return writeTable(env, runtimeSuffix, runtime)
}

func writeTable(env *registry.Env, suffix string, rows []string) error {
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(r)
		b.WriteByte('\n')
	}
	return env.Output.WriteFile(env.Params.Name()+suffix, []byte(b.String()))
}

// commandWordBits is one past the highest bit any controller command field
// occupies.
func commandWordBits(enc *config.Value) (int64, error) {
	fields, ok := enc.Get("controller_command_word")
	if !ok || !fields.IsMap() {
		return 0, fmt.Errorf("%w: encodings have no controller_command_word table", model.ErrSchema)
	}
	var top int64 = -1
	for name, field := range fields.Map.All() {
		bitList, ok := field.Get("BITS")
		if !ok || !bitList.IsList() {
			return 0, fmt.Errorf("%w: controller_command_word.%s has no BITS list", model.ErrSchema, name)
		}
		for _, b := range bitList.List {
			n, ok := b.AsInt()
			if !ok {
				return 0, fmt.Errorf("%w: controller_command_word.%s.BITS holds %q", model.ErrSchema, name, b.Text())
			}
			top = max(top, n)
		}
	}
	return top + 1, nil
}

// timerBits is the width needed to hold the highest TIMERID_* setting, at
// least one.
func timerBits(p *params.Resolved) int64 {
	var highest int64
	for _, layer := range []*config.Value{p.Params, p.Board, p.Common} {
		for name, v := range layer.Map.All() {
			if !strings.HasPrefix(name, "TIMERID_") {
				continue
			}
			if n, ok := v.AsInt(); ok {
				highest = max(highest, n)
			}
		}
	}
	return max(int64(bits.Len64(uint64(highest))), 1)
}

// setting returns a structured, non-parameter setting.
func setting(p *params.Resolved, name string) (*config.Value, error) {
	v, err := p.Setting(name)
	if err != nil {
		return nil, err
	}
	if v.Kind == config.KindNull {
		return nil, fmt.Errorf("%w: setting %q of instance %q is empty", model.ErrSchema, name, p.Name())
	}
	return v, nil
}
