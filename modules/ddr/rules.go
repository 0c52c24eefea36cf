package ddr

import (
	"fmt"
	"math/big"
	"math/bits"
	"slices"
	"strconv"
	"strings"

	"github.com/vk/socforge/internal/config"
	"github.com/vk/socforge/internal/derive"
	"github.com/vk/socforge/internal/model"
	"github.com/vk/socforge/internal/params"
)

// Chip commands the controller instantiates directly as parameters.
var requiredChipCommands = []string{"READ", "WRITE", "ACTIVATE", "PRECHARGE"}

// commandSet is an ENCODING/COMMANDS pair: each command lists one symbolic
// value per encoding field.
type commandSet struct {
	encoding []string
	names    []string
	commands map[string][]string
}

func decodeCommandSet(p *params.Resolved, name string) (*commandSet, error) {
	v, err := setting(p, name)
	if err != nil {
		return nil, err
	}
	encV, _ := v.Get("ENCODING")
	encoding, ok := encV.Strings()
	if !ok {
		return nil, fmt.Errorf("%w: %s.ENCODING of instance %q must be a list", model.ErrSchema, name, p.Name())
	}
	cmds, ok := v.Get("COMMANDS")
	if !ok || !cmds.IsMap() {
		return nil, fmt.Errorf("%w: %s.COMMANDS of instance %q must be a table", model.ErrSchema, name, p.Name())
	}
	cs := &commandSet{encoding: encoding, commands: make(map[string][]string)}
	for cmd, fields := range cmds.Map.All() {
		values, ok := fields.Strings()
		if !ok || len(values) != len(encoding) {
			return nil, fmt.Errorf("%w: %s.COMMANDS.%s of instance %q must list %d values", model.ErrSchema, name, cmd, p.Name(), len(encoding))
		}
		cs.names = append(cs.names, cmd)
		cs.commands[cmd] = values
	}
	return cs, nil
}

// encoded looks up the numeric value of a symbolic field value.
func encoded(enc *config.Value, path ...string) (int64, error) {
	v, ok := enc.Lookup(path...)
	if !ok {
		return 0, fmt.Errorf("%w: no encoding for %v", model.ErrResolution, path)
	}
	n, ok := v.AsInt()
	if !ok {
		return 0, fmt.Errorf("%w: encoding %v is not an integer: %q", model.ErrSchema, path, v.Text())
	}
	return n, nil
}

// chipCommands sums the chip_command_word encodings of each board command.
func chipCommands(p *params.Resolved, enc *config.Value) (map[string]int64, error) {
	cs, err := decodeCommandSet(p, "CHIP_COMMANDS")
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(cs.names))
	for _, cmd := range cs.names {
		var word int64
		for i, value := range cs.commands[cmd] {
			n, err := encoded(enc, "chip_command_word", cs.encoding[i], value)
			if err != nil {
				return nil, fmt.Errorf("chip command %s: %w", cmd, err)
			}
			word += n
		}
		out[cmd] = word
	}
	for _, cmd := range requiredChipCommands {
		if _, ok := out[cmd]; !ok {
			return nil, fmt.Errorf("%w: CHIP_COMMANDS of instance %q has no %s command", model.ErrResolution, p.Name(), cmd)
		}
	}
	return out, nil
}

// controllerCommands encodes each controller command: the chip command it
// wraps, mapped through controller_command_word.chip_command_word, plus
// every other field.
func controllerCommands(p *params.Resolved, enc *config.Value, chip map[string]int64) (map[string]int64, error) {
	cs, err := decodeCommandSet(p, "CONTROLLER_COMMANDS")
	if err != nil {
		return nil, err
	}
	chipIdx := slices.Index(cs.encoding, "chip_command_word")
	if chipIdx < 0 {
		return nil, fmt.Errorf("%w: CONTROLLER_COMMANDS.ENCODING of instance %q has no chip_command_word field", model.ErrSchema, p.Name())
	}
	out := make(map[string]int64, len(cs.names))
	for _, cmd := range cs.names {
		fields := cs.commands[cmd]
		chipWord, ok := chip[fields[chipIdx]]
		if !ok {
			return nil, fmt.Errorf("%w: controller command %s wraps unknown chip command %q", model.ErrResolution, cmd, fields[chipIdx])
		}
		value, err := encoded(enc, "controller_command_word", "chip_command_word", strconv.FormatInt(chipWord, 10))
		if err != nil {
			return nil, fmt.Errorf("controller command %s: %w", cmd, err)
		}
		for i, field := range cs.encoding {
			if i == chipIdx {
				continue
			}
			n, err := encoded(enc, "controller_command_word", field, fields[i])
			if err != nil {
				return nil, fmt.Errorf("controller command %s: %w", cmd, err)
			}
			value += n
		}
		out[cmd] = value
	}
	return out, nil
}

func lookupCommand(commands map[string]int64, name string) (int64, error) {
	v, ok := commands[name]
	if !ok {
		return 0, fmt.Errorf("%w: unknown controller command %q", model.ErrResolution, name)
	}
	return v, nil
}

// refreshTable lists the REFRESH_COMMANDS, one command word per row.
func refreshTable(p *params.Resolved, commands map[string]int64, l layout) ([]string, error) {
	v, err := setting(p, "REFRESH_COMMANDS")
	if err != nil {
		return nil, err
	}
	names, ok := v.Strings()
	if !ok {
		return nil, fmt.Errorf("%w: REFRESH_COMMANDS of instance %q must be a list", model.ErrSchema, p.Name())
	}
	digits := int(derive.CeilDiv(l.commandWord, 4))
	rows := make([]string, 0, len(names))
	for _, name := range names {
		cmd, err := lookupCommand(commands, name)
		if err != nil {
			return nil, fmt.Errorf("REFRESH_COMMANDS: %w", err)
		}
		rows = append(rows, fmt.Sprintf("%0*x", digits, cmd))
	}
	return rows, nil
}

// Fields of a packed macro entry.
const (
	fieldSlot    = "COMMAND_SLOT"
	fieldTimer   = "TIMER"
	fieldCommand = "RUNTIME_COMMAND"
)

// entryOffsets places the three entry fields in the order given by
// macro_word.ENCODING, lowest bits first.
func entryOffsets(enc *config.Value, l layout) (map[string]uint, error) {
	v, _ := enc.Lookup("macro_word", "ENCODING")
	order, ok := v.Strings()
	widths := map[string]int64{fieldSlot: l.slotBits, fieldTimer: l.timerBits, fieldCommand: l.commandWord}
	if !ok || len(order) != len(widths) {
		return nil, fmt.Errorf("%w: macro_word.ENCODING must list %s, %s and %s", model.ErrSchema, fieldSlot, fieldTimer, fieldCommand)
	}
	offsets := make(map[string]uint, len(order))
	var at int64
	for _, field := range order {
		w, ok := widths[field]
		if !ok {
			return nil, fmt.Errorf("%w: macro_word.ENCODING has unknown field %q", model.ErrSchema, field)
		}
		if _, dup := offsets[field]; dup {
			return nil, fmt.Errorf("%w: macro_word.ENCODING lists %q twice", model.ErrSchema, field)
		}
		offsets[field] = uint(at)
		at += w
	}
	return offsets, nil
}

// runtimeTable packs every macro into a macro word: entry i at bit
// i*entry, the command count above the largest macro.
func runtimeTable(p *params.Resolved, enc *config.Value, commands map[string]int64, l layout) ([]string, error) {
	offsets, err := entryOffsets(enc, l)
	if err != nil {
		return nil, err
	}
	macros, err := setting(p, "MACRO_ENCODINGS")
	if err != nil {
		return nil, err
	}
	words := make(map[string]*big.Int, macros.Map.Len())
	for name, m := range macros.Map.All() {
		w, err := packMacro(p, m, commands, offsets, l)
		if err != nil {
			return nil, fmt.Errorf("macro %s: %w", name, err)
		}
		words[name] = w
	}

	order, err := setting(p, "MACROS")
	if err != nil {
		return nil, err
	}
	names, ok := order.Strings()
	if !ok {
		return nil, fmt.Errorf("%w: MACROS of instance %q must be a list", model.ErrSchema, p.Name())
	}
	digits := int(derive.CeilDiv(l.macroWord, 4))
	rows := make([]string, 0, len(names))
	for _, name := range names {
		w, ok := words[name]
		if !ok {
			return nil, fmt.Errorf("%w: MACROS lists undefined macro %q", model.ErrResolution, name)
		}
		hex := w.Text(16)
		if len(hex) < digits {
			hex = strings.Repeat("0", digits-len(hex)) + hex
		}
		rows = append(rows, hex)
	}
	return rows, nil
}

func packMacro(p *params.Resolved, m *config.Value, commands map[string]int64, offsets map[string]uint, l layout) (*big.Int, error) {
	list := func(key string) ([]string, error) {
		v, _ := m.Get(key)
		out, ok := v.Strings()
		if !ok {
			return nil, fmt.Errorf("%w: %s must be a list", model.ErrSchema, key)
		}
		return out, nil
	}
	cmds, err := list("COMMANDS")
	if err != nil {
		return nil, err
	}
	slots, err := list("COMMAND_SLOTS")
	if err != nil {
		return nil, err
	}
	timers, err := list("TIMERS")
	if err != nil {
		return nil, err
	}
	if len(slots) != len(cmds) || len(timers) != len(cmds) {
		return nil, fmt.Errorf("%w: COMMANDS, COMMAND_SLOTS and TIMERS differ in length (%d, %d, %d)", model.ErrSchema, len(cmds), len(slots), len(timers))
	}

	entry := uint(l.entry())
	if countBits := l.macroWord - l.largest*l.entry(); !fits(int64(len(cmds)), countBits) {
		return nil, fmt.Errorf("%w: %d commands do not fit the %d bit macro count", model.ErrResolution, len(cmds), countBits)
	}
	word := new(big.Int).Lsh(big.NewInt(int64(len(cmds))), uint(l.largest)*entry)
	for i, name := range cmds {
		cmd, err := lookupCommand(commands, name)
		if err != nil {
			return nil, err
		}
		slot, err := strconv.ParseInt(slots[i], 0, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: command slot %q is not an integer", model.ErrSchema, slots[i])
		}
		timer, err := p.Int("TIMERID_" + timers[i])
		if err != nil {
			return nil, err
		}
		for _, f := range []struct {
			field        string
			value, width int64
		}{
			{fieldSlot, slot, l.slotBits},
			{fieldTimer, timer, l.timerBits},
			{fieldCommand, cmd, l.commandWord},
		} {
			if !fits(f.value, f.width) {
				return nil, fmt.Errorf("%w: command %d (%s): %s %d does not fit in %d bits", model.ErrResolution, i, name, f.field, f.value, f.width)
			}
		}
		e := slot<<offsets[fieldSlot] | timer<<offsets[fieldTimer] | cmd<<offsets[fieldCommand]
		word.Or(word, new(big.Int).Lsh(big.NewInt(e), uint(i)*entry))
	}
	return word, nil
}

// fits reports whether v is non-negative and at most width bits wide.
func fits(v, width int64) bool {
	return v >= 0 && int64(bits.Len64(uint64(v))) <= width
}
