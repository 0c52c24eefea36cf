package ddr

import (
	"fmt"

	"github.com/vk/socforge/internal/config"
	"github.com/vk/socforge/internal/model"
	"github.com/vk/socforge/internal/params"
	"github.com/vk/socforge/internal/sizeexpr"
)

// configBlocks are the sub-blocks behind the configuration port, in address
// order, with the LAYOUT entry of the config interface that sizes each one.
var configBlocks = []struct{ name, layout string }{
	{"ADDRESS_FORMAT", "ddr_address_map"},
	{"TIMERS", "ddr_timer_db"},
	{"PERFTUNER", "ddr_perftuner"},
	{"REFRESH_RULES", "ddr_refresh"},
	{"RUNTIME_RULES", "ddr_runtime_rules"},
	{"ARBITER", "ddr_arbiter"},
}

// allocateConfigSpace lays the blocks out back to back from address 0 and
// sets CONFIGADDR_START_<block> and CONFIGADDR_END_<block> (inclusive).
// Block sizes may reference parameters set before, including the ones
// derived here.
func allocateConfigSpace(p *params.Resolved) error {
	iface, err := p.Module.Interface("config")
	if err != nil {
		return err
	}
	lookup := func(name string) (int64, bool) {
		v, ok := p.Get(name)
		if !ok {
			return 0, false
		}
		return v.AsInt()
	}

	var start int64
	for _, b := range configBlocks {
		raw, ok := iface.Fields.Lookup("LAYOUT", b.layout, "SIZE")
		if !ok {
			return fmt.Errorf("%w: config interface of %q has no LAYOUT.%s.SIZE", model.ErrSchema, p.Module.Name, b.layout)
		}
		var size int64
		if raw.Kind == config.KindInt {
			size = raw.Int
		} else if size, err = sizeexpr.Eval(raw.Text(), lookup); err != nil {
			return fmt.Errorf("instance %q LAYOUT.%s: %w", p.Name(), b.layout, err)
		}
		end := start + size - 1
		if err := p.SetInt("CONFIGADDR_START_"+b.name, start); err != nil {
			return err
		}
		if err := p.SetInt("CONFIGADDR_END_"+b.name, end); err != nil {
			return err
		}
		start = end + 1
	}
	return nil
}
