package emit

import (
	"fmt"

	"github.com/vk/socforge/internal/model"
	"github.com/vk/socforge/internal/params"
	"github.com/vk/socforge/internal/signal"
)

// Parameters renders parameters.vh: one parameter line per instance
// parameter, instances and parameters in emission order.
func Parameters(resolved []*params.Resolved) []byte {
	var out lines
	for _, r := range resolved {
		for _, name := range r.Names() {
			v, _ := r.Get(name)
			out.add("parameter " + signal.ParameterName(r.Name(), name) + " = " + v.Text() + ";")
		}
	}
	return out.bytes()
}

// Constraints renders the pin constraint file for the system's external
// ports.
func Constraints(board *model.Board, sys *model.System) ([]byte, error) {
	var out lines
	for _, port := range sys.Ports {
		c, ok := board.Constraints[port]
		if !ok {
			return nil, fmt.Errorf("%w: board %q has no constraints for port %q", model.ErrSchema, board.Name, port)
		}
		out.add(c)
	}
	return out.bytes(), nil
}

// IPTcl renders ip.tcl: the project name followed by the IP directives of
// every board source file in src, in first-seen order.
func IPTcl(board *model.Board, sys *model.System, src *Sources) []byte {
	var out lines
	out.add("set PROJECT " + sys.Name)
	for _, file := range src.Board {
		out.add(board.IP[file]...)
	}
	return out.bytes()
}
