package interconnect

import "github.com/vk/socforge/internal/dag"

// DriverKind says how a wire is driven.
type DriverKind string

const (
	// Assign is a plain continuous assignment from another wire.
	Assign DriverKind = "assign"
	// Select is a valid, frame or ready selection chain.
	Select     DriverKind = "select"
	Resolution DriverKind = "resolution"
	// Port is a module output port.
	Port DriverKind = "port"
)

// Driver records one thing driving a wire.
type Driver struct {
	Wire   string
	Source string
	Kind   DriverKind
}

// Check verifies that no wire has more than one driver and that plain
// assignments form no loop.
func (n *Netlist) Check() error {
	g := dag.NewDriverGraph()
	for _, d := range n.Drivers {
		if d.Kind == Assign {
			g.Assign(d.Wire, d.Source)
			continue
		}
		g.Drive(d.Wire, string(d.Kind)+" "+d.Source)
	}
	return g.Check()
}
