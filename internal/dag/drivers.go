package dag

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vk/socforge/internal/model"
)

// DriverGraph tracks what drives each wire of a netlist. Plain assignments
// are also edges of a Graph so assignment loops can be found.
type DriverGraph struct {
	graph   *Graph
	drivers map[string][]string
	wires   []string
	// selfLoops holds wires assigned from themselves, which the Graph
	// cannot represent as an edge.
	selfLoops []string
}

// NewDriverGraph creates an empty DriverGraph.
func NewDriverGraph() *DriverGraph {
	return &DriverGraph{graph: New(), drivers: make(map[string][]string)}
}

// Drive records that by drives wire.
func (d *DriverGraph) Drive(wire, by string) {
	if _, ok := d.drivers[wire]; !ok {
		d.wires = append(d.wires, wire)
	}
	d.drivers[wire] = append(d.drivers[wire], by)
}

// Assign records the continuous assignment `assign to = from`.
func (d *DriverGraph) Assign(to, from string) {
	d.Drive(to, "assign from "+from)
	if to == from {
		d.selfLoops = append(d.selfLoops, to)
		return
	}
	d.graph.AddNode(from)
	d.graph.AddNode(to)
	// Both nodes exist and differ, so the edge cannot fail.
	_ = d.graph.AddEdge(from, to)
}

// Drivers returns what drives wire, in recording order.
func (d *DriverGraph) Drivers(wire string) []string {
	return d.drivers[wire]
}

// Check fails on the first wire with several drivers, then on an
// assignment loop. A loop is reported as the chain of wires it runs
// through, in the direction values flow.
func (d *DriverGraph) Check() error {
	for _, wire := range d.wires {
		if by := d.Drivers(wire); len(by) > 1 {
			return fmt.Errorf("%w: wire %s has %d drivers: %s", model.ErrArity, wire, len(by), strings.Join(by, "; "))
		}
	}
	if len(d.selfLoops) > 0 {
		wire := d.selfLoops[0]
		return fmt.Errorf("%w: assignment loop: %s -> %s", model.ErrResolution, wire, wire)
	}
	if err := d.graph.DetectCycles(); err != nil {
		var cycle *CycleError
		if errors.As(err, &cycle) {
			if path := d.loop(cycle.Node); path != nil {
				return fmt.Errorf("%w: assignment loop: %s", model.ErrResolution, strings.Join(path, " -> "))
			}
		}
		return fmt.Errorf("%w: assignment loop: %w", model.ErrResolution, err)
	}
	return nil
}

// loop returns a path of assignments leading from start back to start, or
// nil if there is none.
func (d *DriverGraph) loop(start string) []string {
	seen := map[string]bool{start: true}
	var walk func(id string, path []string) []string
	walk = func(id string, path []string) []string {
		next, err := d.graph.Dependents(id)
		if err != nil {
			return nil
		}
		for _, n := range next {
			if n == start {
				return append(path, start)
			}
			if seen[n] {
				continue
			}
			seen[n] = true
			if p := walk(n, append(path, n)); p != nil {
				return p
			}
		}
		return nil
	}
	return walk(start, []string{start})
}
