// Package interconnect resolves the wiring of a system into the statements
// of its top-level module.
//
// Resolution runs in fixed phases that are never revisited: board port
// declarations, per-instance wire declarations, intrinsic snippets, static
// connections, dynamic interface metadata, sink connectivity, the inverse
// source connectivity, bus contention, the valid/frame/ready selection
// chains and finally module instantiation.
package interconnect

import (
	"context"
	"fmt"

	"github.com/vk/socforge/internal/ctxlog"
	"github.com/vk/socforge/internal/model"
	"github.com/vk/socforge/internal/ordered"
	"github.com/vk/socforge/internal/params"
	"github.com/vk/socforge/internal/signal"
)

// Netlist is the resolved top-level wiring, section by section in emission
// order.
type Netlist struct {
	// Ports are the top module port names.
	Ports []string
	// PortDecls declare the board ports.
	PortDecls []string
	Wires     []WireBlock
	// Intrinsics are the substituted intrinsic templates.
	Intrinsics []string
	Static     []string
	// Contention holds the alias declarations followed by the resolution
	// expressions.
	Contention []string
	// Valid holds the valid and frame selection chains, Ready the ready
	// chains.
	Valid     []string
	Ready     []string
	Instances []Instantiation
	Drivers   []Driver
}

// WireBlock declares the wires of one instance.
type WireBlock struct {
	Instance string
	Module   string
	Decls    []string
}

// Binding is one named association of an instantiation.
type Binding struct {
	Name  string
	Value string
}

// Instantiation is one module instance of the top module.
type Instantiation struct {
	Instance string
	Module   string
	Params   []Binding
	Ports    []Binding
}

// Resolve wires system. params must hold the final parameter set of every
// instance.
func Resolve(ctx context.Context, catalog *model.Catalog, system *model.System, params map[string]*params.Resolved) (*Netlist, error) {
	r := &resolver{
		catalog:   catalog,
		system:    system,
		params:    params,
		signals:   signal.NewResolver(catalog, system, params),
		endpoints: ordered.New[*endpoint](),
		sinks:     ordered.New[*ordered.Map[[]link]](),
		sources:   ordered.New[*ordered.Map[[]link]](),
		contended: ordered.New[*ordered.Map[[]string]](),
		net:       &Netlist{},
	}
	logger := ctxlog.FromContext(ctx)

	phases := []struct {
		name string
		run  func() error
	}{
		{"ports", r.declarePorts},
		{"wires", r.declareWires},
		{"intrinsics", r.expandIntrinsics},
		{"static", r.wireStatic},
		{"endpoints", r.buildEndpoints},
		{"sinks", r.connectSinks},
		{"sources", r.connectSources},
		{"contention", r.detectContention},
		{"resolution", r.resolveContention},
		{"valid", r.assignValid},
		{"ready", r.assignReady},
		{"instances", r.instantiate},
	}
	for _, p := range phases {
		logger.Debug("Resolving interconnect phase.", "phase", p.name)
		if err := p.run(); err != nil {
			return nil, fmt.Errorf("%s: %w", p.name, err)
		}
	}

	logger.Info("Resolved interconnect.",
		"ports", len(r.net.Ports),
		"static", len(r.net.Static),
		"dynamic", r.endpoints.Len(),
		"contentions", r.contentions(),
		"instances", len(r.net.Instances),
	)
	return r.net, nil
}

type resolver struct {
	catalog *model.Catalog
	system  *model.System
	params  map[string]*params.Resolved
	signals *signal.Resolver

	endpoints *ordered.Map[*endpoint]
	// sinks maps a sink interface and handshake to the sources that may
	// drive it; sources is the inverse for module interfaces.
	sinks   *ordered.Map[*ordered.Map[[]link]]
	sources *ordered.Map[*ordered.Map[[]link]]
	// contended maps an interface and a contended signal reference to the
	// handshakes sharing it.
	contended *ordered.Map[*ordered.Map[[]string]]

	net *Netlist
}

func (r *resolver) contentions() int {
	n := 0
	for _, sigs := range r.contended.All() {
		n += sigs.Len()
	}
	return n
}

// declare resolves ref and renders its declaration.
func (r *resolver) declare(ref string) (*signal.Signal, string, error) {
	s, err := r.signals.Resolve(ref)
	if err != nil {
		return nil, "", err
	}
	decl, err := signal.Declare(s)
	if err != nil {
		return nil, "", err
	}
	return s, decl, nil
}

// protocolRefs expands an interface reference to one reference per protocol
// signal, or returns it unchanged for GENERAL and CLOCK interfaces.
func (r *resolver) protocolRefs(ref string, iface *model.Interface) ([]string, error) {
	if !iface.IsProtocol() {
		return []string{ref}, nil
	}
	proto, err := r.catalog.Definitions.Protocol(iface.Type)
	if err != nil {
		return nil, err
	}
	refs := make([]string, 0, proto.Widths.Len())
	for _, sig := range proto.Signals() {
		refs = append(refs, ref+":"+sig)
	}
	return refs, nil
}
