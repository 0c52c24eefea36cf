package signal

import (
	"fmt"
	"math/big"
	"slices"
	"strings"

	"github.com/vk/socforge/internal/model"
	"github.com/vk/socforge/internal/params"
)

// Signal is a resolved reference.
type Signal struct {
	Ref       string
	Namespace Namespace
	// Name is the HDL identifier or literal the reference stands for.
	Name          string
	Direction     model.Direction
	InterfaceType string
	// Width is a number, a parameter expression or empty for interfaces.
	Width string
	// IODirection is input, output or inout for board ports.
	IODirection string
	// Instance and Interface are set for module references.
	Instance  string
	Interface string
	// Signal is the protocol or board signal name, or the reference's own
	// name for scalar namespaces. It is empty when the reference names a
	// whole protocol interface.
	Signal string
}

// IsInterface reports whether s names a whole protocol interface rather
// than a single wire.
func (s *Signal) IsInterface() bool {
	return s.Signal == ""
}

// Resolver resolves references against a catalog, a system and the
// resolved parameters of its instances.
type Resolver struct {
	catalog *model.Catalog
	system  *model.System
	params  map[string]*params.Resolved
}

// NewResolver creates a Resolver. params may be nil before parameters are
// resolved; widths then stay unsubstituted.
func NewResolver(catalog *model.Catalog, system *model.System, params map[string]*params.Resolved) *Resolver {
	return &Resolver{catalog: catalog, system: system, params: params}
}

// Resolve parses and resolves a reference.
func (r *Resolver) Resolve(ref string) (*Signal, error) {
	parsed, err := Parse(ref)
	if err != nil {
		return nil, err
	}
	s, err := r.ResolveRef(parsed)
	if err != nil {
		return nil, fmt.Errorf("reference %q: %w", ref, err)
	}
	s.Ref = ref
	return s, nil
}

// Name resolves a reference and returns only its HDL name.
func (r *Resolver) Name(ref string) (string, error) {
	s, err := r.Resolve(ref)
	if err != nil {
		return "", err
	}
	return s.Name, nil
}

// ResolveRef resolves a parsed reference.
func (r *Resolver) ResolveRef(ref Ref) (*Signal, error) {
	s, err := r.resolve(ref)
	if err != nil {
		return nil, err
	}
	s.Ref = ref.String()
	s.Namespace = ref.Namespace()
	return s, nil
}

func (r *Resolver) resolve(ref Ref) (*Signal, error) {
	switch ref := ref.(type) {
	case NumeralRef:
		return scalar(ref.Value), nil
	case ConstantRef:
		return scalar(ref.Value), nil
	case CustomRef:
		s := scalar("custom_" + ref.Name)
		s.Signal = ref.Name
		return s, nil
	case ParameterRef:
		if _, ok := r.system.Instances.Get(ref.Instance); !ok {
			return nil, fmt.Errorf("%w: unknown instance %q", model.ErrSchema, ref.Instance)
		}
		return scalar(ParameterName(ref.Instance, ref.Param)), nil
	case SystemRef:
		return r.resolveSystem(ref)
	case BoardRef:
		return r.resolveBoard(ref)
	case ModuleRef:
		return r.resolveModule(ref)
	case InternalRef:
		inner, err := r.ResolveRef(ref.Inner)
		if err != nil {
			return nil, err
		}
		s := *inner
		s.Name = "internal_" + inner.Name
		return &s, nil
	case BusContentionRef:
		target, err := r.resolveModule(ref.Target)
		if err != nil {
			return nil, err
		}
		if target.IsInterface() {
			return nil, fmt.Errorf("%w: bus contention needs a signal, %s is an interface", model.ErrSchema, ref.Target)
		}
		s := *target
		s.Name = "bus_contention_" + ref.Handshake + "_" + target.Name
		return &s, nil
	default:
		return nil, fmt.Errorf("%w: unsupported reference %T", model.ErrSchema, ref)
	}
}

// scalar is a GENERAL, SOURCE signal whose name is also its signal.
func scalar(name string) *Signal {
	return &Signal{Name: name, Signal: name, Direction: model.Source, InterfaceType: model.General}
}

// ParameterName is the header name of an instance parameter.
func ParameterName(instance, param string) string {
	return "PARAMETER_" + strings.ToUpper(instance) + "_" + param
}

// resolveSystem looks a dotted path up in the system document. 0x-prefixed
// values become sized Verilog hex literals, 4 bits per digit.
func (r *Resolver) resolveSystem(ref SystemRef) (*Signal, error) {
	v, ok := r.system.Doc.Lookup(ref.Path...)
	if !ok || !v.IsScalar() {
		return nil, fmt.Errorf("%w: system has no value at %s", model.ErrSchema, strings.Join(ref.Path, "."))
	}
	name := v.Text()
	if digits, ok := strings.CutPrefix(name, "0x"); ok && digits != "" {
		n, ok := new(big.Int).SetString(digits, 16)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not a hex literal", model.ErrSchema, name)
		}
		hex := n.Text(16)
		if len(hex) < len(digits) {
			hex = strings.Repeat("0", len(digits)-len(hex)) + hex
		}
		name = fmt.Sprintf("%d'h%s", 4*len(digits), hex)
	}
	return scalar(name), nil
}

func ioDirection(d model.Direction) string {
	switch d {
	case model.Source:
		return "input"
	case model.Sink:
		return "output"
	default:
		return "inout"
	}
}

func (r *Resolver) resolveBoard(ref BoardRef) (*Signal, error) {
	io, err := r.catalog.Board.Port(ref.Port)
	if err != nil {
		return nil, err
	}
	s := &Signal{
		Name:          ref.Port,
		Direction:     io.Direction,
		InterfaceType: io.InterfaceType,
		Interface:     ref.Port,
	}
	switch {
	case io.HasWidth:
		s.Width = io.Width
		s.Signal = ref.Port
		s.IODirection = ioDirection(s.Direction)
	case ref.Signal != "":
		width, ok := io.Signals.Get(ref.Signal)
		if !ok {
			return nil, fmt.Errorf("%w: signal %q is not a valid external io port", model.ErrSchema, ref.Signal)
		}
		proto, err := r.catalog.Definitions.Protocol(io.InterfaceType)
		if err != nil {
			return nil, err
		}
		if s.Direction, err = Direction(proto, io.Direction, ref.Signal); err != nil {
			return nil, err
		}
		s.Signal = ref.Signal
		s.Width = width
		s.IODirection = ioDirection(s.Direction)
		s.Name += "_" + ref.Signal
	}
	return s, nil
}

func (r *Resolver) resolveModule(ref ModuleRef) (*Signal, error) {
	inst, ok := r.system.Instances.Get(ref.Instance)
	if !ok {
		return nil, fmt.Errorf("%w: unknown instance %q", model.ErrSchema, ref.Instance)
	}
	module, err := r.catalog.Module(inst.Module)
	if err != nil {
		return nil, err
	}
	iface, err := module.Interface(ref.Interface)
	if err != nil {
		return nil, err
	}
	s := &Signal{
		Name:          "module_" + ref.Instance + "_" + ref.Interface,
		Direction:     iface.Direction,
		InterfaceType: iface.Type,
		Instance:      ref.Instance,
		Interface:     ref.Interface,
	}

	switch iface.Type {
	case model.General, model.Clock:
		if ref.Signal != "" {
			return nil, fmt.Errorf("%w: %s interface %q has no signal %q", model.ErrSchema, iface.Type, ref.Interface, ref.Signal)
		}
		s.Signal = ref.Interface
		s.Width = "1"
		if iface.Type == model.General {
			s.Width = r.width(ref.Instance, iface.Width)
		}
		return s, nil
	}

	proto, err := r.catalog.Definitions.Protocol(iface.Type)
	if err != nil {
		return nil, err
	}
	if ref.Signal == "" {
		return s, nil
	}
	if s.Direction, err = Direction(proto, iface.Direction, ref.Signal); err != nil {
		return nil, err
	}
	width, _ := proto.Widths.Get(ref.Signal)
	if !IsNumeral(width) {
		field, ok := iface.Field(width)
		if !ok {
			return nil, fmt.Errorf("%w: interface %q has no %s for the width of %q", model.ErrSchema, ref.Interface, width, ref.Signal)
		}
		width = field.Text()
	}
	s.Signal = ref.Signal
	s.Name += "_" + ref.Signal
	s.Width = r.width(ref.Instance, width)
	return s, nil
}

// width substitutes instance parameter names in a width. A single name
// becomes the parameter's header name; an expression has each named token
// substituted and is parenthesised.
func (r *Resolver) width(instance, width string) string {
	has := func(name string) bool {
		p, ok := r.params[instance]
		if !ok {
			return false
		}
		_, ok = p.Get(name)
		return ok
	}
	if has(width) {
		return ParameterName(instance, width)
	}
	if !strings.Contains(width, " ") {
		return width
	}
	tokens := strings.Split(width, " ")
	for i, t := range tokens {
		if has(t) {
			tokens[i] = ParameterName(instance, t)
		}
	}
	return "(" + strings.Join(tokens, " ") + ")"
}

// Direction derives the direction of a protocol signal on an interface.
//
// The signal's origin comes from the first handshake it takes part in: a
// READY is driven by the responder, VALID and FRAME signals by the
// initiator of the handshake. Signals in no handshake fall back to the
// passive REQUEST/RESPONSE lists, and to BIDIR outside both. The origin
// then holds on a SOURCE interface and flips on a SINK interface.
func Direction(proto *model.Protocol, ifaceDir model.Direction, sig string) (model.Direction, error) {
	if !proto.Widths.Has(sig) {
		return "", fmt.Errorf("%w: the signal %q does not exist in interface %q", model.ErrSchema, sig, proto.Name)
	}

	var origin model.Direction
	for _, h := range proto.Handshakes.All() {
		initiator, responder := model.Source, model.Sink
		if h.Direction != model.Request {
			initiator, responder = model.Sink, model.Source
		}
		if sig == h.Ready {
			origin = responder
		} else if sig == h.Valid || slices.Contains(h.Frame, sig) {
			origin = initiator
		}
		if origin != "" {
			break
		}
	}
	if origin == "" && proto.Passive != nil {
		switch {
		case slices.Contains(proto.Passive.Request, sig):
			origin = model.Source
		case slices.Contains(proto.Passive.Response, sig):
			origin = model.Sink
		default:
			origin = model.Bidir
		}
	}
	if origin == "" {
		return "", fmt.Errorf("%w: the direction of signal %q in interface %q could not be determined", model.ErrSchema, sig, proto.Name)
	}

	switch {
	case origin == model.Bidir:
		return model.Bidir, nil
	case ifaceDir == model.Source:
		return origin, nil
	case ifaceDir == model.Sink:
		return origin.Flip(), nil
	default:
		return "", fmt.Errorf("%w: protocol signal %q on a %s interface has no direction", model.ErrSchema, sig, ifaceDir)
	}
}
