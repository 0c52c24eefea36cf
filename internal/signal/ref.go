package signal

import (
	"fmt"
	"strings"

	"github.com/vk/socforge/internal/model"
)

// Namespace is the first segment of a reference.
type Namespace string

const (
	Constant      Namespace = "CONSTANT"
	Custom        Namespace = "CUSTOM"
	Parameter     Namespace = "PARAMETER"
	Board         Namespace = "BOARD"
	Module        Namespace = "MODULE"
	Internal      Namespace = "INTERNAL"
	System        Namespace = "SYSTEM"
	BusContention Namespace = "BUSCONTENTION"

	// Numeral is the pseudo namespace of bare numbers.
	Numeral Namespace = ""
)

// Ref is a parsed reference. The concrete types are ConstantRef, CustomRef,
// ParameterRef, BoardRef, ModuleRef, InternalRef, SystemRef,
// BusContentionRef and NumeralRef.
type Ref interface {
	Namespace() Namespace
	String() string
}

type ConstantRef struct{ Value string }

type CustomRef struct{ Name string }

type ParameterRef struct{ Instance, Param string }

// BoardRef names a board port, or one signal of a bundle port.
type BoardRef struct{ Port, Signal string }

// ModuleRef names an instance interface, or one protocol signal of it.
type ModuleRef struct{ Instance, Interface, Signal string }

// InternalRef wraps a CUSTOM, BOARD or MODULE reference.
type InternalRef struct{ Inner Ref }

// SystemRef is a path into the system document.
type SystemRef struct{ Path []string }

// BusContentionRef is the private copy one handshake drives of a contended
// module signal.
type BusContentionRef struct {
	Handshake string
	Target    ModuleRef
}

type NumeralRef struct{ Value string }

func (ConstantRef) Namespace() Namespace { return Constant }
func (CustomRef) Namespace() Namespace { return Custom }
func (ParameterRef) Namespace() Namespace { return Parameter }
func (BoardRef) Namespace() Namespace { return Board }
func (ModuleRef) Namespace() Namespace { return Module }
func (InternalRef) Namespace() Namespace { return Internal }
func (SystemRef) Namespace() Namespace { return System }
func (BusContentionRef) Namespace() Namespace { return BusContention }
func (NumeralRef) Namespace() Namespace { return Numeral }

func (r ConstantRef) String() string { return join(Constant, r.Value) }
func (r CustomRef) String() string { return join(Custom, r.Name) }
func (r ParameterRef) String() string { return join(Parameter, r.Instance, r.Param) }
func (r BoardRef) String() string { return join(Board, r.Port, r.Signal) }
func (r ModuleRef) String() string { return join(Module, r.Instance, r.Interface, r.Signal) }
func (r InternalRef) String() string { return string(Internal) + ":" + r.Inner.String() }
func (r SystemRef) String() string { return join(System, strings.Join(r.Path, ".")) }
func (r BusContentionRef) String() string {
	return string(BusContention) + ":" + r.Handshake + ":" + r.Target.String()
}
func (r NumeralRef) String() string { return r.Value }

// join renders namespace:seg..., dropping empty trailing segments.
func join(ns Namespace, segs ...string) string {
	for len(segs) > 0 && segs[len(segs)-1] == "" {
		segs = segs[:len(segs)-1]
	}
	return strings.Join(append([]string{string(ns)}, segs...), ":")
}

// IsNumeral reports whether s is a non-empty run of decimal digits.
func IsNumeral(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Parse parses a reference.
func Parse(s string) (Ref, error) {
	if IsNumeral(s) {
		return NumeralRef{Value: s}, nil
	}
	segs := strings.Split(s, ":")
	ref, err := parseSegments(segs)
	if err != nil {
		return nil, fmt.Errorf("reference %q: %w", s, err)
	}
	return ref, nil
}

func parseSegments(segs []string) (Ref, error) {
	ns := Namespace(segs[0])
	args := segs[1:]
	arity := func(lo, hi int) error {
		if len(args) < lo || len(args) > hi {
			return fmt.Errorf("%w: %s takes %d to %d segments, got %d", model.ErrSchema, ns, lo, hi, len(args))
		}
		for _, a := range args {
			if a == "" {
				return fmt.Errorf("%w: empty segment", model.ErrSchema)
			}
		}
		return nil
	}

	switch ns {
	case Constant:
		if len(args) == 0 || args[0] == "" {
			return nil, fmt.Errorf("%w: CONSTANT needs a value", model.ErrSchema)
		}
		return ConstantRef{Value: args[0]}, nil
	case Custom:
		if err := arity(1, 1); err != nil {
			return nil, err
		}
		return CustomRef{Name: args[0]}, nil
	case Parameter:
		if err := arity(2, 2); err != nil {
			return nil, err
		}
		return ParameterRef{Instance: args[0], Param: args[1]}, nil
	case Board:
		if err := arity(1, 2); err != nil {
			return nil, err
		}
		r := BoardRef{Port: args[0]}
		if len(args) == 2 {
			r.Signal = args[1]
		}
		return r, nil
	case Module:
		return parseModule(args)
	case Internal:
		if len(args) == 0 {
			return nil, fmt.Errorf("%w: INTERNAL needs a reference", model.ErrSchema)
		}
		switch Namespace(args[0]) {
		case Custom, Board, Module:
		default:
			return nil, fmt.Errorf("%w: %q is not a valid namespace for internal signals", model.ErrSchema, args[0])
		}
		inner, err := parseSegments(args)
		if err != nil {
			return nil, err
		}
		return InternalRef{Inner: inner}, nil
	case System:
		if err := arity(1, 1); err != nil {
			return nil, err
		}
		return SystemRef{Path: strings.Split(args[0], ".")}, nil
	case BusContention:
		if len(args) < 2 || args[0] == "" || Namespace(args[1]) != Module {
			return nil, fmt.Errorf("%w: BUSCONTENTION takes a handshake and a MODULE reference", model.ErrSchema)
		}
		target, err := parseModule(args[2:])
		if err != nil {
			return nil, err
		}
		return BusContentionRef{Handshake: args[0], Target: target}, nil
	default:
		return nil, fmt.Errorf("%w: %q is not a valid namespace", model.ErrSchema, segs[0])
	}
}

func parseModule(args []string) (ModuleRef, error) {
	if len(args) < 2 || len(args) > 3 {
		return ModuleRef{}, fmt.Errorf("%w: MODULE takes 2 to 3 segments, got %d", model.ErrSchema, len(args))
	}
	for _, a := range args {
		if a == "" {
			return ModuleRef{}, fmt.Errorf("%w: empty segment", model.ErrSchema)
		}
	}
	r := ModuleRef{Instance: args[0], Interface: args[1]}
	if len(args) == 3 {
		r.Signal = args[2]
	}
	return r, nil
}
