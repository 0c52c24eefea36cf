package interconnect

import (
	"fmt"

	"github.com/vk/socforge/internal/model"
	"github.com/vk/socforge/internal/signal"
)

// wireStatic wires every STATIC group from its single SOURCE member.
// Signals are assigned directly; interfaces are assigned per protocol
// signal, each in its own direction.
func (r *resolver) wireStatic() error {
	for _, group := range r.system.Static {
		members := make([]*signal.Signal, 0, len(group))
		var sources []*signal.Signal
		for _, ref := range group {
			s, err := r.signals.Resolve(ref)
			if err != nil {
				return err
			}
			members = append(members, s)
			if s.Direction == model.Source {
				sources = append(sources, s)
			}
		}
		if len(sources) != 1 {
			reason := "no sources"
			if len(sources) > 1 {
				reason = "too many sources"
			}
			return fmt.Errorf("%w: the static connection %v is invalid - %s", model.ErrArity, group, reason)
		}
		src := sources[0]

		for _, sink := range members {
			if sink.Ref == src.Ref {
				continue
			}
			if err := r.wireMember(group, src, sink); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *resolver) wireMember(group []string, src, sink *signal.Signal) error {
	switch {
	case !src.IsInterface() && sink.IsInterface():
		return fmt.Errorf("%w: cannot connect a signal %s with an interface %s in interconnect %v", model.ErrSchema, src.Ref, sink.Ref, group)
	case src.IsInterface() && !sink.IsInterface():
		return fmt.Errorf("%w: cannot connect an interface %s with a signal %s in interconnect %v", model.ErrSchema, src.Ref, sink.Ref, group)
	case !src.IsInterface():
		r.assign(sink.Name, src.Name)
		return nil
	}

	if sink.InterfaceType != src.InterfaceType {
		return fmt.Errorf("%w: interface type mismatch between %s and %s in interconnect %v", model.ErrType, src.Ref, sink.Ref, group)
	}
	proto, err := r.catalog.Definitions.Protocol(src.InterfaceType)
	if err != nil {
		return err
	}
	for _, sig := range proto.Signals() {
		from, err := r.signals.Resolve(src.Ref + ":" + sig)
		if err != nil {
			return err
		}
		to, err := r.signals.Resolve(sink.Ref + ":" + sig)
		if err != nil {
			return err
		}
		if to.Direction != model.Source {
			r.assign(to.Name, from.Name)
			continue
		}
		// A response signal flows back from the sink, so only one sink may
		// carry it.
		if len(group) > 2 {
			return fmt.Errorf("%w: multiple SINK interfaces in %v have a SOURCE signal", model.ErrArity, group)
		}
		r.assign(from.Name, to.Name)
	}
	return nil
}

func (r *resolver) assign(to, from string) {
	r.net.Static = append(r.net.Static, "assign "+to+" = "+from+";")
	r.net.Drivers = append(r.net.Drivers, Driver{Wire: to, Source: from, Kind: Assign})
}
