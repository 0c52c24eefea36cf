package interconnect

import (
	"fmt"
	"strings"

	"github.com/vk/socforge/internal/model"
	"github.com/vk/socforge/internal/signal"
)

// chain renders a prioritized selection: the first matching select wins and
// the chain falls through to 0.
type chain struct {
	b    strings.Builder
	open int
}

func newChain(target string) *chain {
	c := &chain{}
	c.b.WriteString("assign " + target + " = ")
	return c
}

func (c *chain) add(sel, value, sep string) {
	c.b.WriteString(sel + " ? " + value + sep)
	c.open++
}

func (c *chain) String() string {
	return c.b.String() + "0" + strings.Repeat(")", c.open) + ";"
}

// assignValid drives the valid and frame signals of every sink interface
// from the sources selected for it.
func (r *resolver) assignValid() error {
	for ref, byHandshake := range r.sinks.All() {
		ep, err := r.endpoint(ref)
		if err != nil {
			return err
		}
		for name, links := range byHandshake.All() {
			h, ok := ep.handshakes.Get(name)
			if !ok {
				continue
			}
			if h.valid != "" && !signal.IsNumeral(h.valid) {
				if err := r.assignValidChain(h, links); err != nil {
					return err
				}
			}
			if len(h.frame) > 0 {
				if err := r.assignFrameChain(h, links); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (r *resolver) assignValidChain(h *handshake, links []link) error {
	target, err := r.signals.Name(h.valid)
	if err != nil {
		return err
	}
	c := newChain(target)
	for _, l := range links {
		peer, ok := r.peerHandshake(l.peer, h.name)
		if !ok {
			continue
		}
		v, err := r.slotName(peer.valid, "VALID", l.peer, h.name)
		if err != nil {
			return err
		}
		c.add(l.sel, v, " :\n\t(")
	}
	r.net.Valid = append(r.net.Valid, c.String())
	r.net.Drivers = append(r.net.Drivers, Driver{Wire: target, Source: h.name + " valid select", Kind: Select})
	return nil
}

func (r *resolver) assignFrameChain(h *handshake, links []link) error {
	targets, err := r.names(h.frame)
	if err != nil {
		return err
	}
	c := newChain("{" + strings.Join(targets, ",") + "}")
	for _, l := range links {
		peer, ok := r.peerHandshake(l.peer, h.name)
		if !ok {
			continue
		}
		frame, err := r.names(peer.frame)
		if err != nil {
			return err
		}
		c.add(l.sel, " {"+strings.Join(frame, ",")+"}", " :\n\t(")
	}
	r.net.Valid = append(r.net.Valid, c.String())
	for _, t := range targets {
		r.net.Drivers = append(r.net.Drivers, Driver{Wire: t, Source: h.name + " frame select", Kind: Select})
	}
	return nil
}

// assignReady drives the ready signal of every module source interface
// from the sinks it feeds.
func (r *resolver) assignReady() error {
	for ref, byHandshake := range r.sources.All() {
		ep, err := r.endpoint(ref)
		if err != nil {
			return err
		}
		for name, links := range byHandshake.All() {
			h, ok := ep.handshakes.Get(name)
			if !ok || h.ready == "" || signal.IsNumeral(h.ready) {
				continue
			}
			target, err := r.signals.Name(h.ready)
			if err != nil {
				return err
			}
			c := newChain(target)
			for _, l := range links {
				peer, ok := r.peerHandshake(l.peer, name)
				if !ok {
					continue
				}
				v, err := r.slotName(peer.ready, "READY", l.peer, name)
				if err != nil {
					return err
				}
				c.add(l.sel, v, " :\n\t (")
			}
			r.net.Ready = append(r.net.Ready, c.String())
			r.net.Drivers = append(r.net.Drivers, Driver{Wire: target, Source: name + " ready select", Kind: Select})
		}
	}
	return nil
}

func (r *resolver) peerHandshake(ref, name string) (*handshake, bool) {
	ep, ok := r.endpoints.Get(ref)
	if !ok {
		return nil, false
	}
	return ep.handshakes.Get(name)
}

// slotName is the name a peer contributes to a chain. Numerals are used as
// they are; an absent signal cannot feed a chain.
func (r *resolver) slotName(slot, role, peer, hs string) (string, error) {
	if slot == "" {
		return "", fmt.Errorf("%w: handshake %s of interface %s has no %s signal", model.ErrSchema, hs, peer, role)
	}
	return r.signals.Name(slot)
}

func (r *resolver) names(refs []string) ([]string, error) {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		n, err := r.signals.Name(ref)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
