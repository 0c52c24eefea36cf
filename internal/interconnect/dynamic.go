package interconnect

import (
	"fmt"
	"strings"

	"github.com/vk/socforge/internal/model"
	"github.com/vk/socforge/internal/ordered"
	"github.com/vk/socforge/internal/signal"
)

// always is the group select of an interface with at most one group.
const always = "1'b1"

// endpoint is a dynamic interface and the handshakes it takes part in.
type endpoint struct {
	ref        string
	dynamic    *model.Dynamic
	handshakes *ordered.Map[*handshake]
}

// handshake holds the references of one handshake on one interface. Valid
// and ready are references, numerals or empty; contention may replace
// them with BUSCONTENTION aliases.
type handshake struct {
	name string
	// role is SINK when the interface receives valid and frame.
	role  model.Direction
	valid string
	ready string
	frame []string
}

// link is one (select expression, peer interface) pair of a connectivity
// list.
type link struct {
	sel  string
	peer string
}

// qualify prefixes a protocol signal with its interface reference.
func qualify(ref, sig string) string {
	if sig == "" || signal.IsNumeral(sig) {
		return sig
	}
	return ref + ":" + sig
}

func (r *resolver) buildEndpoints() error {
	for ref, d := range r.system.Dynamic.All() {
		iface, err := r.signals.Resolve(ref)
		if err != nil {
			return err
		}
		if !iface.IsInterface() || iface.InterfaceType == model.General || iface.InterfaceType == model.Clock {
			return fmt.Errorf("%w: dynamic interface %s is not a protocol interface", model.ErrSchema, ref)
		}
		if iface.Direction == model.Bidir {
			return fmt.Errorf("%w: dynamic interface %s must be a SOURCE or a SINK", model.ErrSchema, ref)
		}
		proto, err := r.catalog.Definitions.Protocol(iface.InterfaceType)
		if err != nil {
			return err
		}

		ep := &endpoint{ref: ref, dynamic: d, handshakes: ordered.New[*handshake]()}
		for _, name := range d.Handshakes {
			h, ok := proto.Handshakes.Get(name)
			if !ok {
				return fmt.Errorf("%w: protocol %q has no handshake %q (interface %s)", model.ErrSchema, proto.Name, name, ref)
			}
			hs := &handshake{
				name:  name,
				role:  iface.Direction,
				valid: qualify(ref, h.Valid),
				ready: qualify(ref, h.Ready),
			}
			if h.Direction == model.Response {
				hs.role = hs.role.Flip()
			}
			for _, f := range h.Frame {
				hs.frame = append(hs.frame, qualify(ref, f))
			}
			ep.handshakes.Set(name, hs)
		}
		r.endpoints.Set(ref, ep)
	}
	return nil
}

func (r *resolver) endpoint(ref string) (*endpoint, error) {
	ep, ok := r.endpoints.Get(ref)
	if !ok {
		return nil, fmt.Errorf("%w: interface %s has no dynamic interconnect entry", model.ErrSchema, ref)
	}
	return ep, nil
}

// connectSinks lists, for every handshake an interface receives, the
// peers that may drive it and the condition selecting each.
func (r *resolver) connectSinks() error {
	for ref, ep := range r.endpoints.All() {
		byHandshake := ordered.New[[]link]()
		r.sinks.Set(ref, byHandshake)
		for name, hs := range ep.handshakes.All() {
			if hs.role != model.Sink {
				continue
			}
			links, err := r.sinkLinks(ep, name)
			if err != nil {
				return fmt.Errorf("interface %s handshake %s: %w", ref, name, err)
			}
			byHandshake.Set(name, links)
		}
	}
	return nil
}

func (r *resolver) sinkLinks(ep *endpoint, hs string) ([]link, error) {
	groupSel, err := groupSelect(ep.dynamic)
	if err != nil {
		return nil, err
	}
	var links []link
	for _, g := range ep.dynamic.Groups {
		sel, err := r.selectTerm(groupSel, g)
		if err != nil {
			return nil, err
		}
		switch g.Type {
		case model.OneToOne:
			peer, err := r.endpoint(g.Interface)
			if err != nil {
				return nil, err
			}
			back, err := r.backLinks(ep.ref, hs, sel, peer)
			if err != nil {
				return nil, err
			}
			links = append(links, back...)
		case model.OneToMany:
			addr, err := selectSignal(g, hs, ep.ref)
			if err != nil {
				return nil, err
			}
			for _, entry := range g.AddressMap {
				window, err := r.window(addr, entry.Region)
				if err != nil {
					return nil, err
				}
				peer, err := r.endpoint(entry.Peer)
				if err != nil {
					return nil, err
				}
				back, err := r.backLinks(ep.ref, hs, sel+window, peer)
				if err != nil {
					return nil, err
				}
				links = append(links, back...)
			}
		default:
			return nil, fmt.Errorf("%w: unsupported interconnect type %q", model.ErrPolicy, g.Type)
		}
	}
	return links, nil
}

// backLinks follows the groups of peer that point back at sink. A
// ONE_TO_ONE group adds the peer's own group selection; a ONE_TO_MANY group
// adds one address window per ADDRESS_MAP entry naming sink.
func (r *resolver) backLinks(sink, hs, sel string, peer *endpoint) ([]link, error) {
	peerSel, err := groupSelect(peer.dynamic)
	if err != nil {
		return nil, err
	}
	var links []link
	for _, g := range peer.dynamic.Groups {
		switch g.Type {
		case model.OneToOne:
			if g.Interface != sink {
				continue
			}
			s := sel
			if peerSel != always {
				name, err := r.signals.Name(peerSel)
				if err != nil {
					return nil, err
				}
				s += " && (" + name + " == " + g.SelectValue + ") "
			}
			links = append(links, link{sel: s, peer: peer.ref})
		case model.OneToMany:
			addr, err := selectSignal(g, hs, peer.ref)
			if err != nil {
				return nil, err
			}
			for _, entry := range g.AddressMap {
				if entry.Peer != sink {
					continue
				}
				window, err := r.window(addr, entry.Region)
				if err != nil {
					return nil, err
				}
				links = append(links, link{sel: sel + window, peer: peer.ref})
			}
		default:
			return nil, fmt.Errorf("%w: unsupported interconnect type %q", model.ErrPolicy, g.Type)
		}
	}
	return links, nil
}

// groupSelect returns the GROUP_SELECT reference, or always when the
// interface has a single group.
func groupSelect(d *model.Dynamic) (string, error) {
	if len(d.Groups) <= 1 {
		return always, nil
	}
	if d.GroupSelect == "" {
		return "", fmt.Errorf("%w: interface %s has %d groups but no GROUP_SELECT", model.ErrSchema, d.Interface, len(d.Groups))
	}
	return d.GroupSelect, nil
}

func (r *resolver) selectTerm(groupSel string, g *model.Group) (string, error) {
	if groupSel == always {
		return "(" + always + ")", nil
	}
	name, err := r.signals.Name(groupSel)
	if err != nil {
		return "", err
	}
	return "(" + name + " == " + g.SelectValue + ")", nil
}

func selectSignal(g *model.Group, hs, owner string) (string, error) {
	sig := g.SelectSignal(hs)
	if sig == "" {
		return "", fmt.Errorf("%w: could not find a valid select signal for handshake %s for interface %s", model.ErrSchema, hs, owner)
	}
	return sig, nil
}

// window is the address qualifier " && (A >= O) && (A < (O+L))" of a
// region.
func (r *resolver) window(addr, region string) (string, error) {
	a, err := r.signals.Name(addr)
	if err != nil {
		return "", err
	}
	origin, err := r.signals.Name(region + ".ORIGIN")
	if err != nil {
		return "", err
	}
	length, err := r.signals.Name(region + ".LENGTH")
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(" && (" + a + " >= " + origin + ")")
	b.WriteString(" && (" + a + " < (" + origin + "+" + length + "))")
	return b.String(), nil
}

// connectSources inverts the sink lists for module interfaces: for every
// handshake a module interface drives, the sinks it feeds.
func (r *resolver) connectSources() error {
	for sink, byHandshake := range r.sinks.All() {
		for hs, links := range byHandshake.All() {
			for _, l := range links {
				if !strings.HasPrefix(l.peer, "MODULE:") {
					continue
				}
				bySource, ok := r.sources.Get(l.peer)
				if !ok {
					bySource = ordered.New[[]link]()
					r.sources.Set(l.peer, bySource)
				}
				existing, _ := bySource.Get(hs)
				bySource.Set(hs, append(existing, link{sel: l.sel, peer: sink}))
			}
		}
	}
	return nil
}
