package interconnect

import (
	"fmt"
	"slices"
	"strings"

	"github.com/vk/socforge/internal/model"
	"github.com/vk/socforge/internal/ordered"
	"github.com/vk/socforge/internal/signal"
)

// slots returns pointers to the references of a handshake that take part
// in one contention pass.
type slots func(h *handshake) []*string

// validAndFrame are the slots a sink interface receives.
func validAndFrame(h *handshake) []*string {
	var out []*string
	if h.valid != "" && !signal.IsNumeral(h.valid) {
		out = append(out, &h.valid)
	}
	for i := range h.frame {
		if h.frame[i] != "" && !signal.IsNumeral(h.frame[i]) {
			out = append(out, &h.frame[i])
		}
	}
	return out
}

// readySlot is the slot a source interface receives.
func readySlot(h *handshake) []*string {
	if h.ready == "" || signal.IsNumeral(h.ready) {
		return nil
	}
	return []*string{&h.ready}
}

// detectContention replaces every signal that several handshakes of one
// interface drive with a per-handshake BUSCONTENTION alias. Valid and frame
// are checked on sink interfaces, ready on source interfaces.
func (r *resolver) detectContention() error {
	for ref, byHandshake := range r.sinks.All() {
		if err := r.contend(ref, byHandshake.Keys(), validAndFrame); err != nil {
			return err
		}
	}
	for ref, byHandshake := range r.sources.All() {
		if err := r.contend(ref, byHandshake.Keys(), readySlot); err != nil {
			return err
		}
	}
	return nil
}

func (r *resolver) contend(ref string, names []string, pick slots) error {
	ep, err := r.endpoint(ref)
	if err != nil {
		return err
	}
	seen := ordered.New[[]string]()
	for _, name := range names {
		h, ok := ep.handshakes.Get(name)
		if !ok {
			continue
		}
		for _, s := range pick(h) {
			users, _ := seen.Get(*s)
			if slices.Contains(users, name) {
				return fmt.Errorf("%w: handshake %s of interface %s has multiple assignments to the same signal: %s", model.ErrSchema, name, ref, *s)
			}
			seen.Set(*s, append(users, name))
		}
	}

	for sig, users := range seen.All() {
		if len(users) < 2 {
			continue
		}
		bySignal, ok := r.contended.Get(ref)
		if !ok {
			bySignal = ordered.New[[]string]()
			r.contended.Set(ref, bySignal)
		}
		bySignal.Set(sig, users)

		for _, name := range users {
			h, _ := ep.handshakes.Get(name)
			for _, s := range pick(h) {
				if *s != sig {
					continue
				}
				*s = "BUSCONTENTION:" + name + ":" + sig
				_, decl, err := r.declare(*s)
				if err != nil {
					return err
				}
				r.net.Contention = append(r.net.Contention, decl)
			}
		}
	}
	return nil
}

// resolveContention emits the protocol rule combining the aliases of every
// contended signal. The rule must name exactly the contending handshakes.
func (r *resolver) resolveContention() error {
	for ref, bySignal := range r.contended.All() {
		for sig, users := range bySignal.All() {
			line, err := r.resolution(ref, sig, users)
			if err != nil {
				return err
			}
			r.net.Contention = append(r.net.Contention, line)
		}
	}
	return nil
}

func (r *resolver) resolution(iface, sig string, users []string) (string, error) {
	s, err := r.signals.Resolve(sig)
	if err != nil {
		return "", err
	}
	proto, err := r.catalog.Definitions.Protocol(s.InterfaceType)
	if err != nil {
		return "", err
	}
	rules, ok := proto.BusContention[s.Signal]
	if !ok {
		return "", fmt.Errorf("%w: no rules found for resolving bus contention for the signal %s in the protocol %s", model.ErrResolution, s.Signal, proto.Name)
	}
	var text string
	for _, rule := range rules {
		if sameSet(rule.Handshakes, users) {
			text = rule.Resolution
			break
		}
	}
	if text == "" {
		return "", fmt.Errorf("%w: no rule resolves bus contention for the signal %s between handshakes %v in the protocol %s", model.ErrResolution, s.Signal, users, proto.Name)
	}

	vars, err := placeholders(text)
	if err != nil {
		return "", err
	}
	for _, v := range vars {
		ref := iface + ":" + v
		if hs, name, found := strings.Cut(v, ":"); found {
			ref = "BUSCONTENTION:" + hs + ":" + iface + ":" + name
		}
		name, err := r.signals.Name(ref)
		if err != nil {
			return "", fmt.Errorf("bus contention rule for %s: %w", s.Signal, err)
		}
		text = strings.ReplaceAll(text, "%{"+v+"}", name)
	}

	r.net.Drivers = append(r.net.Drivers, Driver{Wire: s.Name, Source: strings.Join(users, ","), Kind: Resolution})
	return text, nil
}

// sameSet reports whether a and b hold the same names, ignoring order.
func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	x, y := slices.Clone(a), slices.Clone(b)
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(x, y)
}

// placeholders returns the names of the %{...} placeholders of a
// resolution template in order.
func placeholders(text string) ([]string, error) {
	const (
		literal = iota
		percent
		inside
	)
	var (
		vars  []string
		name  strings.Builder
		state = literal
	)
	for _, c := range text {
		switch {
		case state == literal && c == '%':
			state = percent
		case state == literal:
		case state == percent && c == '{':
			state = inside
		case state == inside && c == '}':
			vars = append(vars, name.String())
			name.Reset()
			state = literal
		case state == inside:
			name.WriteRune(c)
		default:
			return nil, fmt.Errorf("%w: incorrect formatting for bus contention resolution rule: %s", model.ErrResolution, text)
		}
	}
	if state != literal {
		return nil, fmt.Errorf("%w: incorrect formatting for bus contention resolution rule: %s", model.ErrResolution, text)
	}
	return vars, nil
}
