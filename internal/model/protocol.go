// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"fmt"
	"slices"

	"github.com/vk/socforge/internal/config"
	"github.com/vk/socforge/internal/ordered"
)

// passiveHandshake is the handshake key listing signals that belong to no
// VALID/READY exchange.
const passiveHandshake = "NONE"

// Handshake is one request/response exchange of a protocol. Empty Valid or
// Ready means the role has no signal.
type Handshake struct {
	Name      string
	Direction string
	Valid     string
	Ready     string
	Frame     []string
}

// PassiveSignals lists protocol signals with a fixed role outside any
// handshake. Signals in neither list are bidirectional.
type PassiveSignals struct {
	Request  []string
	Response []string
}

// Rule resolves contention between an exact set of handshakes.
type Rule struct {
	Handshakes []string
	Resolution string
}

// Protocol is a bus convention from the definitions catalog.
type Protocol struct {
	Name string
	// Widths maps each protocol signal, in declaration order, to a width: a
	// number, a parameter name, or the name of an interface field.
	Widths     *ordered.Map[string]
	Handshakes *ordered.Map[*Handshake]
	// Passive is nil when the protocol has no NONE entry.
	Passive       *PassiveSignals
	BusContention map[string][]Rule
}

// Signals returns the protocol's signal names in declaration order.
func (p *Protocol) Signals() []string {
	return p.Widths.Keys()
}

// Definitions is the protocol and intrinsic catalog.
type Definitions struct {
	Protocols  map[string]*Protocol
	Intrinsics map[string]string
}

// Protocol looks up a protocol by name.
func (d *Definitions) Protocol(name string) (*Protocol, error) {
	p, ok := d.Protocols[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a valid interface type", ErrSchema, name)
	}
	return p, nil
}

// DecodeDefinitions decodes the definitions catalog.
func DecodeDefinitions(doc *config.Value) (*Definitions, error) {
	defs := &Definitions{
		Protocols:  make(map[string]*Protocol),
		Intrinsics: make(map[string]string),
	}
	protocols, err := table(doc, "PROTOCOLS")
	if err != nil {
		return nil, err
	}
	for name, raw := range protocols.Map.All() {
		p, err := decodeProtocol(name, raw)
		if err != nil {
			return nil, fmt.Errorf("protocol %q: %w", name, err)
		}
		defs.Protocols[name] = p
	}
	intrinsics, err := table(doc, "INTRINSICS")
	if err != nil {
		return nil, err
	}
	for name, tmpl := range intrinsics.Map.All() {
		defs.Intrinsics[name] = tmpl.Text()
	}
	return defs, nil
}

func decodeProtocol(name string, raw *config.Value) (*Protocol, error) {
	p := &Protocol{
		Name:          name,
		Widths:        ordered.New[string](),
		Handshakes:    ordered.New[*Handshake](),
		BusContention: make(map[string][]Rule),
	}
	widths, err := table(raw, "WIDTHS")
	if err != nil {
		return nil, err
	}
	for sig, w := range widths.Map.All() {
		p.Widths.Set(sig, w.Text())
	}

	handshakes, err := table(raw, "HANDSHAKES")
	if err != nil {
		return nil, err
	}
	for hsName, hs := range handshakes.Map.All() {
		if hsName == passiveHandshake {
			p.Passive = &PassiveSignals{}
			if p.Passive.Request, err = texts(hs, Request); err != nil {
				return nil, err
			}
			if p.Passive.Response, err = texts(hs, Response); err != nil {
				return nil, err
			}
			continue
		}
		h := &Handshake{
			Name:      hsName,
			Direction: text(hs, "DIRECTION"),
			Valid:     text(hs, "VALID"),
			Ready:     text(hs, "READY"),
		}
		if h.Direction != Request && h.Direction != Response {
			return nil, fmt.Errorf("%w: handshake %q has direction %q", ErrSchema, hsName, h.Direction)
		}
		if h.Frame, err = texts(hs, "FRAME"); err != nil {
			return nil, err
		}
		p.Handshakes.Set(hsName, h)
	}

	contention, err := table(raw, "BUS_CONTENTION")
	if err != nil {
		return nil, err
	}
	for sig, rules := range contention.Map.All() {
		if !rules.IsList() {
			return nil, fmt.Errorf("%w: BUS_CONTENTION.%s must be a list of rules", ErrSchema, sig)
		}
		for _, r := range rules.List {
			hs, err := texts(r, "HANDSHAKES")
			if err != nil {
				return nil, err
			}
			for i, h := range hs {
				if slices.Contains(hs[:i], h) {
					return nil, fmt.Errorf("%w: BUS_CONTENTION.%s lists handshake %q twice", ErrSchema, sig, h)
				}
			}
			p.BusContention[sig] = append(p.BusContention[sig], Rule{Handshakes: hs, Resolution: text(r, "RESOLUTION")})
		}
	}
	return p, nil
}
