// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"fmt"
	"strings"

	"github.com/vk/socforge/internal/config"
	"github.com/vk/socforge/internal/ordered"
)

// Interconnect topologies.
const (
	OneToOne  = "ONE_TO_ONE"
	OneToMany = "ONE_TO_MANY"
)

// Region is a named address window of an instance MAP.
type Region struct {
	Name   string
	Origin string
	Length string
}

// Instance is one element of the system graph.
type Instance struct {
	Name       string
	Module     string
	Parameters *config.Value
	Map        *ordered.Map[*Region]
	Memory     string
}

// HandshakeSelect names the address signal a ONE_TO_MANY group routes a
// handshake by.
type HandshakeSelect struct {
	Handshake string
	Signal    string
}

// AddressEntry maps a region reference to the peer interface behind it.
type AddressEntry struct {
	Region string
	Peer   string
}

// Group is one topology group of a dynamic interface.
type Group struct {
	Type         string
	Interface    string
	SelectValue  string
	HandshakeMap []HandshakeSelect
	AddressMap   []AddressEntry
}

// SelectSignal returns the address signal for handshake, or "" when the
// group does not route it. The last matching entry wins.
func (g *Group) SelectSignal(handshake string) string {
	sig := ""
	for _, hm := range g.HandshakeMap {
		if hm.Handshake == handshake {
			sig = hm.Signal
		}
	}
	return sig
}

// Dynamic is a dynamic interface entry keyed by its interface reference.
type Dynamic struct {
	Interface   string
	GroupSelect string
	Handshakes  []string
	Groups      []*Group
}

// Override rebinds an instance port reference.
type Override struct {
	From string
	To   string
}

// Intrinsic is one instantiation of a definitions intrinsic template.
type Intrinsic struct {
	Type   string
	Params *config.Value
}

// System is a system description.
type System struct {
	Name       string
	Path       string
	Boards     []string
	Instances  *ordered.Map[*Instance]
	Ports      []string
	Intrinsics []Intrinsic
	Static     [][]string
	Dynamic    *ordered.Map[*Dynamic]
	Overrides  []Override
	// Doc is the raw document, used for SYSTEM: lookups.
	Doc *config.Value
}

// DecodeSystem decodes a system description loaded from path.
func DecodeSystem(path string, doc *config.Value) (*System, error) {
	s := &System{
		Name:      text(doc, "DESCRIPTION", "NAME"),
		Path:      path,
		Instances: ordered.New[*Instance](),
		Dynamic:   ordered.New[*Dynamic](),
		Doc:       doc,
	}
	var err error
	if s.Boards, err = texts(doc, "REQUIREMENTS", "BOARDS"); err != nil {
		return nil, err
	}
	if s.Ports, err = texts(doc, "EXTERNAL_IO", "PORTS"); err != nil {
		return nil, err
	}

	insts, err := table(doc, "INSTANTIATIONS")
	if err != nil {
		return nil, err
	}
	for name, raw := range insts.Map.All() {
		inst, err := decodeInstance(name, raw)
		if err != nil {
			return nil, fmt.Errorf("instance %q: %w", name, err)
		}
		s.Instances.Set(name, inst)
	}

	intrinsics, err := table(doc, "INTRINSICS")
	if err != nil {
		return nil, err
	}
	for typ, list := range intrinsics.Map.All() {
		if !list.IsList() {
			return nil, fmt.Errorf("%w: INTRINSICS.%s must be a list", ErrSchema, typ)
		}
		for _, params := range list.List {
			if !params.IsMap() {
				return nil, fmt.Errorf("%w: INTRINSICS.%s entries must be tables", ErrSchema, typ)
			}
			s.Intrinsics = append(s.Intrinsics, Intrinsic{Type: typ, Params: params})
		}
	}

	if static, ok := doc.Lookup("INTERCONNECT", "STATIC"); ok && static.IsList() {
		for i, group := range static.List {
			refs, ok := group.Strings()
			if !ok {
				return nil, fmt.Errorf("%w: INTERCONNECT.STATIC[%d] must be a list of references", ErrSchema, i)
			}
			s.Static = append(s.Static, refs)
		}
	}

	dynamic, err := table(doc, "INTERCONNECT", "DYNAMIC")
	if err != nil {
		return nil, err
	}
	for ref, raw := range dynamic.Map.All() {
		d, err := decodeDynamic(ref, raw)
		if err != nil {
			return nil, fmt.Errorf("dynamic interface %q: %w", ref, err)
		}
		s.Dynamic.Set(ref, d)
	}

	if overrides, ok := doc.Lookup("INTERCONNECT", "OVERRIDES"); ok && overrides.IsList() {
		for i, pair := range overrides.List {
			p, ok := pair.Strings()
			if !ok || len(p) != 2 {
				return nil, fmt.Errorf("%w: INTERCONNECT.OVERRIDES[%d] must be a [from, to] pair", ErrSchema, i)
			}
			s.Overrides = append(s.Overrides, Override{From: p[0], To: p[1]})
		}
	}
	return s, nil
}

func decodeInstance(name string, raw *config.Value) (*Instance, error) {
	inst := &Instance{
		Name:   name,
		Module: text(raw, "MODULE"),
		Memory: text(raw, "MEMORY"),
		Map:    ordered.New[*Region](),
	}
	if inst.Module == "" {
		return nil, fmt.Errorf("%w: no MODULE", ErrSchema)
	}
	var err error
	if inst.Parameters, err = table(raw, "PARAMETERS"); err != nil {
		return nil, err
	}
	regions, err := table(raw, "MAP")
	if err != nil {
		return nil, err
	}
	for region, r := range regions.Map.All() {
		inst.Map.Set(region, &Region{Name: region, Origin: text(r, "ORIGIN"), Length: text(r, "LENGTH")})
	}
	return inst, nil
}

func decodeDynamic(ref string, raw *config.Value) (*Dynamic, error) {
	d := &Dynamic{Interface: ref, GroupSelect: text(raw, "GROUP_SELECT")}
	var err error
	if d.Handshakes, err = texts(raw, "HANDSHAKES"); err != nil {
		return nil, err
	}
	groups, ok := raw.Get("GROUPS")
	if !ok {
		groups = config.List()
	}
	if !groups.IsList() {
		return nil, fmt.Errorf("%w: GROUPS must be a list", ErrSchema)
	}
	for i, g := range groups.List {
		group := &Group{
			Type:        text(g, "INTERCONNECT_TYPE"),
			Interface:   text(g, "INTERFACE"),
			SelectValue: text(g, "SELECT_VALUE"),
		}
		hsMap, err := texts(g, "HANDSHAKE_MAP")
		if err != nil {
			return nil, err
		}
		for _, entry := range hsMap {
			f := strings.Fields(entry)
			if len(f) != 2 {
				return nil, fmt.Errorf("%w: GROUPS[%d].HANDSHAKE_MAP entry %q is not \"<handshake> <signal>\"", ErrSchema, i, entry)
			}
			group.HandshakeMap = append(group.HandshakeMap, HandshakeSelect{Handshake: f[0], Signal: f[1]})
		}
		addrMap, err := texts(g, "ADDRESS_MAP")
		if err != nil {
			return nil, err
		}
		for _, entry := range addrMap {
			f := strings.Fields(entry)
			if len(f) != 2 {
				return nil, fmt.Errorf("%w: GROUPS[%d].ADDRESS_MAP entry %q is not \"<region> <interface>\"", ErrSchema, i, entry)
			}
			group.AddressMap = append(group.AddressMap, AddressEntry{Region: f[0], Peer: f[1]})
		}
		d.Groups = append(d.Groups, group)
	}
	return d, nil
}
