// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"fmt"
	"slices"

	"github.com/vk/socforge/internal/config"
	"github.com/vk/socforge/internal/ordered"
)

// Built-in interface types. Anything else names a protocol.
const (
	General = "GENERAL"
	Clock   = "CLOCK"
)

// Interface is one named port group of a module type.
type Interface struct {
	Name      string
	Type      string
	Direction Direction
	// Width is the declared WIDTH of a GENERAL interface, as text.
	Width string
	// Fields holds every key of the interface entry. Protocol widths that
	// name a field (e.g. ADDR_WIDTH) are looked up here.
	Fields *config.Value
}

// IsProtocol reports whether the interface is typed by a protocol.
func (i *Interface) IsProtocol() bool {
	return i.Type != General && i.Type != Clock
}

// Field returns a field of the interface entry.
func (i *Interface) Field(name string) (*config.Value, bool) {
	return i.Fields.Get(name)
}

// ModuleType is a module catalog entry.
type ModuleType struct {
	Name       string
	Interfaces *ordered.Map[*Interface]
	Parameters []string
	// Encodings holds the symbolic bit-field tables some evaluators use.
	Encodings      *config.Value
	CommonIncludes []string
	BoardIncludes  []string
}

// Declares reports whether param is one of the module's parameters.
func (m *ModuleType) Declares(param string) bool {
	return slices.Contains(m.Parameters, param)
}

// Interface looks up an interface by name.
func (m *ModuleType) Interface(name string) (*Interface, error) {
	iface, ok := m.Interfaces.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: module %q has no interface %q", ErrSchema, m.Name, name)
	}
	return iface, nil
}

// DecodeModules decodes the module catalog.
func DecodeModules(doc *config.Value) (map[string]*ModuleType, error) {
	out := make(map[string]*ModuleType, len(doc.Keys()))
	for name, entry := range doc.Map.All() {
		m, err := decodeModule(name, entry)
		if err != nil {
			return nil, fmt.Errorf("module %q: %w", name, err)
		}
		out[name] = m
	}
	return out, nil
}

func decodeModule(name string, entry *config.Value) (*ModuleType, error) {
	if !entry.IsMap() {
		return nil, fmt.Errorf("%w: entry must be a table", ErrSchema)
	}
	m := &ModuleType{Name: name, Interfaces: ordered.New[*Interface]()}

	// PARAMETERS is either a list of names or a table whose keys are the names.
	if p, ok := entry.Get("PARAMETERS"); ok && p.IsMap() {
		m.Parameters = p.Keys()
	} else {
		params, err := texts(entry, "PARAMETERS")
		if err != nil {
			return nil, err
		}
		m.Parameters = params
	}

	ifaces, err := table(entry, "INTERFACES")
	if err != nil {
		return nil, err
	}
	for ifName, raw := range ifaces.Map.All() {
		if !raw.IsMap() {
			return nil, fmt.Errorf("%w: interface %q must be a table", ErrSchema, ifName)
		}
		dir, err := ParseDirection(text(raw, "DIRECTION"))
		if err != nil {
			return nil, fmt.Errorf("interface %q: %w", ifName, err)
		}
		iface := &Interface{
			Name:      ifName,
			Type:      text(raw, "TYPE"),
			Direction: dir,
			Width:     text(raw, "WIDTH"),
			Fields:    raw,
		}
		if iface.Type == "" {
			return nil, fmt.Errorf("%w: interface %q has no TYPE", ErrSchema, ifName)
		}
		if iface.Type == General && iface.Width == "" {
			return nil, fmt.Errorf("%w: GENERAL interface %q has no WIDTH", ErrSchema, ifName)
		}
		m.Interfaces.Set(ifName, iface)
	}

	if enc, ok := entry.Get("ENCODINGS"); ok {
		m.Encodings = enc
	} else {
		m.Encodings = config.EmptyMap()
	}
	if m.CommonIncludes, err = texts(entry, "REQUIREMENTS", "INCLUDES", "COMMON"); err != nil {
		return nil, err
	}
	if m.BoardIncludes, err = texts(entry, "REQUIREMENTS", "INCLUDES", "BOARD"); err != nil {
		return nil, err
	}
	return m, nil
}
