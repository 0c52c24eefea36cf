// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"fmt"

	"github.com/vk/socforge/internal/config"
	"github.com/vk/socforge/internal/ordered"
)

// BoardIO is one external I/O entry. A port has either a Width or a set of
// named sub-signals typed by InterfaceType.
type BoardIO struct {
	Name          string
	Direction     Direction
	InterfaceType string
	Width         string
	HasWidth      bool
	// Signals maps sub-signal names to widths, in declaration order.
	Signals *ordered.Map[string]
}

// BoardFile lists what a board source file pulls in.
type BoardFile struct {
	HDL []string
	IP  []string
}

// Board is a board definition.
type Board struct {
	Name        string
	Directory   string
	PartLong    string
	IO          *ordered.Map[*BoardIO]
	Constraints map[string]string
	// IP maps a board source file to its ordered IP directives.
	IP    map[string][]string
	Files map[string]BoardFile
}

// Port looks up an external I/O entry.
func (b *Board) Port(name string) (*BoardIO, error) {
	io, ok := b.IO.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a valid external io port of board %q", ErrSchema, name, b.Name)
	}
	return io, nil
}

// DecodeBoard decodes a board definition. name is the board's short name.
func DecodeBoard(name string, doc *config.Value) (*Board, error) {
	b := &Board{
		Name:        name,
		Directory:   text(doc, "DESCRIPTION", "DIRECTORY"),
		PartLong:    text(doc, "DESCRIPTION", "PART", "LONG"),
		IO:          ordered.New[*BoardIO](),
		Constraints: make(map[string]string),
		IP:          make(map[string][]string),
		Files:       make(map[string]BoardFile),
	}
	if b.Directory == "" {
		b.Directory = name
	}

	ios, err := table(doc, "IO")
	if err != nil {
		return nil, err
	}
	for port, raw := range ios.Map.All() {
		dir, err := ParseDirection(text(raw, "DIRECTION"))
		if err != nil {
			return nil, fmt.Errorf("io %q: %w", port, err)
		}
		io := &BoardIO{
			Name:          port,
			Direction:     dir,
			InterfaceType: text(raw, "INTERFACE_TYPE"),
			Signals:       ordered.New[string](),
		}
		if w, ok := raw.Get("WIDTH"); ok {
			io.Width, io.HasWidth = w.Text(), true
		} else {
			sigs, err := table(raw, "SIGNALS")
			if err != nil {
				return nil, fmt.Errorf("io %q: %w", port, err)
			}
			for sig, s := range sigs.Map.All() {
				io.Signals.Set(sig, text(s, "WIDTH"))
			}
			if io.Signals.Len() == 0 {
				return nil, fmt.Errorf("%w: io %q has neither WIDTH nor SIGNALS", ErrSchema, port)
			}
		}
		b.IO.Set(port, io)
	}

	constraints, err := table(doc, "CONSTRAINTS")
	if err != nil {
		return nil, err
	}
	for port, c := range constraints.Map.All() {
		b.Constraints[port] = c.Text()
	}

	ips, err := table(doc, "REQUIREMENTS", "IP")
	if err != nil {
		return nil, err
	}
	for file, directives := range ips.Map.All() {
		for _, d := range directives.Map.All() {
			b.IP[file] = append(b.IP[file], d.Text())
		}
	}

	files, err := table(doc, "REQUIREMENTS", "FILES")
	if err != nil {
		return nil, err
	}
	for file, raw := range files.Map.All() {
		var bf BoardFile
		if bf.HDL, err = texts(raw, "HDL"); err != nil {
			return nil, err
		}
		if bf.IP, err = texts(raw, "IP"); err != nil {
			return nil, err
		}
		b.Files[file] = bf
	}
	return b, nil
}

// Defaults is a defaults document: per-module parameter layers.
type Defaults struct {
	modules *config.Value
}

// DecodeDefaults decodes a defaults document.
func DecodeDefaults(doc *config.Value) (*Defaults, error) {
	m, err := table(doc, "MODULES")
	if err != nil {
		return nil, err
	}
	return &Defaults{modules: m}, nil
}

// Layer returns a private copy of the defaults for module, or an empty map.
func (d *Defaults) Layer(module string) *config.Value {
	if d == nil {
		return config.EmptyMap()
	}
	if l, ok := d.modules.Get(module); ok && l.IsMap() {
		return l.Clone()
	}
	return config.EmptyMap()
}

// Catalog is the immutable library a build is compiled against.
type Catalog struct {
	Modules        map[string]*ModuleType
	Definitions    *Definitions
	CommonDefaults *Defaults
	BoardDefaults  *Defaults
	Board          *Board
}

// Module looks up a module type.
func (c *Catalog) Module(name string) (*ModuleType, error) {
	m, ok := c.Modules[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown module type %q", ErrSchema, name)
	}
	return m, nil
}
