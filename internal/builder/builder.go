package builder

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/vk/socforge/internal/ctxlog"
	"github.com/vk/socforge/internal/emit"
	"github.com/vk/socforge/internal/interconnect"
	"github.com/vk/socforge/internal/model"
	"github.com/vk/socforge/internal/params"
	"github.com/vk/socforge/internal/registry"
	"github.com/vk/socforge/internal/store"
)

// Request selects what to build.
type Request struct {
	// System is a system document or a directory holding system.<ext>.
	System string
	// Board is the board's short name under fpga/boards.
	Board string
	// Out is the output directory. Validate ignores it.
	Out string
	// Project adds the toolchain project scripts.
	Project bool
}

// Result describes a finished build.
type Result struct {
	Design *emit.Design
	// Files lists every file written to the output directory, sorted.
	Files []string
}

// Builder compiles systems against one library.
type Builder struct {
	store    *store.Store
	registry *registry.Registry
}

// New creates a Builder.
func New(st *store.Store, reg *registry.Registry) *Builder {
	return &Builder{store: st, registry: reg}
}

// Build compiles req and writes the output directory.
func (b *Builder) Build(ctx context.Context, req Request) (*Result, error) {
	logger := ctxlog.FromContext(ctx)

	design, aux, err := b.compile(ctx, req)
	if err != nil {
		return nil, err
	}

	logger.Debug("Writing output...", "out", req.Out)
	dir, err := emit.NewDir(req.Out)
	if err != nil {
		return nil, err
	}
	for _, name := range aux.names() {
		if err := dir.WriteFile(name, aux[name]); err != nil {
			return nil, fmt.Errorf("write %s: %w", name, err)
		}
	}
	layout := emit.Layout{
		CommonHDL: filepath.Join(b.store.CommonDir(), "hdl"),
		BoardHDL:  filepath.Join(b.store.BoardSourceDir(design.Catalog.Board), "hdl"),
		BoardIP:   filepath.Join(b.store.BoardSourceDir(design.Catalog.Board), "ip"),
		SystemSrc: store.SourceDir(design.System),
	}
	if err := emit.Write(ctx, dir, design, layout, emit.Options{Project: req.Project}); err != nil {
		return nil, fmt.Errorf("emit: %w", err)
	}

	files := dir.Files()
	logger.Info("Build complete.", "system", design.System.Name, "board", req.Board, "files", len(files), "out", req.Out)
	return &Result{Design: design, Files: files}, nil
}

// Validate compiles req without writing anything.
func (b *Builder) Validate(ctx context.Context, req Request) (*emit.Design, error) {
	design, _, err := b.compile(ctx, req)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Info("System is valid.", "system", design.System.Name, "board", req.Board)
	return design, nil
}

func (b *Builder) compile(ctx context.Context, req Request) (*emit.Design, memOutput, error) {
	logger := ctxlog.FromContext(ctx)

	logger.Debug("Phase 1: loading documents...")
	sys, err := b.store.System(ctx, req.System)
	if err != nil {
		return nil, nil, err
	}
	if err := store.CheckBoard(sys, req.Board); err != nil {
		return nil, nil, err
	}
	cat, err := b.store.Catalog(ctx, req.Board)
	if err != nil {
		return nil, nil, err
	}

	logger.Debug("Phase 2: resolving parameters...")
	aux := memOutput{}
	resolved, err := b.parameters(ctx, cat, sys, aux)
	if err != nil {
		return nil, nil, err
	}

	logger.Debug("Phase 3: resolving interconnect...")
	byName := make(map[string]*params.Resolved, len(resolved))
	for _, p := range resolved {
		byName[p.Name()] = p
	}
	net, err := interconnect.Resolve(ctx, cat, sys, byName)
	if err != nil {
		return nil, nil, err
	}
	if err := net.Check(); err != nil {
		return nil, nil, fmt.Errorf("driver check: %w", err)
	}

	return &emit.Design{Catalog: cat, System: sys, Params: resolved, Netlist: net}, aux, nil
}

// parameters resolves and evaluates every instance in declaration order.
func (b *Builder) parameters(ctx context.Context, cat *model.Catalog, sys *model.System, aux memOutput) ([]*params.Resolved, error) {
	logger := ctxlog.FromContext(ctx)
	resolver := params.New(cat)

	var resolved []*params.Resolved
	evaluated := 0
	for name, inst := range sys.Instances.All() {
		p, err := resolver.Resolve(inst)
		if err != nil {
			return nil, err
		}
		if e, ok := b.registry.Lookup(inst.Module); ok {
			env := &registry.Env{Params: p, System: sys, Output: aux}
			if err := e.Evaluate(ctx, env); err != nil {
				return nil, fmt.Errorf("instance %q (%s): %w", name, inst.Module, err)
			}
			evaluated++
		}
		if err := p.Complete(); err != nil {
			return nil, err
		}
		resolved = append(resolved, p)
	}
	logger.Info("Resolved parameters.", "instances", len(resolved), "evaluated", evaluated, "files", len(aux))
	return resolved, nil
}

// memOutput holds evaluator files until the build is known to succeed.
type memOutput map[string][]byte

func (m memOutput) WriteFile(name string, data []byte) error {
	if _, ok := m[name]; ok {
		return fmt.Errorf("%w: file %q is generated twice", model.ErrResolution, name)
	}
	m[name] = append([]byte(nil), data...)
	return nil
}

func (m memOutput) names() []string {
	out := make([]string, 0, len(m))
	for name := range m {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
