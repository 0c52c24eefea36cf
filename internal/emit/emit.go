package emit

import (
	"context"
	"fmt"

	"github.com/vk/socforge/internal/ctxlog"
	"github.com/vk/socforge/internal/interconnect"
	"github.com/vk/socforge/internal/model"
	"github.com/vk/socforge/internal/params"
)

// Output file names.
const (
	TopFile            = "top.v"
	ParametersFile     = "parameters.vh"
	ConstraintsFile    = "constraints.xdc"
	IPFile             = "ip.tcl"
	CreateProjectFile  = "create_project.tcl"
	CompileProjectFile = "compile_project.tcl"
	RunFile            = "run.sh"
)

// Design is everything a build resolved.
type Design struct {
	Catalog *model.Catalog
	System  *model.System
	Params  []*params.Resolved
	Netlist *interconnect.Netlist
}

// Options select optional output.
type Options struct {
	// Project adds the toolchain project scripts.
	Project bool
}

type artifact struct {
	name string
	data []byte
}

// Write emits every artifact of d into dir and stages the library sources.
func Write(ctx context.Context, dir *Dir, d *Design, layout Layout, opts Options) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Emitting design...", "dir", dir.Root())

	src, err := Require(d.Catalog, d.System)
	if err != nil {
		return err
	}
	constraints, err := Constraints(d.Catalog.Board, d.System)
	if err != nil {
		return err
	}
	ipTcl := IPTcl(d.Catalog.Board, d.System, src)

	files := []artifact{
		{TopFile, Top(TopName, d.Netlist)},
		{ParametersFile, Parameters(d.Params)},
		{ConstraintsFile, constraints},
		{IPFile, ipTcl},
	}
	if opts.Project {
		files = append(files,
			artifact{CreateProjectFile, CreateProject(d.System.Name, d.Catalog.Board.PartLong, ipTcl)},
			artifact{CompileProjectFile, CompileProject(d.System.Name)},
		)
	}
	for _, f := range files {
		if err := dir.WriteFile(f.name, f.data); err != nil {
			return fmt.Errorf("write %s: %w", f.name, err)
		}
	}
	if opts.Project {
		if err := dir.WriteScript(RunFile, RunScript()); err != nil {
			return fmt.Errorf("write %s: %w", RunFile, err)
		}
	}

	if err := Stage(ctx, dir, src, layout); err != nil {
		return err
	}
	logger.Info("Design emitted.", "files", len(dir.Files()), "project", opts.Project)
	return nil
}
