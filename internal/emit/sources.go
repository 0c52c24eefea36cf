package emit

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/vk/socforge/internal/ctxlog"
	"github.com/vk/socforge/internal/fsutil"
	"github.com/vk/socforge/internal/model"
)

// Sources lists the library files a build needs, each in first-seen order.
type Sources struct {
	Common []string
	Board  []string
	IP     []string
}

// Layout locates the library directories files are staged from.
type Layout struct {
	CommonHDL string
	BoardHDL  string
	BoardIP   string
	SystemSrc string
}

// Require collects the common and board files of every instantiated module
// and follows the board's FILES table until no new file appears.
func Require(cat *model.Catalog, sys *model.System) (*Sources, error) {
	src := &Sources{}
	for name, inst := range sys.Instances.All() {
		module, err := cat.Module(inst.Module)
		if err != nil {
			return nil, fmt.Errorf("instance %q: %w", name, err)
		}
		src.Common = appendNew(src.Common, module.CommonIncludes...)
		src.Board = appendNew(src.Board, module.BoardIncludes...)
	}
	// src.Board grows while it is walked.
	for i := 0; i < len(src.Board); i++ {
		f, ok := cat.Board.Files[src.Board[i]]
		if !ok {
			continue
		}
		src.Board = appendNew(src.Board, f.HDL...)
		src.IP = appendNew(src.IP, f.IP...)
	}
	return src, nil
}

func appendNew(list []string, items ...string) []string {
	for _, item := range items {
		if !slices.Contains(list, item) {
			list = append(list, item)
		}
	}
	return list
}

// Stage copies every required file and every file of the system's source
// directory into dir.
func Stage(ctx context.Context, dir *Dir, src *Sources, layout Layout) error {
	logger := ctxlog.FromContext(ctx)

	groups := []struct {
		from  string
		files []string
	}{
		{layout.CommonHDL, src.Common},
		{layout.BoardHDL, src.Board},
		{layout.BoardIP, src.IP},
	}
	count := 0
	for _, g := range groups {
		for _, name := range g.files {
			if err := dir.Copy(filepath.Join(g.from, name), name); err != nil {
				return fmt.Errorf("stage %s: %w", name, err)
			}
			count++
		}
	}

	own, err := fsutil.ListFiles(layout.SystemSrc)
	if err != nil {
		return fmt.Errorf("list %s: %w", layout.SystemSrc, err)
	}
	for _, name := range own {
		if err := dir.Copy(filepath.Join(layout.SystemSrc, name), name); err != nil {
			return fmt.Errorf("stage %s: %w", name, err)
		}
		count++
	}

	logger.Info("Staged sources.", "files", count, "system_files", len(own))
	return nil
}
