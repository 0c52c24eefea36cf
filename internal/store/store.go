// Package store is the Configuration Store: it finds the library and system
// documents by convention, loads them through a config.Loader, validates them
// against the schema and decodes them into the model.
package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vk/socforge/internal/config"
	"github.com/vk/socforge/internal/ctxlog"
	"github.com/vk/socforge/internal/fsutil"
	"github.com/vk/socforge/internal/model"
	"github.com/vk/socforge/internal/schema"
)

// Store reads documents below a library root containing fpga/.
type Store struct {
	root      string
	loader    config.Loader
	validator *schema.Validator
}

// New creates a Store.
func New(root string, loader config.Loader, validator *schema.Validator) *Store {
	return &Store{root: root, loader: loader, validator: validator}
}

// CommonDir is fpga/common below the root.
func (s *Store) CommonDir() string {
	return filepath.Join(s.root, "fpga", "common")
}

// BoardsDir is fpga/boards below the root.
func (s *Store) BoardsDir() string {
	return filepath.Join(s.root, "fpga", "boards")
}

// BoardSourceDir is the src directory of a board's DESCRIPTION.DIRECTORY.
func (s *Store) BoardSourceDir(b *model.Board) string {
	return filepath.Join(s.BoardsDir(), b.Directory, "src")
}

// Boards lists the board short names available below the root.
func (s *Store) Boards() ([]string, error) {
	return fsutil.ListDirs(s.BoardsDir())
}

// Catalog loads the module catalog, the definitions, both defaults layers
// and the board definition for board.
func (s *Store) Catalog(ctx context.Context, board string) (*model.Catalog, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading catalog...", "root", s.root, "board", board)

	common := filepath.Join(s.CommonDir(), "config")
	boardCfg := filepath.Join(s.BoardsDir(), board, "config")

	modulesDoc, err := s.load(ctx, schema.Modules, filepath.Join(common, "modules"), true)
	if err != nil {
		return nil, err
	}
	defsDoc, err := s.load(ctx, schema.Definitions, filepath.Join(common, "definitions"), true)
	if err != nil {
		return nil, err
	}
	commonDefaultsDoc, err := s.load(ctx, schema.Defaults, filepath.Join(common, "defaults"), false)
	if err != nil {
		return nil, err
	}
	boardDoc, err := s.load(ctx, schema.Board, filepath.Join(boardCfg, "board"), true)
	if err != nil {
		return nil, err
	}
	boardDefaultsDoc, err := s.load(ctx, schema.Defaults, filepath.Join(boardCfg, "defaults"), false)
	if err != nil {
		return nil, err
	}

	cat := &model.Catalog{}
	if cat.Modules, err = model.DecodeModules(modulesDoc); err != nil {
		return nil, fmt.Errorf("module catalog: %w", err)
	}
	if cat.Definitions, err = model.DecodeDefinitions(defsDoc); err != nil {
		return nil, fmt.Errorf("definitions: %w", err)
	}
	if cat.CommonDefaults, err = model.DecodeDefaults(commonDefaultsDoc); err != nil {
		return nil, fmt.Errorf("common defaults: %w", err)
	}
	if cat.BoardDefaults, err = model.DecodeDefaults(boardDefaultsDoc); err != nil {
		return nil, fmt.Errorf("board defaults: %w", err)
	}
	if cat.Board, err = model.DecodeBoard(board, boardDoc); err != nil {
		return nil, fmt.Errorf("board %q: %w", board, err)
	}

	logger.Info("Catalog loaded.",
		"modules", len(cat.Modules),
		"protocols", len(cat.Definitions.Protocols),
		"board_io", cat.Board.IO.Len(),
	)
	return cat, nil
}

// System loads a system description. path is either a document or a
// directory holding system.<ext>.
func (s *Store) System(ctx context.Context, path string) (*model.System, error) {
	file := path
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		if file, err = fsutil.FindFirst(filepath.Join(path, "system"), s.loader.Extensions()); err != nil {
			return nil, fmt.Errorf("%w: no system document in %s: %w", model.ErrSchema, path, err)
		}
	}
	doc, err := s.loader.Load(ctx, file)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(schema.System, file, doc); err != nil {
		return nil, err
	}
	sys, err := model.DecodeSystem(file, doc)
	if err != nil {
		return nil, fmt.Errorf("system %s: %w", file, err)
	}
	ctxlog.FromContext(ctx).Info("System loaded.", "name", sys.Name, "instances", sys.Instances.Len(), "path", file)
	return sys, nil
}

// SourceDir is the directory whose files are copied into every build of sys.
func SourceDir(sys *model.System) string {
	return filepath.Join(filepath.Dir(sys.Path), "src")
}

// CheckBoard fails when sys restricts its boards and board is not one of them.
func CheckBoard(sys *model.System, board string) error {
	if len(sys.Boards) == 0 || slices.Contains(sys.Boards, board) {
		return nil
	}
	return fmt.Errorf("%w: board %q is not supported by system %q; valid boards: %s",
		model.ErrSchema, board, sys.Name, strings.Join(sys.Boards, ", "))
}

func (s *Store) load(ctx context.Context, kind schema.Kind, base string, required bool) (*config.Value, error) {
	path, err := fsutil.FindFirst(base, s.loader.Extensions())
	if errors.Is(err, fs.ErrNotExist) && !required {
		ctxlog.FromContext(ctx).Debug("Optional document not found.", "base", base)
		return config.EmptyMap(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrSchema, err)
	}
	doc, err := s.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(kind, path, doc); err != nil {
		return nil, err
	}
	return doc, nil
}
