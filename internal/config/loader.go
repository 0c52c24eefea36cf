package config

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vk/socforge/internal/ctxlog"
)

// Loader reads one document from disk into a Value tree whose root is a map.
type Loader interface {
	Load(ctx context.Context, path string) (*Value, error)
	// Extensions lists the file extensions (without the dot) the loader
	// understands, in probing priority order.
	Extensions() []string
}

// MultiLoader dispatches to a format-specific Loader by file extension.
type MultiLoader struct {
	byExt map[string]Loader
	exts  []string
}

// NewMultiLoader registers each loader under its extensions. Earlier loaders
// win when two claim the same extension.
func NewMultiLoader(loaders ...Loader) *MultiLoader {
	m := &MultiLoader{byExt: make(map[string]Loader)}
	for _, l := range loaders {
		for _, ext := range l.Extensions() {
			ext = strings.ToLower(ext)
			if _, taken := m.byExt[ext]; taken {
				continue
			}
			m.byExt[ext] = l
			m.exts = append(m.exts, ext)
		}
	}
	return m
}

// Extensions returns every extension any registered loader handles.
func (m *MultiLoader) Extensions() []string {
	out := make([]string, len(m.exts))
	copy(out, m.exts)
	return out
}

// Load picks the loader for path's extension.
func (m *MultiLoader) Load(ctx context.Context, path string) (*Value, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	l, ok := m.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("no loader for %q files (supported: %s)", filepath.Ext(path), strings.Join(m.exts, ", "))
	}
	ctxlog.FromContext(ctx).Debug("Loading document.", "path", path, "format", ext)
	doc, err := l.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	if !doc.IsMap() {
		return nil, fmt.Errorf("%s: top level must be a table, got %s", path, doc.Kind)
	}
	return doc, nil
}
