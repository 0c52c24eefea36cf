package emit

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/vk/socforge/internal/fsutil"
)

// Dir is a build output directory. It implements registry.Output.
type Dir struct {
	root    string
	written map[string]struct{}
}

// NewDir creates root if needed.
func NewDir(root string) (*Dir, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &Dir{root: root, written: make(map[string]struct{})}, nil
}

// Root is the directory path.
func (d *Dir) Root() string {
	return d.root
}

// WriteFile writes data to name, a path relative to the directory.
func (d *Dir) WriteFile(name string, data []byte) error {
	return d.write(name, data, 0o644)
}

// WriteScript is WriteFile for executable files.
func (d *Dir) WriteScript(name string, data []byte) error {
	return d.write(name, data, 0o755)
}

func (d *Dir) write(name string, data []byte, perm os.FileMode) error {
	path, err := d.path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return err
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, perm); err != nil {
		return err
	}
	d.written[name] = struct{}{}
	return nil
}

// Copy copies the file at src to name.
func (d *Dir) Copy(src, name string) error {
	path, err := d.path(name)
	if err != nil {
		return err
	}
	if err := fsutil.CopyFile(src, path); err != nil {
		return err
	}
	d.written[name] = struct{}{}
	return nil
}

// Files lists every name written so far, sorted.
func (d *Dir) Files() []string {
	out := make([]string, 0, len(d.written))
	for name := range d.written {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (d *Dir) path(name string) (string, error) {
	if !filepath.IsLocal(name) {
		return "", fmt.Errorf("output name %q escapes the build directory", name)
	}
	return filepath.Join(d.root, name), nil
}
