package hcl

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/socforge/internal/config"
	"github.com/vk/socforge/internal/ctxlog"
)

// Loader is the HCL implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Extensions implements config.Loader.
func (l *Loader) Extensions() []string {
	return []string{"hcl"}
}

// Load implements config.Loader.
func (l *Loader) Load(ctx context.Context, path string) (*config.Value, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := Parse(src, path)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("HCL document parsed.", "path", path, "top_level_keys", len(doc.Keys()))
	return doc, nil
}

// Parse converts HCL source into an ordered document. filename is used only
// in diagnostics.
func Parse(src []byte, filename string) (*config.Value, error) {
	file, diags := hclsyntax.ParseConfig(src, filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("failed to parse HCL file %s: unexpected body type %T", filename, file.Body)
	}
	root := config.EmptyMap()
	if err := decodeBody(body, root); err != nil {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, err)
	}
	return root, nil
}

type bodyItem struct {
	offset int
	attr   *hclsyntax.Attribute
	block  *hclsyntax.Block
}

func decodeBody(body *hclsyntax.Body, into *config.Value) error {
	items := make([]bodyItem, 0, len(body.Attributes)+len(body.Blocks))
	for _, attr := range body.Attributes {
		items = append(items, bodyItem{offset: attr.SrcRange.Start.Byte, attr: attr})
	}
	for _, block := range body.Blocks {
		items = append(items, bodyItem{offset: block.TypeRange.Start.Byte, block: block})
	}
	slices.SortFunc(items, func(a, b bodyItem) int { return cmp.Compare(a.offset, b.offset) })

	for _, it := range items {
		if it.attr != nil {
			if into.Map.Has(it.attr.Name) {
				return fmt.Errorf("%s: %q is already defined", it.attr.SrcRange, it.attr.Name)
			}
			v, err := exprToValue(it.attr.Expr)
			if err != nil {
				return err
			}
			into.Map.Set(it.attr.Name, v)
			continue
		}

		target := into
		path := append([]string{it.block.Type}, it.block.Labels...)
		for _, key := range path {
			next, ok := target.Get(key)
			if !ok {
				next = config.EmptyMap()
				target.Map.Set(key, next)
			}
			if !next.IsMap() {
				return fmt.Errorf("%s: block %q conflicts with attribute %q", it.block.TypeRange, it.block.Type, key)
			}
			target = next
		}
		if err := decodeBody(it.block.Body, target); err != nil {
			return err
		}
	}
	return nil
}
