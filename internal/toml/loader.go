// Package toml loads TOML documents into the config tree. It drives the
// streaming parser of go-toml directly because the decoded-map API loses the
// key order that emission depends on.
package toml

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2/unstable"
	"github.com/vk/socforge/internal/config"
)

// Loader implements config.Loader for .tml and .toml files.
type Loader struct{}

// NewLoader creates a new TOML loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Extensions implements config.Loader.
func (l *Loader) Extensions() []string {
	return []string{"tml", "toml"}
}

// Load implements config.Loader.
func (l *Loader) Load(_ context.Context, path string) (*config.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return doc, nil
}

// Parse converts TOML text into an ordered document.
func Parse(data []byte) (*config.Value, error) {
	root := config.EmptyMap()
	current := root

	p := &unstable.Parser{}
	p.Reset(data)
	for p.NextExpression() {
		expr := p.Expression()
		switch expr.Kind {
		case unstable.Table:
			keys := collectKey(expr.Key())
			tbl, err := descend(root, keys)
			if err != nil {
				return nil, err
			}
			current = tbl
		case unstable.ArrayTable:
			keys := collectKey(expr.Key())
			parent, err := descend(root, keys[:len(keys)-1])
			if err != nil {
				return nil, err
			}
			last := keys[len(keys)-1]
			arr, ok := parent.Get(last)
			if !ok {
				arr = config.List()
				parent.Map.Set(last, arr)
			}
			if !arr.IsList() {
				return nil, fmt.Errorf("key %q is defined both as %s and as an array of tables", strings.Join(keys, "."), arr.Kind)
			}
			tbl := config.EmptyMap()
			arr.List = append(arr.List, tbl)
			current = tbl
		case unstable.KeyValue:
			if err := setKeyValue(current, expr); err != nil {
				return nil, err
			}
		}
	}
	if err := p.Error(); err != nil {
		var perr *unstable.ParserError
		if errors.As(err, &perr) && len(perr.Highlight) > 0 {
			shape := p.Shape(p.Range(perr.Highlight))
			return nil, fmt.Errorf("line %d, column %d: %w", shape.Start.Line, shape.Start.Column, err)
		}
		return nil, err
	}
	return root, nil
}

func collectKey(it unstable.Iterator) []string {
	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Node().Data))
	}
	return keys
}

// descend walks (creating as needed) nested tables. When a segment names an
// array of tables, the most recently appended table is used.
func descend(from *config.Value, keys []string) (*config.Value, error) {
	cur := from
	for i, k := range keys {
		next, ok := cur.Get(k)
		if !ok {
			next = config.EmptyMap()
			cur.Map.Set(k, next)
		}
		if next.IsList() && len(next.List) > 0 {
			next = next.List[len(next.List)-1]
		}
		if !next.IsMap() {
			return nil, fmt.Errorf("key %q is not a table", strings.Join(keys[:i+1], "."))
		}
		cur = next
	}
	return cur, nil
}

func setKeyValue(table *config.Value, kv *unstable.Node) error {
	keys := collectKey(kv.Key())
	parent, err := descend(table, keys[:len(keys)-1])
	if err != nil {
		return err
	}
	last := keys[len(keys)-1]
	if parent.Map.Has(last) {
		return fmt.Errorf("duplicate key %q", strings.Join(keys, "."))
	}
	val, err := convert(kv.Value())
	if err != nil {
		return fmt.Errorf("key %q: %w", strings.Join(keys, "."), err)
	}
	parent.Map.Set(last, val)
	return nil
}

func convert(n *unstable.Node) (*config.Value, error) {
	raw := string(n.Data)
	switch n.Kind {
	case unstable.String:
		return config.String(raw), nil
	case unstable.Bool:
		return config.Bool(raw == "true"), nil
	case unstable.Integer:
		i, err := strconv.ParseInt(raw, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q: %w", raw, err)
		}
		return config.Int(i), nil
	case unstable.Float:
		return parseFloat(raw)
	case unstable.LocalDate, unstable.LocalTime, unstable.LocalDateTime, unstable.DateTime:
		return config.String(raw), nil
	case unstable.Array:
		out := config.List()
		it := n.Children()
		for it.Next() {
			e, err := convert(it.Node())
			if err != nil {
				return nil, err
			}
			out.List = append(out.List, e)
		}
		return out, nil
	case unstable.InlineTable:
		out := config.EmptyMap()
		it := n.Children()
		for it.Next() {
			if err := setKeyValue(out, it.Node()); err != nil {
				return nil, err
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported TOML value kind %s", n.Kind)
	}
}

func parseFloat(raw string) (*config.Value, error) {
	s := strings.ReplaceAll(raw, "_", "")
	switch strings.TrimLeft(s, "+-") {
	case "inf":
		if strings.HasPrefix(s, "-") {
			return config.Float(math.Inf(-1)), nil
		}
		return config.Float(math.Inf(1)), nil
	case "nan":
		return config.Float(math.NaN()), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid float %q: %w", raw, err)
	}
	return config.Float(f), nil
}
