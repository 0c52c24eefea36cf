// Package yaml loads YAML and JSON documents into the config tree using the
// yaml.v3 node API, which keeps mapping order.
package yaml

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/vk/socforge/internal/config"
	"github.com/vk/socforge/internal/ctxlog"
	"gopkg.in/yaml.v3"
)

// Loader reads .json, .yaml and .yml files. JSON is parsed as the YAML
// subset it is.
type Loader struct{}

// NewLoader creates a new YAML/JSON configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Extensions implements config.Loader.
func (l *Loader) Extensions() []string {
	return []string{"json", "yaml", "yml"}
}

// Load implements config.Loader.
func (l *Loader) Load(ctx context.Context, path string) (*config.Value, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := Parse(src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	ctxlog.FromContext(ctx).Debug("YAML document parsed.", "path", path, "top_level_keys", len(doc.Keys()))
	return doc, nil
}

// Parse decodes a single YAML (or JSON) document. An empty input yields an
// empty map.
func Parse(src []byte) (*config.Value, error) {
	if len(bytes.TrimSpace(src)) == 0 {
		return config.EmptyMap(), nil
	}
	var root yaml.Node
	if err := yaml.Unmarshal(src, &root); err != nil {
		return nil, err
	}
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return config.EmptyMap(), nil
		}
		return convert(root.Content[0])
	}
	return convert(&root)
}

func convert(n *yaml.Node) (*config.Value, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return convert(n.Alias)

	case yaml.MappingNode:
		out := config.EmptyMap()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", k.Line)
			}
			val, err := convert(v)
			if err != nil {
				return nil, err
			}
			if k.Tag == "!!merge" {
				if !val.IsMap() {
					return nil, fmt.Errorf("line %d: merge value must be a mapping", k.Line)
				}
				for mk, mv := range val.Map.All() {
					if !out.Map.Has(mk) {
						out.Map.Set(mk, mv)
					}
				}
				continue
			}
			if out.Map.Has(k.Value) {
				return nil, fmt.Errorf("line %d: duplicate key %q", k.Line, k.Value)
			}
			out.Map.Set(k.Value, val)
		}
		return out, nil

	case yaml.SequenceNode:
		out := config.List()
		for _, c := range n.Content {
			val, err := convert(c)
			if err != nil {
				return nil, err
			}
			out.List = append(out.List, val)
		}
		return out, nil

	case yaml.ScalarNode:
		return scalar(n)

	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
	}
}

func scalar(n *yaml.Node) (*config.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return config.Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return config.Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return config.Int(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return config.Float(f), nil
	default:
		return config.String(n.Value), nil
	}
}
