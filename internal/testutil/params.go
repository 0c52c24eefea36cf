package testutil

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/socforge/internal/config"
	"github.com/vk/socforge/internal/model"
	"github.com/vk/socforge/internal/params"
	"github.com/vk/socforge/internal/registry"
	"github.com/vk/socforge/internal/yaml"
)

// Doc parses an inline YAML document. An empty string is an empty map.
func Doc(t testing.TB, src string) *config.Value {
	t.Helper()
	doc, err := yaml.Parse([]byte(src))
	require.NoError(t, err)
	return doc
}

// Instance describes a single instance for evaluator tests. Every YAML field
// is an inline mapping; empty fields are empty maps.
type Instance struct {
	Name       string
	Module     string
	Declared   []string
	Interfaces string
	Encodings  string
	Common     string
	Board      string
	Overrides  string
	Map        string
	Memory     string
}

// Resolve merges the fixture's layers through the real resolver.
func (f Instance) Resolve(t testing.TB) *params.Resolved {
	t.Helper()

	entry := config.EmptyMap()
	declared := make([]*config.Value, 0, len(f.Declared))
	for _, p := range f.Declared {
		declared = append(declared, config.String(p))
	}
	entry.Map.Set("PARAMETERS", config.List(declared...))
	entry.Map.Set("INTERFACES", Doc(t, f.Interfaces))
	entry.Map.Set("ENCODINGS", Doc(t, f.Encodings))
	modulesDoc := config.EmptyMap()
	modulesDoc.Map.Set(f.Module, entry)
	modules, err := model.DecodeModules(modulesDoc)
	require.NoError(t, err)

	layer := func(src string) *model.Defaults {
		m := config.EmptyMap()
		m.Map.Set(f.Module, Doc(t, src))
		doc := config.EmptyMap()
		doc.Map.Set("MODULES", m)
		d, err := model.DecodeDefaults(doc)
		require.NoError(t, err)
		return d
	}
	cat := &model.Catalog{
		Modules:        modules,
		CommonDefaults: layer(f.Common),
		BoardDefaults:  layer(f.Board),
	}

	instDoc := config.EmptyMap()
	instDoc.Map.Set("MODULE", config.String(f.Module))
	instDoc.Map.Set("PARAMETERS", Doc(t, f.Overrides))
	instDoc.Map.Set("MAP", Doc(t, f.Map))
	if f.Memory != "" {
		instDoc.Map.Set("MEMORY", config.String(f.Memory))
	}
	insts := config.EmptyMap()
	name := f.Name
	if name == "" {
		name = "inst"
	}
	insts.Map.Set(name, instDoc)
	sysDoc := config.EmptyMap()
	sysDoc.Map.Set("INSTANTIATIONS", insts)
	sys, err := model.DecodeSystem("system.yaml", sysDoc)
	require.NoError(t, err)
	inst, _ := sys.Instances.Get(name)

	res, err := params.New(cat).Resolve(inst)
	require.NoError(t, err)
	return res
}

// Env wraps a resolved instance into an evaluator environment writing to
// files.
func (f Instance) Env(t testing.TB, files Files) *registry.Env {
	t.Helper()
	return &registry.Env{Params: f.Resolve(t), Output: files}
}

// Files is an in-memory registry.Output.
type Files map[string]string

// WriteFile implements registry.Output.
func (f Files) WriteFile(name string, data []byte) error {
	f[name] = string(data)
	return nil
}

// Names returns the written file names, sorted.
func (f Files) Names() []string {
	out := make([]string, 0, len(f))
	for k := range f {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ParamText returns the text of a parameter in the final set.
func ParamText(t testing.TB, r *params.Resolved, name string) string {
	t.Helper()
	v, ok := r.Get(name)
	require.True(t, ok, "parameter %s is not set", name)
	return v.Text()
}
