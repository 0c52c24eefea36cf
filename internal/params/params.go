// Package params merges the default layers and user overrides of an
// instance into its parameter set.
//
// Precedence is board default, then common default, then user override, but
// an override lands in the layer that already defines the name rather than
// in the final set directly. A declared parameter with no default is taken
// from the override only; one with neither is left for an evaluator.
package params

import (
	"fmt"

	"github.com/vk/socforge/internal/config"
	"github.com/vk/socforge/internal/model"
)

// Resolved is the parameter state of one instance. Params is write-once:
// evaluators add derived values through Set and never revise one.
type Resolved struct {
	Instance *model.Instance
	Module   *model.ModuleType
	// Params is the final set, in emission order.
	Params *config.Value
	// Board and Common are private copies of the default layers with the
	// overrides applied. Evaluators read undeclared settings from them.
	Board  *config.Value
	Common *config.Value
}

// Resolver builds Resolved sets from a catalog.
type Resolver struct {
	catalog *model.Catalog
}

// New creates a Resolver.
func New(catalog *model.Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Resolve merges the parameters of inst.
func (r *Resolver) Resolve(inst *model.Instance) (*Resolved, error) {
	module, err := r.catalog.Module(inst.Module)
	if err != nil {
		return nil, fmt.Errorf("instance %q: %w", inst.Name, err)
	}
	res := &Resolved{
		Instance: inst,
		Module:   module,
		Params:   config.EmptyMap(),
		Board:    r.catalog.BoardDefaults.Layer(module.Name),
		Common:   r.catalog.CommonDefaults.Layer(module.Name),
	}

	for name, v := range inst.Parameters.Map.All() {
		switch {
		case res.Board.Map.Has(name):
			res.Board.Map.Set(name, v.Clone())
		case res.Common.Map.Has(name):
			res.Common.Map.Set(name, v.Clone())
		case module.Declares(name):
			res.Params.Map.Set(name, v.Clone())
		}
	}
	for _, name := range module.Parameters {
		if v, ok := res.Board.Get(name); ok {
			res.Params.Map.Set(name, v.Clone())
		} else if v, ok := res.Common.Get(name); ok {
			res.Params.Map.Set(name, v.Clone())
		}
	}
	return res, nil
}

// Name is the instance name.
func (r *Resolved) Name() string {
	return r.Instance.Name
}

// Get returns a value from the final set.
func (r *Resolved) Get(name string) (*config.Value, bool) {
	return r.Params.Get(name)
}

// Names lists the final set in emission order.
func (r *Resolved) Names() []string {
	return r.Params.Keys()
}

// Set adds a derived parameter. Revising an existing one is an error.
func (r *Resolved) Set(name string, v *config.Value) error {
	if r.Params.Map.Has(name) {
		return fmt.Errorf("%w: parameter %q of instance %q is already set", model.ErrResolution, name, r.Name())
	}
	r.Params.Map.Set(name, v)
	return nil
}

// SetInt is Set for integers.
func (r *Resolved) SetInt(name string, v int64) error {
	return r.Set(name, config.Int(v))
}

// Setting looks a name up in the final set, then the board layer, then the
// common layer.
func (r *Resolved) Setting(name string) (*config.Value, error) {
	for _, layer := range []*config.Value{r.Params, r.Board, r.Common} {
		if v, ok := layer.Get(name); ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: parameter %q of instance %q is not set", model.ErrResolution, name, r.Name())
}

// Int returns a setting as an integer.
func (r *Resolved) Int(name string) (int64, error) {
	v, err := r.Setting(name)
	if err != nil {
		return 0, err
	}
	i, ok := v.AsInt()
	if !ok {
		return 0, fmt.Errorf("%w: parameter %q of instance %q is not an integer: %q", model.ErrResolution, name, r.Name(), v.Text())
	}
	return i, nil
}

// Float returns a setting as a number.
func (r *Resolved) Float(name string) (float64, error) {
	v, err := r.Setting(name)
	if err != nil {
		return 0, err
	}
	f, ok := v.AsFloat()
	if !ok {
		return 0, fmt.Errorf("%w: parameter %q of instance %q is not a number: %q", model.ErrResolution, name, r.Name(), v.Text())
	}
	return f, nil
}

// Complete fails if a declared parameter is still missing.
func (r *Resolved) Complete() error {
	for _, name := range r.Module.Parameters {
		if !r.Params.Map.Has(name) {
			return fmt.Errorf("%w: parameter %q of instance %q has no value", model.ErrResolution, name, r.Name())
		}
	}
	return nil
}
