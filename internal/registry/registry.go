package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/vk/socforge/internal/model"
	"github.com/vk/socforge/internal/params"
)

// Module is the interface that all evaluator modules implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Output receives the auxiliary files an evaluator generates, such as linker
// scripts and rule tables. Names are relative to the build directory.
type Output interface {
	WriteFile(name string, data []byte) error
}

// Env is what an evaluator works on.
type Env struct {
	Params *params.Resolved
	System *model.System
	Output Output
}

// Evaluator derives the parameters of one module type.
type Evaluator interface {
	Evaluate(ctx context.Context, env *Env) error
}

// EvaluatorFunc adapts a function to Evaluator.
type EvaluatorFunc func(ctx context.Context, env *Env) error

// Evaluate implements Evaluator.
func (f EvaluatorFunc) Evaluate(ctx context.Context, env *Env) error {
	return f(ctx, env)
}

// Registry holds the evaluators of a single application instance.
type Registry struct {
	evaluators map[string]Evaluator
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{evaluators: make(map[string]Evaluator)}
}

// RegisterEvaluator registers the evaluator for a module type.
func (r *Registry) RegisterEvaluator(moduleType string, e Evaluator) {
	if _, exists := r.evaluators[moduleType]; exists {
		panic(fmt.Sprintf("evaluator for module type '%s' already registered", moduleType))
	}
	slog.Debug("Registering evaluator.", "module_type", moduleType)
	r.evaluators[moduleType] = e
}

// Lookup returns the evaluator for a module type.
func (r *Registry) Lookup(moduleType string) (Evaluator, bool) {
	e, ok := r.evaluators[moduleType]
	return e, ok
}

// Types lists the registered module types, sorted.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.evaluators))
	for t := range r.evaluators {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
