package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type twoTypes struct{}

func (twoTypes) Register(r *Registry) {
	noop := EvaluatorFunc(func(context.Context, *Env) error { return nil })
	r.RegisterEvaluator("uart_axi", noop)
	r.RegisterEvaluator("i2c_axi", noop)
}

func TestRegistry(t *testing.T) {
	r := New()
	twoTypes{}.Register(r)

	assert.Equal(t, []string{"i2c_axi", "uart_axi"}, r.Types())

	e, ok := r.Lookup("uart_axi")
	require.True(t, ok)
	require.NoError(t, e.Evaluate(context.Background(), &Env{}))

	_, ok = r.Lookup("bram")
	assert.False(t, ok)
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := New()
	twoTypes{}.Register(r)

	assert.PanicsWithValue(t, "evaluator for module type 'uart_axi' already registered", func() {
		r.RegisterEvaluator("uart_axi", EvaluatorFunc(func(context.Context, *Env) error { return nil }))
	})
}
