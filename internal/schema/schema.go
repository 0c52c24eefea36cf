// Package schema validates loaded documents against the embedded CUE
// contract before they are decoded into the typed model.
package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"github.com/vk/socforge/internal/config"
	"github.com/vk/socforge/internal/model"
)

//go:embed schema.cue
var schemaSource []byte

// Kind names a document type and the CUE definition that describes it.
type Kind string

const (
	Modules     Kind = "#Modules"
	Definitions Kind = "#Definitions"
	Defaults    Kind = "#Defaults"
	Board       Kind = "#Board"
	System      Kind = "#System"
)

// Validator checks documents against the contract.
type Validator struct {
	ctx    *cue.Context
	schema cue.Value
}

// New compiles the embedded schema.
func New() (*Validator, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileBytes(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}
	return &Validator{ctx: ctx, schema: schema}, nil
}

// Validate checks doc against the definition for kind. name identifies the
// document in error messages. Violations wrap model.ErrSchema.
func (v *Validator) Validate(kind Kind, name string, doc *config.Value) error {
	def := v.schema.LookupPath(cue.ParsePath(string(kind)))
	if err := def.Err(); err != nil {
		return fmt.Errorf("schema definition %s not found: %w", kind, err)
	}

	data, err := json.Marshal(doc.Native())
	if err != nil {
		return fmt.Errorf("%s: encoding for validation: %w", name, err)
	}
	value := v.ctx.CompileBytes(data, cue.Filename(name))
	if err := value.Err(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	if err := def.Unify(value).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%w: %s: %s", model.ErrSchema, name, describe(err))
	}
	return nil
}

// describe flattens a CUE error list into "path: message" lines.
func describe(err error) string {
	var lines []string
	for _, e := range errors.Errors(err) {
		msg := e.Error()
		if path := strings.Join(errors.Path(e), "."); path != "" && !strings.HasPrefix(msg, path) {
			msg = path + ": " + msg
		}
		lines = append(lines, msg)
	}
	if len(lines) == 0 {
		return err.Error()
	}
	return strings.Join(lines, "; ")
}
