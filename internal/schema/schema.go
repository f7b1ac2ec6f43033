// Package schema validates exported program JSON against the embedded CUE
// schema. Validation is structural only; it does not re-derive digests or
// cross-check operation indices.
package schema

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"
)

//go:embed program.cue
var programSchema string

// ValidationError is one schema violation in a document.
type ValidationError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	switch {
	case e.Line > 0 && e.Field != "":
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Field, e.Message)
	case e.Field != "":
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	default:
		return e.Message
	}
}

// Validate checks an exported program JSON document against the schema.
// filename is used only for error positions. Returns nil when the document
// conforms; otherwise every violation found (does not fail-fast).
func Validate(filename string, data []byte) []ValidationError {
	ctx := cuecontext.New()

	schema := ctx.CompileString(programSchema, cue.Filename("program.cue"))
	if err := schema.Err(); err != nil {
		// The schema is embedded; failing to compile it is a build defect,
		// not a property of the document under validation.
		return []ValidationError{{Field: "schema", Message: fmt.Sprintf("compiling embedded schema: %v", err)}}
	}
	def := schema.LookupPath(cue.ParsePath("#Program"))
	if err := def.Err(); err != nil {
		return []ValidationError{{Field: "schema", Message: fmt.Sprintf("looking up #Program: %v", err)}}
	}

	expr, err := cuejson.Extract(filename, data)
	if err != nil {
		return []ValidationError{{Field: "document", Message: fmt.Sprintf("parsing JSON: %v", err)}}
	}

	doc := ctx.BuildExpr(expr)
	if err := doc.Err(); err != nil {
		return toValidationErrors(err)
	}

	unified := def.Unify(doc)
	if err := unified.Validate(cue.Concrete(true), cue.Final()); err != nil {
		return toValidationErrors(err)
	}

	return nil
}

// toValidationErrors flattens a CUE error list into position-aware
// validation errors.
func toValidationErrors(err error) []ValidationError {
	var out []ValidationError
	for _, e := range cueerrors.Errors(err) {
		ve := ValidationError{Message: e.Error()}
		if pos := e.Position(); pos.IsValid() {
			ve.Line = pos.Line()
		}
		if path := e.Path(); len(path) > 0 {
			ve.Field = strings.Join(path, ".")
		}
		out = append(out, ve)
	}
	if len(out) == 0 {
		out = append(out, ValidationError{Message: err.Error()})
	}
	return out
}
