package config

import (
	"context"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Loader loads configuration from one or more paths into the agnostic model.
// A Loader also yields the Converter able to decode the expressions it
// produced.
type Loader interface {
	Load(ctx context.Context, paths ...string) (*Model, Converter, error)
}

// Converter decodes format-specific expressions into native Go values and
// converts native handler outputs back into cty values for downstream
// expression evaluation.
type Converter interface {
	// DecodeBody evaluates the given argument expressions, applies manifest
	// defaults, and populates the provided Go struct.
	DecodeBody(ctx context.Context, inputStruct any, args map[string]hcl.Expression, defs map[string]*InputDefinition, evalCtx *hcl.EvalContext) error

	// ToCtyValue converts a native handler output into a cty.Value.
	ToCtyValue(native any) (cty.Value, error)
}
