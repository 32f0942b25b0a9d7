package config

import (
	"context"

	"github.com/zclconf/go-cty/cty"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads configuration from the given paths and merges it into a
	// single model. Later files override earlier ones.
	Load(ctx context.Context, paths ...string) (*Model, error)
}

// Converter turns native Go values into cty values for expression
// evaluation.
type Converter interface {
	ToCtyValue(v any) (cty.Value, error)
}
