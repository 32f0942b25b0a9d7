package hcl_adapter

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Converter is the HCL-specific implementation of the config.Converter interface.
type Converter struct{}

// NewConverter creates a new HCL converter.
func NewConverter() *Converter {
	return &Converter{}
}

// ToCtyValue converts v using its implied cty type. String maps always
// become cty maps of strings, even when empty, so `env.NAME` lookups in a
// clean environment fail as unknown keys rather than type errors.
func (c *Converter) ToCtyValue(v any) (cty.Value, error) {
	switch v := v.(type) {
	case nil:
		return cty.NilVal, nil
	case map[string]string:
		if len(v) == 0 {
			return cty.MapValEmpty(cty.String), nil
		}
		vals := make(map[string]cty.Value, len(v))
		for k, s := range v {
			vals[k] = cty.StringVal(s)
		}
		return cty.MapVal(vals), nil
	}

	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return cty.NilVal, fmt.Errorf("convert %T to cty: %w", v, err)
	}
	return gocty.ToCtyValue(v, ty)
}
