package meta

import (
	"strings"

	"github.com/matzehuels/metaforge/pkg/errors"
)

// Observation is one raw, source-attributed metadata value prior to merging.
// Exactly one of Value and Values is set, depending on the field's shape.
type Observation struct {
	Field     FieldTag  `json:"field" yaml:"field" toml:"field"`
	Value     string    `json:"value,omitempty" yaml:"value,omitempty" toml:"value,omitempty"`
	Values    []string  `json:"values,omitempty" yaml:"values,omitempty" toml:"values,omitempty"`
	Certainty Certainty `json:"certainty" yaml:"certainty" toml:"certainty"`
	Origin    string    `json:"origin,omitempty" yaml:"origin,omitempty" toml:"origin,omitempty"`
}

// Validate checks that the observation's field is known and that its value
// shape matches the field's declared shape.
func (o Observation) Validate() error {
	if !o.Field.Known() {
		return errors.New(errors.ErrCodeInvalidField, "unknown field: %q", o.Field)
	}
	if o.Field.List() {
		if o.Value != "" {
			return errors.New(errors.ErrCodeInvalidField,
				"field %s holds a list, got scalar %q", o.Field, o.Value)
		}
		return nil
	}
	if len(o.Values) > 0 {
		return errors.New(errors.ErrCodeInvalidField,
			"field %s holds a scalar, got list of %d", o.Field, len(o.Values))
	}
	return nil
}

// Empty reports whether the observation carries no usable value.
func (o Observation) Empty() bool {
	if o.Field.List() {
		for _, v := range o.Values {
			if strings.TrimSpace(v) != "" {
				return false
			}
		}
		return true
	}
	return strings.TrimSpace(o.Value) == ""
}

// WithValue returns a copy of the observation with the scalar value replaced.
// The canonicalizer uses this to rewrite URL values while keeping the
// original certainty and origin.
func (o Observation) WithValue(value string) Observation {
	o.Value = value
	return o
}

// WithCertainty returns a copy of the observation with its certainty capped
// at max. Derived facts are never more certain than their source.
func (o Observation) WithCertainty(max Certainty) Observation {
	o.Certainty = o.Certainty.Min(max)
	return o
}
