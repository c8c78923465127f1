// Package meta defines the datum model shared by the metadata aggregation
// engine: field tags, certainty levels, observations, and the canonical
// record produced by a merge.
//
// Observations are created by external collectors (manifest parsers, README
// scrapers, directory services) and fed into the aggregator in source
// priority order. Each observation carries a certainty tag; the aggregator
// keeps exactly one winning value per field.
package meta

import (
	"github.com/matzehuels/metaforge/pkg/errors"
)

// Certainty is the ordered confidence tag attached to an observation.
// Confirmed > Likely > Possible > Unknown.
type Certainty int

// Certainty levels, ordered from least to most confident.
const (
	// Unknown means the source attached no confidence information.
	Unknown Certainty = iota

	// Possible means the datum is a guess (e.g. a regex match in a README).
	Possible

	// Likely means the datum is probably correct but unconfirmed.
	Likely

	// Confirmed means the datum was stated explicitly by its source
	// (e.g. a dedicated field in a manifest file).
	Confirmed
)

var certaintyNames = map[Certainty]string{
	Unknown:   "unknown",
	Possible:  "possible",
	Likely:    "likely",
	Confirmed: "confirmed",
}

// String returns the lowercase name of the certainty level.
func (c Certainty) String() string {
	if s, ok := certaintyNames[c]; ok {
		return s
	}
	return "unknown"
}

// ParseCertainty converts a string to a Certainty.
// Returns an INVALID_CERTAINTY error for unrecognized values.
func ParseCertainty(s string) (Certainty, error) {
	switch s {
	case "confirmed":
		return Confirmed, nil
	case "likely":
		return Likely, nil
	case "possible":
		return Possible, nil
	case "unknown", "":
		return Unknown, nil
	}
	return Unknown, errors.New(errors.ErrCodeInvalidCertainty, "unknown certainty: %q", s)
}

// Min returns the lower of two certainty levels. Derived facts are capped
// at the certainty of their source with this.
func (c Certainty) Min(other Certainty) Certainty {
	if other < c {
		return other
	}
	return c
}

// Min returns the lower of two certainty levels.
func Min(a, b Certainty) Certainty {
	return a.Min(b)
}

// MarshalText implements encoding.TextMarshaler for JSON/YAML/TOML output.
func (c Certainty) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for JSON/YAML/TOML input.
func (c *Certainty) UnmarshalText(text []byte) error {
	parsed, err := ParseCertainty(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
