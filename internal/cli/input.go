package cli

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/metaforge/pkg/errors"
	"github.com/matzehuels/metaforge/pkg/meta"
)

// observationFile is the on-disk shape of an observation list. All three
// formats share it:
//
//	{"observations": [{"field": "Repository", "value": "...", ...}]}
type observationFile struct {
	Observations []meta.Observation `json:"observations" yaml:"observations" toml:"observations"`
}

// readObservations loads observations from path. The format is picked by
// extension (.json, .yaml/.yml, .toml); "-" reads JSON from stdin.
// Observations keep their file order, which is the merge priority order.
func readObservations(path string) ([]meta.Observation, error) {
	if path == "-" {
		return decodeObservations(os.Stdin, ".json")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open observations file")
	}
	defer f.Close()
	return decodeObservations(f, strings.ToLower(filepath.Ext(path)))
}

func decodeObservations(r io.Reader, ext string) ([]meta.Observation, error) {
	var file observationFile
	switch ext {
	case ".json":
		if err := json.NewDecoder(r).Decode(&file); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse JSON observations")
		}
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(r).Decode(&file); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse YAML observations")
		}
	case ".toml":
		if _, err := toml.NewDecoder(r).Decode(&file); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse TOML observations")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unsupported observations format: %q", ext)
	}
	if len(file.Observations) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no observations in input")
	}
	return file.Observations, nil
}
