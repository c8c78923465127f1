package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/metaforge/pkg/meta"
)

// aggregateOpts holds the command-line flags for the aggregate command.
type aggregateOpts struct {
	runFlags
	output   string // output file path (stdout if empty)
	asJSON   bool   // machine-readable output
	alternts bool   // include discarded alternates in JSON output
}

// aggregateCommand creates the aggregate command. It reads an observation
// file, runs the full aggregation pipeline, and prints the canonical record.
func (c *CLI) aggregateCommand() *cobra.Command {
	var opts aggregateOpts

	cmd := &cobra.Command{
		Use:   "aggregate <observations-file>",
		Short: "Merge metadata observations into one canonical record",
		Long: `Merge metadata observations into one canonical record.

The input file lists observations in priority order: later entries of equal
certainty win for descriptive fields. Formats are picked by extension
(.json, .yaml, .toml); "-" reads JSON from stdin.

Examples:
  metaforge aggregate observations.yaml
  metaforge aggregate --net observations.json
  cat obs.json | metaforge aggregate -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAggregate(cmd, args[0], opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write JSON record to file")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the record as JSON")
	cmd.Flags().BoolVar(&opts.alternts, "alternates", false, "include discarded alternates in JSON output")

	return cmd
}

func (c *CLI) runAggregate(cmd *cobra.Command, path string, opts aggregateOpts) error {
	observations, err := readObservations(path)
	if err != nil {
		return err
	}

	agg, err := c.newAggregator(cmd, opts.runFlags)
	if err != nil {
		return err
	}

	prog := newProgress(loggerFromContext(cmd.Context()))
	record, err := agg.Run(cmd.Context(), observations)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Aggregated %d observations into %d fields", len(observations), record.Len()))

	if opts.output != "" || opts.asJSON {
		data, err := marshalRecord(record, opts.alternts)
		if err != nil {
			return err
		}
		if opts.output != "" {
			if err := os.WriteFile(opts.output, data, 0o644); err != nil {
				return err
			}
			printSuccess("Wrote %s", opts.output)
			return nil
		}
		fmt.Println(string(data))
		return nil
	}

	if record.Len() == 0 {
		printWarning("Every observation was discarded as a bad guess")
		return nil
	}
	printRecord(record)
	return nil
}

// recordJSON is the serialized record shape shared with the HTTP API.
type recordJSON struct {
	Fields     map[meta.FieldTag]meta.Entry   `json:"fields"`
	Alternates map[meta.FieldTag][]meta.Entry `json:"alternates,omitempty"`
}

func marshalRecord(record *meta.Record, withAlternates bool) ([]byte, error) {
	out := recordJSON{Fields: make(map[meta.FieldTag]meta.Entry, record.Len())}
	for _, field := range record.Fields() {
		entry, _ := record.Get(field)
		out.Fields[field] = entry
		if withAlternates {
			if alts := record.Alternates(field); len(alts) > 0 {
				if out.Alternates == nil {
					out.Alternates = make(map[meta.FieldTag][]meta.Entry)
				}
				out.Alternates[field] = alts
			}
		}
	}
	return json.MarshalIndent(out, "", "  ")
}
