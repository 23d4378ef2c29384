package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kingrea/segmenter/internal/form"
	"github.com/kingrea/segmenter/internal/segment"
)

type predictOptions struct {
	values   map[string]*string
	json     bool
	noBounds bool
}

type predictOutput struct {
	RequestID string                `json:"request_id"`
	Input     segment.FeatureRecord `json:"input"`
	Cluster   int                   `json:"cluster"`
	Label     string                `json:"label"`
	Known     bool                  `json:"known"`
	Distances []float64             `json:"distances,omitempty"`
}

// flagName maps a field key to its command-line spelling.
func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

func newPredictCmd(opts *rootOptions) *cobra.Command {
	flags := predictOptions{values: make(map[string]*string, len(form.Fields))}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the segment for one customer",
		Long: "predict runs a single prediction. Unset fields use the form defaults.\n" +
			"Values are checked against the documented ranges unless --no-bounds is set.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPredict(cmd, opts, flags)
		},
	}
	f := cmd.Flags()
	for _, field := range form.Fields {
		usage := fmt.Sprintf("%s (%d-%d)", field.Label, field.Min, field.Max)
		flags.values[field.Key] = f.String(flagName(field.Key), field.DefaultText(), usage)
	}
	f.BoolVar(&flags.json, "json", false, "print the prediction as JSON")
	f.BoolVar(&flags.noBounds, "no-bounds", false, "accept values outside the documented ranges")
	return cmd
}

func runPredict(cmd *cobra.Command, opts *rootOptions, flags predictOptions) error {
	values := make(form.Values, len(flags.values))
	for key, v := range flags.values {
		values[key] = *v
	}
	var parseOpts []form.Option
	if flags.noBounds {
		parseOpts = append(parseOpts, form.Unbounded())
	}
	record, err := form.Parse(values, parseOpts...)
	if err != nil {
		return err
	}

	s, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	id, p, err := s.Predict(record)
	if err != nil {
		return fmt.Errorf("predict: %w", err)
	}

	out := cmd.OutOrStdout()
	if flags.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(predictOutput{
			RequestID: id,
			Input:     record,
			Cluster:   p.Cluster,
			Label:     p.Label,
			Known:     p.Known(),
			Distances: p.Distances,
		})
	}
	fmt.Fprintf(out, "Predicted Segment (Cluster %d): %s\n", p.Cluster, p.Label)
	fmt.Fprintf(out, "Request: %s\n", id)
	return nil
}
