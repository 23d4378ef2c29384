package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kingrea/segmenter/internal/config"
	"github.com/kingrea/segmenter/internal/segment"
	"github.com/kingrea/segmenter/internal/session"
)

type inspectOutput struct {
	Project   string                   `json:"project"`
	Config    string                   `json:"config"`
	Artifacts []session.ArtifactStatus `json:"artifacts"`
	Segments  []segment.Segment        `json:"segments"`
}

func newInspectCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show artifact status, metadata, and segment labels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd, opts, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func runInspect(cmd *cobra.Command, opts *rootOptions, asJSON bool) error {
	if err := config.InitDir(opts.dir); err != nil {
		return fmt.Errorf("init project dir: %w", err)
	}
	cfg, err := config.NewConfig(opts.dir)
	if err != nil {
		return err
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		return err
	}
	report := inspectOutput{
		Project:   cfg.ProjectDir,
		Config:    cfg.ProjectConfigPath(),
		Artifacts: session.Inspect(cfg, nil),
		Segments:  catalog.Segments(),
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Fprintf(out, "Project: %s\n", report.Project)
	fmt.Fprintf(out, "Config:  %s\n", report.Config)
	fmt.Fprintf(out, "Artifacts:\n")
	for _, a := range report.Artifacts {
		fmt.Fprintf(out, "  %-7s %-8s %-9s %s\n", a.ID, a.State, a.Kind, a.Path)
		if a.Version != "" {
			fmt.Fprintf(out, "          version %s · producer %s · created %s\n", a.Version, orDash(a.Producer), a.Created)
		}
		if a.Checksum != "" {
			fmt.Fprintf(out, "          checksum %s\n", a.Checksum)
		}
		if a.Error != "" {
			fmt.Fprintf(out, "          error: %s\n", a.Error)
		}
	}
	fmt.Fprintf(out, "Segments:\n")
	for _, seg := range report.Segments {
		fmt.Fprintf(out, "  %d  %s\n", seg.Cluster, seg.Label)
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
