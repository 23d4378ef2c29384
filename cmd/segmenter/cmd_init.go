package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kingrea/segmenter/internal/config"
	"github.com/kingrea/segmenter/internal/session"
)

type initOptions struct {
	scaler string
	model  string
}

func newInitCmd(opts *rootOptions) *cobra.Command {
	var flags initOptions
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create .segmenter/ and optionally record artifact locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, opts, flags)
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.scaler, "scaler", "", "path to the fitted scaler artifact")
	f.StringVar(&flags.model, "model", "", "path to the fitted model artifact")
	return cmd
}

func runInit(cmd *cobra.Command, opts *rootOptions, flags initOptions) error {
	if err := config.InitDir(opts.dir); err != nil {
		return fmt.Errorf("init project dir: %w", err)
	}
	cfg, err := config.NewConfig(opts.dir)
	if err != nil {
		return err
	}
	if flags.scaler != "" || flags.model != "" {
		scaler, err := absPath(flags.scaler)
		if err != nil {
			return err
		}
		model, err := absPath(flags.model)
		if err != nil {
			return err
		}
		if err := cfg.SetArtifactPaths(scaler, model); err != nil {
			return err
		}
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Initialized %s\n", cfg.SegmenterProjectDir)
	for _, a := range session.Inspect(cfg, nil) {
		fmt.Fprintf(out, "  %-7s %-8s %s\n", a.ID, a.State, a.Path)
	}
	return nil
}
