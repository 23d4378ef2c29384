package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kingrea/segmenter/internal/session"
)

// version is set at build time via -ldflags.
var version = "dev"

type rootOptions struct {
	dir string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	var formFlags formOptions
	root := &cobra.Command{
		Use:   "segmenter",
		Short: "Predict retail customer segments from fitted artifacts",
		Long: "segmenter loads a fitted feature scaler and k-means model, then assigns\n" +
			"customers to one of the trained segments. Without a subcommand it opens\n" +
			"the interactive form.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runForm(cmd, opts, formFlags)
		},
	}
	root.PersistentFlags().StringVarP(&opts.dir, "dir", "C", ".", "project directory holding .segmenter/")
	bindFormFlags(root, &formFlags)

	root.AddCommand(
		newFormCmd(opts),
		newPredictCmd(opts),
		newInspectCmd(opts),
		newConvertCmd(opts),
		newInitCmd(opts),
		newServeCmd(opts),
	)
	return root
}

// openSession loads the project's artifacts once for the command.
func openSession(cmd *cobra.Command, opts *rootOptions) (*session.Session, error) {
	s, err := session.Open(cmd.Context(), opts.dir)
	if err != nil {
		return nil, fmt.Errorf("open project %s: %w", opts.dir, err)
	}
	return s, nil
}

// absPath resolves user-supplied paths against the working directory, not
// the project directory.
func absPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return abs, nil
}
