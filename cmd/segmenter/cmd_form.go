package main

import (
	"github.com/spf13/cobra"

	"github.com/kingrea/segmenter/internal/tui"
)

type formOptions struct {
	noBounds bool
}

func bindFormFlags(cmd *cobra.Command, o *formOptions) {
	cmd.Flags().BoolVar(&o.noBounds, "no-bounds", false, "accept values outside the documented ranges")
}

func newFormCmd(opts *rootOptions) *cobra.Command {
	var flags formOptions
	cmd := &cobra.Command{
		Use:   "form",
		Short: "Open the interactive customer form (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runForm(cmd, opts, flags)
		},
	}
	bindFormFlags(cmd, &flags)
	return cmd
}

func runForm(cmd *cobra.Command, opts *rootOptions, flags formOptions) error {
	s, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer s.Close()
	s.Journal.Info("form session started")
	return tui.Run(s, tui.WithJournal(s.Journal), tui.WithBounds(!flags.noBounds))
}
