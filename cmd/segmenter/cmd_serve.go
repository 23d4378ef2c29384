package main

import (
	"github.com/spf13/cobra"

	"github.com/kingrea/segmenter/internal/mcp"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve predictions as MCP tools over stdio",
		Long: `Starts an MCP server over stdin/stdout exposing predict_segment,
list_segments, and describe_artifacts. Artifacts are loaded once before the
server accepts requests; logs go to .segmenter/logs so stdout stays clean.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()
			return mcp.NewServer(s, version).Run(cmd.Context())
		},
	}
}
