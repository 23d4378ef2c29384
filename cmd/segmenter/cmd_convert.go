package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kingrea/segmenter/internal/artifact"
	"github.com/kingrea/segmenter/internal/config"
)

type convertOptions struct {
	id  string
	use bool
}

func newConvertCmd(opts *rootOptions) *cobra.Command {
	var flags convertOptions
	cmd := &cobra.Command{
		Use:   "convert <src> <dst>",
		Short: "Re-encode an artifact; the destination extension selects the encoding",
		Long: "convert reads a scaler or model artifact, verifies it, and writes it back\n" +
			"as .yaml/.yml (document), .json, or .pb/.bin (protobuf). With --use the\n" +
			"project config is pointed at the new file.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, opts, flags, args[0], args[1])
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.id, "id", "", "artifact id (scaler or model); detected when empty")
	f.BoolVar(&flags.use, "use", false, "point the project config at the converted artifact")
	return cmd
}

func runConvert(cmd *cobra.Command, opts *rootOptions, flags convertOptions, src, dst string) error {
	src, err := absPath(src)
	if err != nil {
		return err
	}
	if dst, err = absPath(dst); err != nil {
		return err
	}
	if src == dst {
		return fmt.Errorf("convert: source and destination are the same file")
	}

	store := artifact.NewStore()
	srcRef, meta, payload, err := readAny(store, src, flags.id)
	if err != nil {
		return fmt.Errorf("convert: read %s: %w", src, err)
	}
	dstRef, err := artifact.NewRef(srcRef.ID, srcRef.Name, dst)
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}
	if meta.Notes == nil {
		meta.Notes = map[string]string{}
	}
	meta.Notes["converted_from"] = filepath.Base(src)
	if err := store.Write(dstRef, payload, meta); err != nil {
		return fmt.Errorf("convert: write %s: %w", dst, err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Converted %s %s (%s) -> %s (%s)\n", srcRef.ID, src, srcRef.Kind, dst, dstRef.Kind)

	if !flags.use {
		return nil
	}
	cfg, err := config.NewConfig(opts.dir)
	if err != nil {
		return err
	}
	scaler, model := "", ""
	if srcRef.ID == artifact.IDScaler {
		scaler = dst
	} else {
		model = dst
	}
	if err := cfg.SetArtifactPaths(scaler, model); err != nil {
		return err
	}
	fmt.Fprintf(out, "Updated %s\n", cfg.ProjectConfigPath())
	return nil
}

// readAny reads path as the requested artifact id, or tries each known id
// when none is given.
func readAny(store *artifact.Store, path, id string) (artifact.Ref, artifact.Metadata, artifact.Payload, error) {
	builders := map[string]func(string) (artifact.Ref, error){
		artifact.IDScaler: artifact.ScalerRef,
		artifact.IDModel:  artifact.ModelRef,
	}
	order := []string{artifact.IDScaler, artifact.IDModel}
	if id != "" {
		if _, ok := builders[id]; !ok {
			return artifact.Ref{}, artifact.Metadata{}, nil, fmt.Errorf("unknown artifact id %q", id)
		}
		order = []string{id}
	}
	var errs []error
	for _, candidate := range order {
		ref, err := builders[candidate](path)
		if err != nil {
			return artifact.Ref{}, artifact.Metadata{}, nil, err
		}
		meta, payload, err := store.Read(ref)
		if err == nil {
			return ref, meta, payload, nil
		}
		errs = append(errs, fmt.Errorf("as %s: %w", candidate, err))
	}
	return artifact.Ref{}, artifact.Metadata{}, nil, errors.Join(errs...)
}
