package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	pak "github.com/exectails/huskypak"
)

func (a *app) newExtractCmd() *cobra.Command {
	var keep bool
	cmd := &cobra.Command{
		Use:   "extract <pakFile> [folder]",
		Short: "Extract files from a pak file",
		Long: `Extract every file of a pak file into a folder. The folder defaults to
output_dir from the config (./output).`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			outDir := a.cfg.OutputDir
			if len(args) > 1 {
				outDir = args[1]
			}

			ar, err := a.openArchive(args[0])
			if err != nil {
				return err
			}
			defer ar.Close()

			out := cmd.OutOrStdout()
			abs, err := filepath.Abs(outDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Pak File: %s\n", filepath.Base(args[0]))
			fmt.Fprintf(out, "Out Path: %s\n\n", abs)
			fmt.Fprintln(out, "Extracting...")

			n, err := pak.Extract(cmd.Context(), ar.Reader, outDir,
				pak.ExtractWithOverwrite(!keep),
				pak.ExtractWithProgress(func(ev pak.ProgressEvent) {
					fmt.Fprintf(out, "  %s\n", ev.Path)
				}))
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Extracted %d files.\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&keep, "keep", false, "skip files that already exist instead of overwriting them")
	return cmd
}
