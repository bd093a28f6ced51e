package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	pak "github.com/exectails/huskypak"
)

func (a *app) newPackCmd() *cobra.Command {
	var lastSplit bool
	cmd := &cobra.Command{
		Use:   "pack <folder> <pakFile> [splitEnd]",
		Short: "Pack the contents of a folder into a new pak file",
		Long: `Pack every file below a folder into a new pak file.

splitEnd is either 'true' or 'false' and marks the new file as the last part
of a split set. It can also be given as --last-split.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 2 {
				v, err := strconv.ParseBool(args[2])
				if err != nil {
					return fmt.Errorf("splitEnd must be 'true' or 'false', got %q", args[2])
				}
				lastSplit = lastSplit || v
			}
			return a.runPack(cmd, args[0], args[1], lastSplit)
		},
	}
	cmd.Flags().BoolVar(&lastSplit, "last-split", false, "mark the pak file as the last part of a split set")
	return cmd
}

func (a *app) runPack(cmd *cobra.Command, folder, pakFile string, lastSplit bool) (err error) {
	in, err := filepath.Abs(folder)
	if err != nil {
		return err
	}
	if fi, statErr := os.Stat(in); statErr != nil || !fi.IsDir() {
		return fmt.Errorf("folder not found: %s", folder)
	}
	if err := os.MkdirAll(filepath.Dir(pakFile), 0o755); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "New Pak File: %s\n", filepath.Base(pakFile))
	fmt.Fprintf(out, "Input Folder: %s\n\n", in)
	fmt.Fprintln(out, "Packing...")

	f, err := os.Create(pakFile)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
		if err != nil {
			_ = os.Remove(pakFile)
		}
	}()

	opts := append(a.writeOptions(), pak.WriteWithProgress(func(ev pak.ProgressEvent) {
		if ev.Stage == pak.StagePacking {
			fmt.Fprintf(out, "  %s\n", ev.Path)
		}
	}))
	_, entries, err := pak.Create(cmd.Context(), in, f, lastSplit, opts...)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Packed %d files.\n", len(entries))
	return nil
}
