package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	pak "github.com/exectails/huskypak"
)

func (a *app) newSetCmd() *cobra.Command {
	var files bool
	cmd := &cobra.Command{
		Use:   "set <pakFile>...",
		Short: "Check and list a split set of pak files",
		Long: `Scan the parts of a split set in load order. Every part except the last
must be marked as followed by more parts, and the last one as terminal.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parts, err := pak.ScanSet(cmd.Context(), args, a.readOptions()...)
			if err != nil {
				return err
			}
			writeSet(cmd.OutOrStdout(), parts, files)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&files, "files", "f", false, "list the files of every part")
	return cmd
}

func writeSet(out io.Writer, parts []pak.Part, files bool) {
	var total int
	for _, p := range parts {
		var size uint64
		for _, e := range p.Entries {
			size += uint64(e.SizeUncompressed)
		}
		total += len(p.Entries)
		fmt.Fprintf(out, "%s: %s, %d files, %s\n",
			filepath.Base(p.Path), p.Header.SplitFlag(), len(p.Entries), humanize.IBytes(size))
		if files {
			writeEntryTable(out, p.Entries)
		}
	}
	fmt.Fprintf(out, "\n%d parts, %d files.\n", len(parts), total)
}
