package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	pak "github.com/exectails/huskypak"
)

var errPakNotFound = errors.New("pak file not found")

func (a *app) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <pakFile>",
		Short: "List files in a pak file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runList(cmd.OutOrStdout(), args[0])
		},
	}
}

func (a *app) runList(out io.Writer, path string) error {
	ar, err := a.openArchive(path)
	if err != nil {
		return err
	}
	defer ar.Close()

	entries, err := ar.Entries()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Pak File: %s\n\n", filepath.Base(path))
	fmt.Fprintln(out, "Contents:")
	writeEntryTable(out, entries)
	return nil
}

// writeEntryTable prints one line per entry with the names padded to a
// common width.
func writeEntryTable(out io.Writer, entries []pak.Entry) {
	width := 0
	for _, e := range entries {
		width = max(width, utf8.RuneCountInString(e.Name))
	}
	for _, e := range entries {
		fmt.Fprintf(out, "  %s%s (%s)\n",
			e.Name+strings.Repeat(" ", width-utf8.RuneCountInString(e.Name)+2),
			humanize.IBytes(uint64(e.SizeCompressed)),
			humanize.IBytes(uint64(e.SizeUncompressed)))
	}
}
