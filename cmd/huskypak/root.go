package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	pak "github.com/exectails/huskypak"
)

// app carries the state shared by subcommands once flags and config are
// resolved.
type app struct {
	cfgFile   string
	verbose   bool
	backslash bool

	cfg    config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "huskypak",
		Short: "List, extract and pack BPFS pak archives",
		Long: `huskypak reads and writes the BPFS pak archives used as data files by the
game client.

Commands:
  list        List files in a pak file
  extract     Extract files from a pak file
  pack        Pack the contents of a folder into a new pak file
  inspect     Show the decoded header and record chain of a pak file
  set         Check and list a split set of pak files`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default ./huskypak.yaml or $HOME/.huskypak/huskypak.yaml)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVar(&a.backslash, "backslash", false, `store entry names with '\' separators`)

	root.AddCommand(
		a.newListCmd(),
		a.newExtractCmd(),
		a.newPackCmd(),
		a.newInspectCmd(),
		a.newSetCmd(),
	)
	return root
}

// setup loads the config and builds the logger before any subcommand runs.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(viper.New(), a.cfgFile)
	if err != nil {
		return err
	}
	if a.verbose {
		cfg.LogLevel = "debug"
	}
	if a.backslash {
		cfg.PathSeparator = `\`
	}
	level, err := cfg.level()
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

func (a *app) readOptions() []pak.ReadOption {
	return []pak.ReadOption{
		pak.ReadWithLogger(a.logger),
		pak.ReadWithMaxFileSize(a.cfg.MaxFileSize),
	}
}

func (a *app) writeOptions() []pak.WriteOption {
	return []pak.WriteOption{
		pak.WriteWithLogger(a.logger),
		pak.WriteWithCompressionLevel(a.cfg.CompressionLevel),
		pak.WriteWithSeparator(a.cfg.separator()),
	}
}

// openArchive opens path, reporting a missing file as errPakNotFound.
func (a *app) openArchive(path string) (*pak.Archive, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errPakNotFound
		}
		return nil, err
	}
	return pak.Open(path, a.readOptions()...)
}
