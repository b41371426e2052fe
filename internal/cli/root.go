// Package cli implements the nz-tides command line.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ngmaloney/nz-tides/internal/config"
	"github.com/ngmaloney/nz-tides/internal/logging"
)

// app carries the state shared by every command
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	logger  *log.Logger

	closers []io.Closer
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "nz-tides",
		Short: "High and low tides for New Zealand ports",
		Long: `Looks up high and low tides from the published New Zealand port tide
tables, and steps to the next or previous tide across days.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.nz-tides.yaml)")
	flags.String("source", config.DefaultSource, "tide table source: embedded, dir, sqlite or http")
	flags.String("data-dir", config.DefaultDataDir, "directory of <port>/<year>.csv tables for the dir source")
	flags.String("db-path", config.DefaultDBPath, "SQLite database for the sqlite source")
	flags.String("base-url", "", "base URL for the http source")
	flags.String("timezone", config.DefaultTimezone, "time zone the tables are published in")
	flags.String("log-level", config.DefaultLogLevel, "log level: debug, info, warn or error")
	flags.String("log-dir", "", "write logs to a dated file in this directory")

	for key, flag := range map[string]string{
		"source":    "source",
		"data_dir":  "data-dir",
		"db_path":   "db-path",
		"base_url":  "base-url",
		"timezone":  "timezone",
		"log_level": "log-level",
		"log_dir":   "log-dir",
	} {
		cobra.CheckErr(a.v.BindPFlag(key, flags.Lookup(flag)))
	}

	rootCmd.AddCommand(
		newPortsCmd(a),
		newDayCmd(a),
		newStepCmd(a, true),
		newStepCmd(a, false),
		newImportCmd(a),
		newServeCmd(a),
		newBrowseCmd(a),
	)

	return rootCmd
}

// init reads the configuration and sets up logging. The terminal UI owns the
// screen, so browse only logs to a file.
func (a *app) init(cmd *cobra.Command) error {
	if err := config.ReadFile(a.v, a.cfgFile); err != nil {
		return err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	switch {
	case cfg.LogDir != "":
		logger, closer, err := logging.OpenFile(cfg.LogDir, cfg.LogLevel)
		if err != nil {
			return err
		}
		a.logger = logger
		a.closers = append(a.closers, closer)
	case cmd.Name() == "browse":
		a.logger = logging.Discard()
	default:
		logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		a.logger = logger
	}

	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug("using config file", "path", used)
	}
	return nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i].Close()
	}
	a.closers = nil
}
