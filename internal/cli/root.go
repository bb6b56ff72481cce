// Package cli implements the taskflow command line: the API server and a
// terminal client for it.
package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"taskflow/internal/client"
	"taskflow/internal/config"
	"taskflow/internal/logger"
)

// env is shared by every subcommand. It is filled in PersistentPreRunE.
type env struct {
	cfg     *config.Config
	apiURL  string
	verbose bool
	out     io.Writer
}

func (e *env) load() error {
	if e.cfg != nil {
		return nil
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if e.apiURL != "" {
		cfg.Client.BaseURL = e.apiURL
	}
	e.cfg = cfg
	return nil
}

func (e *env) client() *client.Client {
	return client.NewClient(e.cfg.Client.BaseURL, e.cfg.Client.Timeout)
}

func (e *env) location() *time.Location {
	loc, err := e.cfg.Location()
	if err != nil {
		return time.UTC
	}
	return loc
}

// logger is quiet unless --verbose is set.
func (e *env) logger() *zap.Logger {
	level := zapcore.WarnLevel
	if e.verbose {
		level = zapcore.DebugLevel
	}
	log, err := logger.New(level)
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// NewRootCmd builds the command tree.
func NewRootCmd(version string) *cobra.Command {
	return newRootCmd(&env{out: os.Stdout}, version)
}

func newRootCmd(e *env, version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "taskflow",
		Short:         "Tasks, time blocks and habits",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			e.out = cmd.OutOrStdout()
			return e.load()
		},
	}
	root.PersistentFlags().StringVar(&e.apiURL, "api", "", "API base URL (default from config)")
	root.PersistentFlags().BoolVarP(&e.verbose, "verbose", "v", false, "Enable verbose output")

	root.AddCommand(newServeCmd(e))
	root.AddCommand(newTasksCmd(e))
	root.AddCommand(newHabitsCmd(e))
	root.AddCommand(newCategoriesCmd(e))
	root.AddCommand(newStatusCmd(e))
	return root
}

// Execute runs the root command.
func Execute(version string) error {
	if err := NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
