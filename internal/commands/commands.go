// Package commands defines the whatsboard command line.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nhle/whatsboard/internal/app"
	"github.com/nhle/whatsboard/internal/logging"
	"github.com/nhle/whatsboard/internal/model"
)

// RootOptions are the flags shared by every command.
type RootOptions struct {
	ConfigPath string
	Debug      bool

	// runtime overrides the collaborators, for tests.
	runtime app.Options
}

// New returns the root command. Without a subcommand it opens the
// dashboard.
func New() *cobra.Command {
	return newRoot(&RootOptions{})
}

func newRoot(o *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whatsboard",
		Short: "Tasks extracted from your chats, on a terminal dashboard.",
		Example: `
whatsboard
whatsboard tasks
whatsboard calendar --month 2024-03
whatsboard timer start
`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd.Context(), o)
		},
	}
	cmd.PersistentFlags().StringVar(&o.ConfigPath, "config", model.DefaultConfigPath(),
		"Path to the configuration file.")
	cmd.PersistentFlags().BoolVar(&o.Debug, "debug", false,
		"Log at debug level.")

	AddCommands(cmd, o)
	return cmd
}

// AddCommands registers the subcommands on topLevel.
func AddCommands(topLevel *cobra.Command, o *RootOptions) {
	addUI(topLevel, o)
	addTasks(topLevel, o)
	addCalendar(topLevel, o)
	addSummary(topLevel, o)
	addChat(topLevel, o)
	addTimer(topLevel, o)
	addConfigure(topLevel, o)
}

// loadConfig reads the configuration named by the flags.
func (o *RootOptions) loadConfig() (*model.AppConfig, error) {
	cfg, err := model.LoadConfig(o.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// openLogger opens the configured log file.
func (o *RootOptions) openLogger(cfg *model.AppConfig) (*slog.Logger, io.Closer, error) {
	level := cfg.Log.Level
	if o.Debug {
		level = "debug"
	}
	return logging.Open(cfg.LogFile(), level)
}

// openRuntime loads the configuration and wires a Runtime. The returned
// func releases the runtime and the log file.
func (o *RootOptions) openRuntime(ctx context.Context) (*app.Runtime, func(), error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, logFile, err := o.openLogger(cfg)
	if err != nil {
		return nil, nil, err
	}

	rt, err := app.NewRuntime(ctx, o.ConfigPath, cfg, logger, o.runtime)
	if err != nil {
		_ = logFile.Close()
		return nil, nil, err
	}

	return rt, func() {
		if err := rt.Close(); err != nil {
			logger.Warn("closing runtime", "error", err)
		}
		_ = logFile.Close()
	}, nil
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
