package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm/logger"

	"github.com/harrisonrobin/taskdeck/pkg/config"
	"github.com/harrisonrobin/taskdeck/pkg/store"
	"github.com/harrisonrobin/taskdeck/pkg/tasks"
)

// app carries the global flags and what they resolve to.
type app struct {
	configPath string
	dbPath     string
	verbose    bool

	root    *cobra.Command
	cfg     *config.Config
	logFile io.Closer
	logger  *slog.Logger
}

func newApp(version string) *app {
	a := &app{}

	root := &cobra.Command{
		Use:   "taskdeck",
		Short: "Terminal task tracker",
		Long: `taskdeck keeps a local list of tasks with due dates, ticket references,
comments and dependencies, and lets you work through it in the terminal.

Run without a subcommand to open the interactive tracker.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		RunE: a.runTracker,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ~/.config/taskdeck/config.yaml)")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "SQLite database file (overrides config)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(a.listCmd())
	root.AddCommand(a.exportCmd())
	root.AddCommand(a.importCmd())
	root.AddCommand(a.configCmd())
	root.AddCommand(versionCmd(version))
	a.root = root
	return a
}

// execute runs the command tree and closes the log file however it ends.
func (a *app) execute() error {
	defer a.teardown()
	return a.root.Execute()
}

// Execute runs the root command
func Execute(version string) error {
	if err := newApp(version).execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func versionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "taskdeck %s\n", version)
		},
	}
}

func (a *app) setup() error {
	if a.configPath == "" {
		path, err := config.GetConfigPath()
		if err != nil {
			return fmt.Errorf("could not find path to configuration file: %w", err)
		}
		a.configPath = path
	}

	cfg, err := config.LoadFrom(a.configPath)
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.Driver = store.DriverSQLite
		cfg.DBPath = a.dbPath
	}
	a.cfg = cfg

	return a.setupLogging()
}

// setupLogging sends slog output to the log file, since the terminal
// belongs to the tracker while it runs.
func (a *app) setupLogging() error {
	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = io.Discard
	if a.cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(a.cfg.LogFile), 0700); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(a.cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		a.logFile = f
		w = f
	}

	a.logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.logger)
	return nil
}

func (a *app) teardown() {
	if a.logFile != nil {
		a.logFile.Close()
		a.logFile = nil
	}
}

// gormLogger routes SQL warnings and errors to the same writer as slog.
func (a *app) gormLogger() logger.Interface {
	level := logger.Warn
	if a.verbose {
		level = logger.Info
	}
	var w io.Writer = io.Discard
	if f, ok := a.logFile.(io.Writer); ok {
		w = f
	}
	return logger.New(log.New(w, "gorm ", log.LstdFlags), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// openManager opens the configured store and loads every task. The
// returned func closes the store.
func (a *app) openManager(ctx context.Context) (*tasks.Manager, func(), error) {
	st, err := store.Open(store.Options{
		Driver: a.cfg.Driver,
		Path:   a.cfg.DBPath,
		DSN:    a.cfg.DSN,
		Logger: a.gormLogger(),
	})
	if err != nil {
		return nil, nil, err
	}
	closeStore := func() {
		if err := st.Close(); err != nil {
			a.logger.Error("failed to close store", "error", err)
		}
	}

	m, err := tasks.Open(ctx, st, tasks.WithLogger(a.logger))
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	a.logger.Debug("store opened", "driver", a.cfg.Driver, "tasks", m.Len())
	return m, closeStore, nil
}
