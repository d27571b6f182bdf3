package cli

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"taskboard/internal/board"
	"taskboard/internal/config"
	"taskboard/internal/logging"
	"taskboard/internal/persist"
	"taskboard/internal/store"
)

// Assets are the web resources compiled into the binary.
type Assets struct {
	Templates func() (*template.Template, error)
	Static    fs.FS
}

var configPath string

// NewRootCommand builds the taskboard command tree.
func NewRootCommand(version string, assets Assets) *cobra.Command {
	serve := newServeCmd(assets)

	root := &cobra.Command{
		Use:   "taskboard",
		Short: "A single-board kanban task tracker",
		Long: `taskboard keeps a list of tasks in four columns (Backlog, To-Do,
In Progress, Done) and saves the whole board to a key-value store after
every change.

Run without a subcommand to serve the board over HTTP.`,
		RunE:          serve.RunE,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	root.AddCommand(serve)
	root.AddCommand(newTasksCmd())
	return root
}

// Execute runs the root command
func Execute(version string, assets Assets) error {
	if err := NewRootCommand(version, assets).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// app bundles the long-lived pieces every command needs.
type app struct {
	cfg    *config.Config
	kv     store.Store
	tasks  *board.Store
	logOut io.Closer
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logOut, err := logging.Setup(log.StandardLogger(), cfg.LogOptions())
	if err != nil {
		return nil, err
	}

	kv, err := store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		logOut.Close()
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	tasks := board.NewStore(persist.New(kv, cfg.Storage.Key, log.StandardLogger()))
	if err := tasks.Initialize(ctx); err != nil {
		kv.Close()
		logOut.Close()
		return nil, err
	}

	return &app{cfg: cfg, kv: kv, tasks: tasks, logOut: logOut}, nil
}

func (a *app) Close() {
	if err := a.kv.Close(); err != nil {
		log.WithError(err).Warn("failed to close store")
	}
	a.logOut.Close()
}
