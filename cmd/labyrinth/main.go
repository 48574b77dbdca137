package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jask/labyrinth/internal/config"
	"github.com/jask/labyrinth/internal/database"
	"github.com/jask/labyrinth/internal/database/repository"
	"github.com/jask/labyrinth/internal/grid"
	"github.com/jask/labyrinth/internal/logging"
	"github.com/jask/labyrinth/internal/pathfinding"
	"github.com/jask/labyrinth/internal/service"
	"github.com/jask/labyrinth/internal/tui"
)

func main() {
	root, e := newRootCmd()
	err := root.ExecuteContext(context.Background())
	// cobra skips post-run hooks on failure, so cleanup happens here
	e.close()
	if err != nil {
		os.Exit(1)
	}
}

// env is the state shared by every command: config, logger and the lazily
// opened history database.
type env struct {
	configPath string
	cfg        config.Config
	log        *logrus.Logger
	closers    []io.Closer
	db         *sql.DB
}

func newRootCmd() (*cobra.Command, *env) {
	e := &env{}
	root := &cobra.Command{
		Use:           "labyrinth",
		Short:         "draw mazes and ask a pathfinding service to solve them",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.runTUI(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&e.configPath, "config", "", "config file (default ~/.config/labyrinth/config.toml)")

	root.AddCommand(
		newSolveCmd(e),
		newHistoryCmd(e),
		newAlgorithmsCmd(),
	)
	return root, e
}

func (e *env) setup() error {
	cfg, err := config.Load(e.configPath)
	if err != nil {
		return err
	}
	e.cfg = cfg

	log, closer, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	e.log = log
	e.closers = append(e.closers, closer)
	return nil
}

// history opens the run history database, applying migrations first.
func (e *env) history() (*sql.DB, error) {
	if e.db != nil {
		return e.db, nil
	}
	path := e.cfg.Database.Path
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	if err := database.RunMigrations(path); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	e.db = db
	e.closers = append(e.closers, db)
	return db, nil
}

func (e *env) close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		_ = e.closers[i].Close()
	}
	e.closers = nil
	e.db = nil
}

// runService wires the pathfinding client and, when the database can be
// opened, the run history.
func (e *env) runService() *service.RunService {
	client := pathfinding.NewClient(e.cfg.Service.URL, e.cfg.Service.Timeout, e.log)
	runs := &service.RunService{Client: client, Log: e.log}
	if db, err := e.history(); err != nil {
		e.log.WithError(err).Warn("run history disabled")
	} else {
		runs.Runs = repository.NewRunRepo(db)
	}
	return runs
}

func (e *env) runTUI(ctx context.Context) error {
	g, err := grid.New(e.cfg.Grid.Rows, e.cfg.Grid.Cols)
	if err != nil {
		return err
	}
	e.log.WithFields(logrus.Fields{
		"service": e.cfg.Service.URL,
		"rows":    g.Rows(),
		"cols":    g.Cols(),
	}).Info("starting editor")

	app := tui.New(ctx, g, e.runService(), tui.Options{
		Algorithm: e.cfg.Algorithm(),
		ExportDir: e.cfg.UI.ExportDir,
		Log:       e.log,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
