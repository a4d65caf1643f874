// Command bookinv manages the book inventory from the terminal: one-shot
// subcommands for scripting and an interactive screen via "bookinv tui".
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/bookinv/internal/config"
	"github.com/JonMunkholm/bookinv/internal/inventory"
	"github.com/JonMunkholm/bookinv/internal/logging"
	"github.com/JonMunkholm/bookinv/internal/storage"
)

// app is the state shared by every subcommand. Tests fill svc directly and
// skip opening a store.
type app struct {
	cfg   *config.Config
	store storage.Backend
	svc   *inventory.Service

	in      io.Reader
	out     io.Writer
	logFile *os.File
}

func main() {
	a := &app{in: os.Stdin, out: os.Stdout}
	if err := newRootCmd(a).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Erro:", inventory.FormatUserError(err))
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "bookinv",
		Short:         "Inventário de livros",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.out)

	root.AddCommand(
		newListCmd(a),
		newGetCmd(a),
		newAddCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newSearchCmd(a),
		newSummaryCmd(a),
		newImportCmd(a),
		newTUICmd(a),
	)
	return root
}

// open loads configuration, sets up logging and opens the store.
func (a *app) open(cmd *cobra.Command) error {
	if a.svc != nil {
		return nil
	}

	// A missing .env is normal; the environment alone is enough.
	_ = godotenv.Overload()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg

	if cmd.Name() == "tui" {
		// The screen belongs to the program; logs go to a file.
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		a.logFile = f
		logging.SetupWriter(f, cfg.Logging.Level, cfg.Logging.Format)
	} else {
		logging.SetupWriter(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	}

	store, err := storage.Open(context.Background(), cfg.Database)
	if err != nil {
		return err
	}
	a.store = store
	a.svc = inventory.NewService(store, cfg.Import.Labels())
	slog.Debug("store ready", "driver", cfg.Database.Driver)
	return nil
}

func (a *app) close() error {
	var err error
	if a.store != nil {
		err = a.store.Close()
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return err
}

// importOptions falls back to defaults when no configuration was loaded.
func (a *app) importOptions() (sheet string, maxSize int64) {
	if a.cfg == nil {
		return "", 0
	}
	return a.cfg.Import.Sheet, a.cfg.Import.MaxFileSize
}
