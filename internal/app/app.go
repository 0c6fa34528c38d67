package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/five82/tally/internal/config"
	"github.com/five82/tally/internal/prefs"
	"github.com/five82/tally/internal/report"
	"github.com/five82/tally/internal/store"
	"github.com/five82/tally/internal/todo"
	"github.com/five82/tally/internal/ui"
)

// Options configure the tally application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/tally/prefs.toml
	ScriptPath string // overrides the config's script
	Print      bool   // print the history report instead of starting the UI

	// Stdout receives the report. Nil means os.Stdout, with colour and the
	// UI enabled when it is a terminal.
	Stdout io.Writer
}

// Run builds the store, replays the startup script and then either prints
// the history report or runs the TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	logFile, err := openLog(cfg.LogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := log.New(logFile, "", log.LstdFlags)

	s := store.New(todo.Initial(), todo.Handlers(),
		store.WithRetention(cfg.HistoryLimit),
		store.WithLogger(logger),
	)

	script := cfg.Script
	if strings.TrimSpace(opts.ScriptPath) != "" {
		if script, err = config.ExpandPath(opts.ScriptPath); err != nil {
			return fmt.Errorf("resolve script path: %w", err)
		}
	}
	if script != "" {
		if _, err := ReplayFile(ctx, s, script, logger); err != nil {
			return fmt.Errorf("replay script: %w", err)
		}
	}

	out, tty := opts.Stdout, false
	if out == nil {
		out = os.Stdout
		fd := os.Stdout.Fd()
		tty = isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
	if opts.Print || !tty {
		return report.Write(out, s.History(), report.Options{Color: tty})
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	return ui.Run(ui.Options{
		Context:   ctx,
		Store:     s,
		Logger:    logger,
		LogPath:   cfg.LogFile,
		ThemeName: userPrefs.Theme,
		PrefsPath: prefsPath,
		View:      userPrefs.View,
	})
}

func openLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	return f, nil
}
