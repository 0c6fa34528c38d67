package app

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/five82/tally/internal/store"
	"github.com/five82/tally/internal/todo"
)

// Replay dispatches actions in order and returns how many were committed.
// A failing dispatch is logged and skipped; only context cancellation stops
// the replay early.
func Replay(ctx context.Context, s *store.Store[todo.State], actions []store.Action, logger *log.Logger) (int, error) {
	applied := 0
	for i, a := range actions {
		if err := ctx.Err(); err != nil {
			return applied, err
		}
		if err := s.Dispatch(a); err != nil {
			logger.Printf("script action %d: dispatch %s failed: %v", i, todo.Describe(a), err)
			continue
		}
		applied++
	}
	logger.Printf("replayed %d of %d script actions", applied, len(actions))
	return applied, nil
}

// ReplayFile decodes the action script at path and replays it. Files ending
// in .yaml or .yml are converted to JSON first.
func ReplayFile(ctx context.Context, s *store.Store[todo.State], path string, logger *log.Logger) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("open script: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if data, err = yaml.YAMLToJSON(data); err != nil {
			return 0, fmt.Errorf("convert yaml script %s: %w", path, err)
		}
	}

	actions, err := todo.DecodeScript(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("decode script %s: %w", path, err)
	}
	return Replay(ctx, s, actions, logger)
}
