// Package app wires configuration, logging, the world, storage and the
// session manager together for the commands.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/tatianab/veritas-chamber/internal/config"
	"github.com/tatianab/veritas-chamber/internal/engine"
	"github.com/tatianab/veritas-chamber/internal/logging"
	"github.com/tatianab/veritas-chamber/internal/session"
	"github.com/tatianab/veritas-chamber/internal/storage"
	"github.com/tatianab/veritas-chamber/internal/world"
)

type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	World   *world.World
	Engine  *engine.Engine
	Store   storage.Store
	Manager *session.Manager

	logCloser io.Closer
}

// New builds an App from cfg. Callers must Close it.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logger, logCloser, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	w, err := loadWorld(cfg.WorldFile)
	if err != nil {
		logCloser.Close()
		return nil, err
	}
	for _, warn := range w.Warnings() {
		logger.Warn("world definition", "warning", warn)
	}
	if reachable := len(w.Reachable()); reachable < len(w.SceneIDs()) {
		logger.Warn("unreachable scenes", "reachable", reachable, "scenes", len(w.SceneIDs()))
	}

	st, err := storage.Open(ctx, cfg)
	if err != nil {
		logCloser.Close()
		return nil, fmt.Errorf("open %s store: %w", cfg.Store, err)
	}

	eng := engine.New(w)
	logger.Info("app ready", "world", w.Title(), "scenes", len(w.SceneIDs()), "store", cfg.Store)
	return &App{
		Config:    cfg,
		Logger:    logger,
		World:     w,
		Engine:    eng,
		Store:     st,
		Manager:   session.NewManager(eng, st, logger),
		logCloser: logCloser,
	}, nil
}

func loadWorld(path string) (*world.World, error) {
	if path == "" {
		return world.Default()
	}
	return world.LoadFile(path)
}

func (a *App) Close() error {
	return errors.Join(a.Store.Close(), a.logCloser.Close())
}
