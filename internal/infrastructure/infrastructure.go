// Package infrastructure assembles the shared runtime systems that the
// domain modules depend on: lifecycle coordination, logging, the
// Postgres pool, and the blob archive.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/reqguard/internal/config"
	"github.com/JaimeStill/reqguard/pkg/database"
	"github.com/JaimeStill/reqguard/pkg/lifecycle"
	"github.com/JaimeStill/reqguard/pkg/storage"
)

// Infrastructure is the bundle handed to every module constructor.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
}

// New constructs the shared systems without starting them. Start
// registers their lifecycle hooks once the server is ready to run.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	archive, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   archive,
	}, nil
}

// Start hooks the database and storage systems into the lifecycle
// coordinator so they connect on startup and drain on shutdown.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	return nil
}
