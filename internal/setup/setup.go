// Package setup is responsible for setting up components.
package setup

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/idoBeitOn/MealMate/internal/config"
	"github.com/idoBeitOn/MealMate/internal/database"
	"github.com/idoBeitOn/MealMate/internal/filestore"
)

// Database creates the connection pool and applies the schema if it is
// not already present.
func Database(ctx context.Context, conf config.Config) (*database.Database, error) {
	pool, err := pgxpool.New(ctx, conf.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("creating database pool: %w", err)
	}

	db := database.NewDatabase(pool)
	if err := db.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	return db, nil
}

func FileStore(conf config.Config) (filestore.FileStore, error) {
	var fs filestore.FileStore
	volume, err := filepath.Abs(conf.Fileserver.Volume)
	if err != nil {
		return fs, fmt.Errorf("resolving fileserver volume: %w", err)
	}
	return filestore.New(volume, conf.Fileserver.URLPrefix, conf.HostOrigin), nil
}
