// Package env provides a structure for managing application-wide dependencies.
package env

import (
	"context"
	"log/slog"

	"github.com/idoBeitOn/MealMate/internal/config"
	"github.com/idoBeitOn/MealMate/internal/database"
	"github.com/idoBeitOn/MealMate/internal/filestore"
	"github.com/idoBeitOn/MealMate/internal/log"
)

type Env struct {
	Logger    *slog.Logger
	Database  database.Store
	FileStore filestore.FileStore
	Config    config.Config
}

func New(logger *slog.Logger, db database.Store, fs filestore.FileStore, conf config.Config) *Env {
	if logger == nil {
		logger = log.NullLogger()
	}

	return &Env{
		Logger:    logger,
		Database:  db,
		FileStore: fs,
		Config:    conf,
	}
}

type envKeyType struct{}

var envKey envKeyType

// WithCtx injects the environment into a context.
func WithCtx(ctx context.Context, e *Env) context.Context {
	return context.WithValue(ctx, envKey, e)
}

// EnvFromCtx extracts the environment from a context. A null environment
// is returned when none was injected, so callers can log unconditionally.
func EnvFromCtx(ctx context.Context) *Env {
	if e, ok := ctx.Value(envKey).(*Env); ok {
		return e
	}
	return &Env{Logger: log.NullLogger()}
}
