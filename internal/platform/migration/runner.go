// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package migration brings the auth schema up to date at startup.

Migrations are read from the files embedded in the binary unless a directory
override is configured, which is how operators test a hotfix migration
without a rebuild. A dirty schema stops the boot; it needs a human.
*/
package migration

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// Registers the "pgx5" database scheme.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source"
	// Registers the "file" source scheme used by directory overrides.
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Source says where migration files come from.
type Source struct {
	// FS and Dir locate embedded files. Used when Path is empty.
	FS  fs.FS
	Dir string

	// Path is a directory on disk that overrides FS.
	Path string
}

// Result reports what [RunUp] did.
type Result struct {
	From    uint
	To      uint
	Applied bool
}

/*
RunUp applies every pending UP migration.

Parameters:
  - dsn: postgres:// or postgresql:// URL
  - src: embedded files or a directory override
  - logger: receives progress and, when verbose, golang-migrate's own lines

Returns:
  - Result: versions before and after
  - error: initialisation failures, a dirty schema or a failed step
*/
func RunUp(dsn string, src Source, logger *slog.Logger, verbose bool) (Result, error) {
	migrator, err := open(dsn, src)
	if err != nil {
		return Result{}, fmt.Errorf("migration: failed to initialize: %w", err)
	}
	defer func() {
		if sourceError, dbError := migrator.Close(); sourceError != nil || dbError != nil {
			logger.Warn("migration_close_failed", slog.Any("source_error", sourceError), slog.Any("db_error", dbError))
		}
	}()
	migrator.Log = &migrateLogger{logger: logger, verbose: verbose}

	from, dirty, err := migrator.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		from = 0
	case err != nil:
		return Result{}, fmt.Errorf("migration: failed to read version: %w", err)
	case dirty:
		return Result{From: from}, fmt.Errorf("migration: schema is dirty at version %d", from)
	}

	logger.Info("migration_started", slog.Uint64("current_version", uint64(from)), slog.String("source", src.describe()))

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("migration_already_up_to_date")
			return Result{From: from, To: from}, nil
		}
		return Result{From: from}, fmt.Errorf("migration: up failed: %w", err)
	}

	to, _, err := migrator.Version()
	if err != nil {
		return Result{From: from}, fmt.Errorf("migration: failed to read version: %w", err)
	}
	logger.Info("migration_successful", slog.Uint64("from_version", uint64(from)), slog.Uint64("to_version", uint64(to)))

	return Result{From: from, To: to, Applied: true}, nil
}

func open(dsn string, src Source) (*migrate.Migrate, error) {
	if src.Path != "" {
		return migrate.New("file://"+src.Path, Pgx5URL(dsn))
	}

	driver, err := OpenSource(src)
	if err != nil {
		return nil, err
	}
	return migrate.NewWithSourceInstance("iofs", driver, Pgx5URL(dsn))
}

// OpenSource opens the embedded migration files as a golang-migrate source.
func OpenSource(src Source) (source.Driver, error) {
	if src.FS == nil {
		return nil, errors.New("migration: no embedded files and no path")
	}
	return iofs.New(src.FS, src.Dir)
}

func (src Source) describe() string {
	if src.Path != "" {
		return "file://" + src.Path
	}
	return "embedded"
}

// Pgx5URL rewrites postgres:// and postgresql:// URLs to the pgx5:// scheme
// of the golang-migrate pgx/v5 driver. Other inputs are returned unchanged.
func Pgx5URL(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, prefix); ok {
			return "pgx5://" + rest
		}
	}
	return dsn
}

// migrateLogger forwards golang-migrate output to slog at debug level.
type migrateLogger struct {
	logger  *slog.Logger
	verbose bool
}

func (l *migrateLogger) Printf(format string, args ...any) {
	l.logger.Debug("migration_step", slog.String("detail", strings.TrimSpace(fmt.Sprintf(format, args...))))
}

func (l *migrateLogger) Verbose() bool {
	return l.verbose
}
