// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package migrations provisions the database schema.
//
// The schema is a fixed, ordered sequence of goose units embedded into the
// binary. Every statement is idempotent, so the whole sequence can be re-run
// against a database that is already (or partially) provisioned. There are no
// down migrations.
//
// Two presentations of the same path are offered: [Migrate] applies the units
// one by one through goose and records them in the goose version table, and
// [ApplyConsolidated] runs the concatenation of all units ([Consolidated]) as
// a single script.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-strategy-forms/internal/logger"
	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var embedMigrations embed.FS

const (
	gooseUpAnnotation   = "-- +goose Up"
	gooseDownAnnotation = "-- +goose Down"
	gooseAnnotation     = "-- +goose"
)

// gooseUpTo is replaced in tests.
var gooseUpTo = goose.UpToContext

// Unit is one ordered migration file.
type Unit struct {
	// Version is the numeric prefix of the file name.
	Version int64

	// Name is the file name, e.g. "00001_create_users.sql".
	Name string

	// SQL is the up section with the goose annotations removed.
	SQL string
}

// Units returns the embedded units in the order they are applied.
func Units() ([]Unit, error) {
	entries, err := fs.ReadDir(embedMigrations, ".")
	if err != nil {
		return nil, fmt.Errorf("reading embedded migrations: %w", err)
	}

	units := make([]Unit, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".sql" {
			continue
		}

		version, err := unitVersion(entry.Name())
		if err != nil {
			return nil, err
		}

		raw, err := embedMigrations.ReadFile(entry.Name())
		if err != nil {
			return nil, fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}

		units = append(units, Unit{
			Version: version,
			Name:    entry.Name(),
			SQL:     upSection(string(raw)),
		})
	}

	return units, nil
}

// Consolidated returns all units concatenated in application order.
func Consolidated() (string, error) {
	units, err := Units()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for i, u := range units {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("-- " + u.Name + "\n")
		b.WriteString(u.SQL)
	}
	return b.String(), nil
}

// Migrate applies every unit in order through goose. It stops at the first
// failing unit and returns a *ProvisioningError naming it.
func Migrate(ctx context.Context, db *sql.DB, log *logger.Logger) error {
	if db == nil {
		return &ProvisioningError{Err: ErrNilDB}
	}
	if log == nil {
		log = logger.Nop()
	}

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(&gooseLogger{log: log})
	if err := goose.SetDialect("pgx"); err != nil {
		return &ProvisioningError{Err: fmt.Errorf("setting dialect for db: %w", err)}
	}

	units, err := Units()
	if err != nil {
		return &ProvisioningError{Err: err}
	}

	for _, u := range units {
		if err := gooseUpTo(ctx, db, ".", u.Version); err != nil {
			log.Err(err).Str("func", "migrations.Migrate").Str("unit", u.Name).Msg("migration unit failed")
			return &ProvisioningError{Unit: u.Name, Err: err}
		}
		log.Debug().Str("unit", u.Name).Msg("migration unit is up to date")
	}

	return nil
}

// ApplyConsolidated runs the consolidated script in a single transaction.
func ApplyConsolidated(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return &ProvisioningError{Unit: ConsolidatedUnit, Err: ErrNilDB}
	}

	script, err := Consolidated()
	if err != nil {
		return &ProvisioningError{Unit: ConsolidatedUnit, Err: err}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return &ProvisioningError{Unit: ConsolidatedUnit, Err: fmt.Errorf("beginning transaction: %w", err)}
	}

	if _, err = tx.ExecContext(ctx, script); err != nil {
		_ = tx.Rollback()
		return &ProvisioningError{Unit: ConsolidatedUnit, Err: err}
	}

	if err = tx.Commit(); err != nil {
		return &ProvisioningError{Unit: ConsolidatedUnit, Err: fmt.Errorf("committing transaction: %w", err)}
	}
	return nil
}

func unitVersion(name string) (int64, error) {
	prefix, _, ok := strings.Cut(name, "_")
	if !ok {
		return 0, fmt.Errorf("migration %s: %w", name, ErrUnitWithoutVersion)
	}
	version, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("migration %s: %w", name, ErrUnitWithoutVersion)
	}
	return version, nil
}

func upSection(raw string) string {
	var b strings.Builder
	inUp := false
	for _, line := range strings.SplitAfter(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, gooseUpAnnotation):
			inUp = true
			continue
		case strings.HasPrefix(trimmed, gooseDownAnnotation):
			inUp = false
			continue
		case strings.HasPrefix(trimmed, gooseAnnotation):
			continue
		}
		if inUp {
			b.WriteString(line)
		}
	}
	return strings.TrimLeft(b.String(), "\n")
}

type gooseLogger struct {
	log *logger.Logger
}

func (g *gooseLogger) Printf(format string, v ...any) {
	g.log.Info().Msgf(strings.TrimSuffix(format, "\n"), v...)
}

// Fatalf is only reached on goose internal errors. It logs instead of exiting
// so the caller still receives the returned error.
func (g *gooseLogger) Fatalf(format string, v ...any) {
	g.log.Error().Msgf(strings.TrimSuffix(format, "\n"), v...)
}
