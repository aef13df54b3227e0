package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped whenever schema.sql changes. Journals written by
// another version are refused rather than migrated.
const schemaVersion = 1

// ErrSchemaMismatch is returned by Open when the journal was created by a
// different schema version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

func (s *Store) ensureSchema(ctx context.Context) error {
	version, err := s.storedVersion(ctx)
	if err != nil {
		return err
	}
	switch version {
	case 0:
		return s.applySchema(ctx)
	case schemaVersion:
		return nil
	default:
		return fmt.Errorf("%w: journal %s is version %d, this build expects %d; remove it to start over",
			ErrSchemaMismatch, s.path, version, schemaVersion)
	}
}

// storedVersion returns 0 for a journal that has never been initialised.
func (s *Store) storedVersion(ctx context.Context) (int, error) {
	var initialised bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = 'schema_version')`,
	).Scan(&initialised); err != nil {
		return 0, fmt.Errorf("inspect journal: %w", err)
	}
	if !initialised {
		return 0, nil
	}

	var version int
	err := s.db.QueryRowContext(ctx, `SELECT version FROM schema_version LIMIT 1`).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("journal %s has no schema version row", s.path)
	}
	if err != nil {
		return 0, fmt.Errorf("read journal version: %w", err)
	}
	return version, nil
}

func (s *Store) applySchema(ctx context.Context) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin journal setup: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create journal tables: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `INSERT INTO schema_version (version) VALUES (?)`, schemaVersion); err != nil {
		return fmt.Errorf("stamp journal version: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit journal setup: %w", err)
	}
	return nil
}
