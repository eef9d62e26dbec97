package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/safar/armigera-store/internal/logkey"
)

// CurrentSchemaVersion is the record layout this build reads and writes.
const CurrentSchemaVersion = 1

// Migration rewrites the raw JSON list of one table from version From to
// From+1. Versions without a registered migration are upgraded unchanged.
type Migration struct {
	From int
	Up   func(raw []byte) ([]byte, error)
}

type schemaInfo struct {
	Version int `json:"version"`
}

// WithMigration registers m for table.
func WithMigration(table string, m Migration) Option {
	return func(db *DB) { db.migrations[table] = append(db.migrations[table], m) }
}

// WithSchemaVersion overrides the version Init upgrades tables to.
func WithSchemaVersion(v int) Option {
	return func(db *DB) { db.schemaVersion = v }
}

func (db *DB) schemaKey(table string) string {
	return db.namespace + "schema_" + table
}

// SchemaVersion returns the version recorded for table, or 0 when the table
// has never been versioned.
func (db *DB) SchemaVersion(ctx context.Context, table string) (int, error) {
	key := db.schemaKey(table)
	data, ok, err := db.medium.Read(ctx, key)
	if err != nil {
		return 0, db.unavailable("read", key, err)
	}
	if !ok {
		return 0, nil
	}
	var info schemaInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return 0, fmt.Errorf("decode %s: %w: %v", key, ErrCorruptTable, err)
	}
	return info.Version, nil
}

// Init versions every known table, running migrations where the stored
// version is behind, then seeds the admin user if one was configured.
func (db *DB) Init(ctx context.Context) error {
	for _, table := range db.Tables() {
		if err := db.upgrade(ctx, table); err != nil {
			return fmt.Errorf("upgrade %s: %w", table, err)
		}
	}

	if db.admin != nil {
		if err := db.seedAdmin(ctx); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
	}
	return nil
}

func (db *DB) upgrade(ctx context.Context, table string) error {
	l := db.tableLock(table)
	l.Lock()
	defer l.Unlock()

	stored, err := db.SchemaVersion(ctx, table)
	if err != nil {
		return err
	}
	if stored > db.schemaVersion {
		return fmt.Errorf("%w: %s is at %d, build supports %d", ErrSchemaTooNew, table, stored, db.schemaVersion)
	}
	if stored == db.schemaVersion {
		return nil
	}

	key := db.Key(table)
	raw, present, err := db.medium.Read(ctx, key)
	if err != nil {
		return db.unavailable("read", key, err)
	}

	// an unversioned table predates versioning and is treated as version 1
	from := stored
	if from == 0 {
		from = 1
	}
	if present {
		for v := from; v < db.schemaVersion; v++ {
			for _, m := range db.migrations[table] {
				if m.From != v {
					continue
				}
				if raw, err = m.Up(raw); err != nil {
					return fmt.Errorf("migrate %s from %d: %w", table, v, err)
				}
			}
		}
		if from < db.schemaVersion {
			if err := db.medium.Write(ctx, key, raw); err != nil {
				return db.unavailable("write", key, err)
			}
		}
	}

	info, err := json.Marshal(schemaInfo{Version: db.schemaVersion})
	if err != nil {
		return err
	}
	if err := db.medium.Write(ctx, db.schemaKey(table), info); err != nil {
		return db.unavailable("write", db.schemaKey(table), err)
	}

	db.log.Info("table schema versioned",
		slog.String(logkey.Table, table),
		slog.Int("from", stored),
		slog.Int(logkey.Version, db.schemaVersion))
	return nil
}

func (db *DB) seedAdmin(ctx context.Context) error {
	_, err := db.UserByEmail(ctx, db.admin.Email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	u, err := db.Users().Create(ctx, *db.admin)
	if err != nil {
		return err
	}
	db.log.Info("admin user seeded", slog.String(logkey.ID, u.ID), slog.String("email", u.Email))
	return nil
}
