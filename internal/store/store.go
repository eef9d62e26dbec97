// Package store is a table-oriented record store over a key-value medium.
//
// Each table is persisted as one JSON list under "<namespace><table>". Every
// operation re-reads the list from the medium, and mutations rewrite it whole
// while holding the table's mutex, so callers in one process always observe
// their own writes. Two processes sharing a medium race with last-writer-wins
// semantics; that is an accepted limitation, not something the store detects.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/safar/armigera-store/internal/logkey"
	"github.com/safar/armigera-store/internal/models"
	"github.com/safar/armigera-store/internal/storage"
)

const DefaultNamespace = "armigera_"

type DB struct {
	medium        storage.Medium
	namespace     string
	now           func() time.Time
	newID         func() string
	log           *slog.Logger
	admin         *models.User
	schemaVersion int
	migrations    map[string][]Migration

	mu     sync.Mutex
	tables map[string]*sync.Mutex
}

type Option func(*DB)

func WithNamespace(ns string) Option {
	return func(db *DB) { db.namespace = ns }
}

func WithClock(now func() time.Time) Option {
	return func(db *DB) { db.now = now }
}

func WithIDs(newID func() string) Option {
	return func(db *DB) { db.newID = newID }
}

func WithLogger(l *slog.Logger) Option {
	return func(db *DB) { db.log = l }
}

// WithAdmin makes Init create u as an admin unless a user with its email
// already exists.
func WithAdmin(u models.User) Option {
	return func(db *DB) {
		u.Role = models.RoleAdmin
		db.admin = &u
	}
}

func New(medium storage.Medium, opts ...Option) *DB {
	db := &DB{
		medium:        medium,
		namespace:     DefaultNamespace,
		now:           time.Now,
		log:           slog.Default(),
		schemaVersion: CurrentSchemaVersion,
		migrations:    make(map[string][]Migration),
		tables:        make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(db)
	}
	if db.newID == nil {
		db.newID = func() string { return NewID(db.now()) }
	}
	for _, name := range DefaultTables {
		db.tableLock(name)
	}
	return db
}

// Key returns the medium key holding table.
func (db *DB) Key(table string) string {
	return db.namespace + table
}

// Now returns the store clock reading.
func (db *DB) Now() time.Time {
	return db.now()
}

func (db *DB) tableLock(table string) *sync.Mutex {
	db.mu.Lock()
	defer db.mu.Unlock()
	l, ok := db.tables[table]
	if !ok {
		l = &sync.Mutex{}
		db.tables[table] = l
	}
	return l
}

// Tables returns every table known to the store, sorted by name.
func (db *DB) Tables() []string {
	db.mu.Lock()
	defer db.mu.Unlock()
	names := make([]string, 0, len(db.tables))
	for name := range db.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (db *DB) load(ctx context.Context, table string, out any) error {
	key := db.Key(table)
	data, ok, err := db.medium.Read(ctx, key)
	if err != nil {
		return db.unavailable("read", key, err)
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w: %v", key, ErrCorruptTable, err)
	}
	return nil
}

func (db *DB) save(ctx context.Context, table string, v any) error {
	key := db.Key(table)
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := db.medium.Write(ctx, key, data); err != nil {
		return db.unavailable("write", key, err)
	}
	return nil
}

func (db *DB) remove(ctx context.Context, table string) error {
	key := db.Key(table)
	if err := db.medium.Remove(ctx, key); err != nil {
		return db.unavailable("remove", key, err)
	}
	return nil
}

func (db *DB) unavailable(op, key string, err error) error {
	db.log.Error("storage medium failure",
		slog.String("op", op),
		slog.String(logkey.Key, key),
		slog.String("class", storage.ClassifyError(err).String()),
		slog.String(logkey.ERROR, err.Error()))
	return fmt.Errorf("%s %s: %w: %w", op, key, ErrStorageUnavailable, err)
}

// creationStamper is implemented by records whose creation timestamps the
// store fills in when the caller left them zero.
type creationStamper interface {
	StampCreated(now time.Time)
}

// Table is a typed handle on one named table. P is always *T.
type Table[T any, P interface {
	*T
	models.Entity
}] struct {
	db   *DB
	name string
}

// NewTable registers name with db and returns a handle for records of type T.
func NewTable[T any, P interface {
	*T
	models.Entity
}](db *DB, name string) *Table[T, P] {
	db.tableLock(name)
	return &Table[T, P]{db: db, name: name}
}

func (t *Table[T, P]) Name() string { return t.name }

func (t *Table[T, P]) lock() func() {
	l := t.db.tableLock(t.name)
	l.Lock()
	return l.Unlock
}

func (t *Table[T, P]) read(ctx context.Context) ([]T, error) {
	var items []T
	if err := t.db.load(ctx, t.name, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Create assigns a fresh id to rec, appends it and returns the stored record.
// Any id set by the caller is replaced.
func (t *Table[T, P]) Create(ctx context.Context, rec T) (T, error) {
	var zero T
	defer t.lock()()

	items, err := t.read(ctx)
	if err != nil {
		return zero, err
	}

	P(&rec).SetID(t.db.newID())
	if s, ok := any(P(&rec)).(creationStamper); ok {
		s.StampCreated(t.db.now())
	}
	items = append(items, rec)

	if err := t.db.save(ctx, t.name, items); err != nil {
		return zero, err
	}

	t.db.log.Debug("record created", slog.String(logkey.Table, t.name), slog.String(logkey.ID, P(&rec).GetID()))
	return rec, nil
}

// GetAll returns every record in storage order, or an empty slice when the
// table was never written.
func (t *Table[T, P]) GetAll(ctx context.Context) ([]T, error) {
	defer t.lock()()
	return t.read(ctx)
}

func (t *Table[T, P]) GetByID(ctx context.Context, id string) (T, error) {
	return t.Find(ctx, func(rec *T) bool { return P(rec).GetID() == id })
}

// Find returns the first record matching pred in storage order.
func (t *Table[T, P]) Find(ctx context.Context, pred func(*T) bool) (T, error) {
	var zero T
	defer t.lock()()

	items, err := t.read(ctx)
	if err != nil {
		return zero, err
	}
	for i := range items {
		if pred(&items[i]) {
			return items[i], nil
		}
	}
	return zero, ErrNotFound
}

// Update applies patch to the record with id and returns the result. It never
// creates a record.
func (t *Table[T, P]) Update(ctx context.Context, id string, patch models.Patch[T]) (T, error) {
	var zero T
	defer t.lock()()

	items, err := t.read(ctx)
	if err != nil {
		return zero, err
	}

	for i := range items {
		if P(&items[i]).GetID() != id {
			continue
		}
		patch.Apply(&items[i])
		P(&items[i]).SetID(id)

		if err := t.db.save(ctx, t.name, items); err != nil {
			return zero, err
		}
		t.db.log.Debug("record updated", slog.String(logkey.Table, t.name), slog.String(logkey.ID, id))
		return items[i], nil
	}

	return zero, ErrNotFound
}

// Delete removes the record with id and reports whether one was removed.
func (t *Table[T, P]) Delete(ctx context.Context, id string) (bool, error) {
	defer t.lock()()

	items, err := t.read(ctx)
	if err != nil {
		return false, err
	}

	kept := items[:0]
	for _, rec := range items {
		if P(&rec).GetID() != id {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(items) {
		return false, nil
	}

	if err := t.db.save(ctx, t.name, kept); err != nil {
		return false, err
	}
	t.db.log.Debug("record deleted", slog.String(logkey.Table, t.name), slog.String(logkey.ID, id))
	return true, nil
}

// Clear drops the whole table.
func (t *Table[T, P]) Clear(ctx context.Context) error {
	defer t.lock()()
	if err := t.db.remove(ctx, t.name); err != nil {
		return err
	}
	t.db.log.Info("table cleared", slog.String(logkey.Table, t.name))
	return nil
}
