// Package sqlite provides an embedded, single-file actor store using modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	msqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/cory-johannsen/colonial-weather/internal/game/character"
	"github.com/cory-johannsen/colonial-weather/internal/storage"
	"github.com/cory-johannsen/colonial-weather/migrations"
)

// Store implements storage.ActorStore over one SQLite file.
type Store struct {
	db *sql.DB
}

var _ storage.ActorStore = (*Store)(nil)

// Open opens the SQLite file at path and applies the bundled migrations.
//
// Precondition: path must be non-empty; its directory must exist.
// Postcondition: Returns a ready Store or a non-nil error; the caller must Close the Store.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}
	if err := applyMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// applyMigrations runs the embedded sqlite migrations. The migrator is not
// closed because closing its driver would close db.
func applyMigrations(db *sql.DB) error {
	src, err := iofs.New(migrations.FS, migrations.SQLiteDir)
	if err != nil {
		return fmt.Errorf("opening embedded migrations: %w", err)
	}
	drv, err := msqlite.WithInstance(db, &msqlite.Config{})
	if err != nil {
		_ = src.Close()
		return fmt.Errorf("creating sqlite migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", drv)
	if err != nil {
		_ = src.Close()
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer src.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

// Health pings the database file within timeout.
func (s *Store) Health(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.db.PingContext(ctx)
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get retrieves an actor by ID.
//
// Postcondition: Returns the Actor or storage.ErrActorNotFound.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (*character.Actor, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM actors WHERE id = ?`, id.String()).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrActorNotFound
		}
		return nil, fmt.Errorf("querying actor %s: %w", id, err)
	}
	return storage.Decode([]byte(doc))
}

// List returns all actors ordered by name.
func (s *Store) List(ctx context.Context) ([]*character.Actor, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT document FROM actors ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing actors: %w", err)
	}
	defer rows.Close()

	actors := make([]*character.Actor, 0)
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scanning actor row: %w", err)
		}
		a, err := storage.Decode([]byte(doc))
		if err != nil {
			return nil, err
		}
		actors = append(actors, a)
	}
	return actors, rows.Err()
}

// Save upserts every actor inside one transaction.
//
// Postcondition: either every actor is written or the store is unchanged.
func (s *Store) Save(ctx context.Context, actors ...*character.Actor) (err error) {
	if len(actors) == 0 {
		return nil
	}
	docs := make([]string, len(actors))
	for i, a := range actors {
		data, err := storage.Encode(a)
		if err != nil {
			return err
		}
		docs[i] = string(data)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC().UnixMilli()
	for i, a := range actors {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO actors (id, name, document, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE
			SET name = excluded.name, document = excluded.document, updated_at = excluded.updated_at`,
			a.ID.String(), a.Name, docs[i], now, now,
		); err != nil {
			return fmt.Errorf("saving actor %s: %w", a.ID, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing actors: %w", err)
	}
	return nil
}

// Delete removes the actor with id.
//
// Postcondition: Returns storage.ErrActorNotFound if no row was deleted.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM actors WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("deleting actor %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting actor %s: %w", id, err)
	}
	if n == 0 {
		return storage.ErrActorNotFound
	}
	return nil
}
