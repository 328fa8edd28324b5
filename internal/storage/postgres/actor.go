package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/colonial-weather/internal/game/character"
	"github.com/cory-johannsen/colonial-weather/internal/storage"
)

// ActorRepository stores actor documents as JSONB.
type ActorRepository struct {
	db *pgxpool.Pool
}

var _ storage.ActorStore = (*ActorRepository)(nil)

// NewActorRepository creates an ActorRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool with migrations applied.
func NewActorRepository(db *pgxpool.Pool) *ActorRepository {
	return &ActorRepository{db: db}
}

// Get retrieves an actor by ID.
//
// Postcondition: Returns the Actor or storage.ErrActorNotFound.
func (r *ActorRepository) Get(ctx context.Context, id uuid.UUID) (*character.Actor, error) {
	var doc []byte
	err := r.db.QueryRow(ctx, `SELECT document FROM actors WHERE id = $1`, id).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrActorNotFound
		}
		return nil, fmt.Errorf("querying actor %s: %w", id, err)
	}
	return storage.Decode(doc)
}

// List returns all actors ordered by name.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *ActorRepository) List(ctx context.Context) ([]*character.Actor, error) {
	rows, err := r.db.Query(ctx, `SELECT document FROM actors ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing actors: %w", err)
	}
	defer rows.Close()

	actors := make([]*character.Actor, 0)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scanning actor row: %w", err)
		}
		a, err := storage.Decode(doc)
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
func (r *ActorRepository) Save(ctx context.Context, actors ...*character.Actor) error {
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
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		for i, a := range actors {
			if _, err := tx.Exec(ctx, `
				INSERT INTO actors (id, name, document)
				VALUES ($1, $2, $3::jsonb)
				ON CONFLICT (id) DO UPDATE
				SET name = EXCLUDED.name, document = EXCLUDED.document, updated_at = NOW()`,
				a.ID, a.Name, docs[i],
			); err != nil {
				return fmt.Errorf("saving actor %s: %w", a.ID, err)
			}
		}
		return nil
	})
}

// Delete removes the actor with id.
//
// Postcondition: Returns storage.ErrActorNotFound if no row was deleted.
func (r *ActorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM actors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting actor %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrActorNotFound
	}
	return nil
}
