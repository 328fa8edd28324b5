// Package storage defines the actor persistence contract shared by the
// postgres and sqlite stores.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/cory-johannsen/colonial-weather/internal/game/character"
)

// ErrActorNotFound is returned when an actor lookup yields no results.
var ErrActorNotFound = errors.New("actor not found")

// ActorStore persists actor documents. Derived values are never stored.
type ActorStore interface {
	// Get returns the actor with id, or ErrActorNotFound.
	Get(ctx context.Context, id uuid.UUID) (*character.Actor, error)
	// List returns every actor ordered by name.
	List(ctx context.Context) ([]*character.Actor, error)
	// Save upserts actors in a single transaction: either all are written or none.
	Save(ctx context.Context, actors ...*character.Actor) error
	// Delete removes the actor with id, or returns ErrActorNotFound.
	Delete(ctx context.Context, id uuid.UUID) error
}

// Encode renders a as the stored JSON document.
//
// Precondition: a must be non-nil with a non-nil ID.
func Encode(a *character.Actor) ([]byte, error) {
	if a.ID == uuid.Nil {
		return nil, errors.New("actor id must not be nil")
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encoding actor %s: %w", a.ID, err)
	}
	return data, nil
}

// Decode parses a stored JSON document.
func Decode(data []byte) (*character.Actor, error) {
	var a character.Actor
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decoding actor: %w", err)
	}
	return &a, nil
}
