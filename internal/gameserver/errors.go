package gameserver

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cory-johannsen/colonial-weather/internal/game/character"
	"github.com/cory-johannsen/colonial-weather/internal/game/combat"
	"github.com/cory-johannsen/colonial-weather/internal/storage"
)

// errInvalidArgument marks request validation failures.
var errInvalidArgument = errors.New("invalid argument")

// statusCode classifies err for the wire. Resource shortfalls and missing
// encounters are failed preconditions: the action aborted before any mutation.
func statusCode(err error) codes.Code {
	switch {
	case errors.Is(err, storage.ErrActorNotFound):
		return codes.NotFound
	case errors.Is(err, errInvalidArgument),
		errors.Is(err, character.ErrInvalidAdvance),
		errors.Is(err, combat.ErrNoWeapon),
		errors.Is(err, combat.ErrUnknownLocation),
		errors.Is(err, combat.ErrNoMagazine):
		return codes.InvalidArgument
	case errors.Is(err, character.ErrInsufficientXP),
		errors.Is(err, character.ErrInsufficientWillpower),
		errors.Is(err, combat.ErrNoAmmunition),
		errors.Is(err, combat.ErrCannotAct),
		errors.Is(err, combat.ErrNotInEncounter),
		errors.Is(err, combat.ErrEncounterExists):
		return codes.FailedPrecondition
	default:
		return codes.Internal
	}
}

// toStatus converts a domain error into a gRPC status error.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	return status.Error(statusCode(err), err.Error())
}
