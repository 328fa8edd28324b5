package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged pool resolution.
// All rolls are logged at debug level with pool, faces, explosions, successes and botch.
type Roller struct {
	src      Source
	logger   *zap.Logger
	maxDepth int
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src and logger must be non-nil; maxDepth <= 0 selects DefaultMaxExplosionDepth.
func NewLoggedRoller(src Source, logger *zap.Logger, maxDepth int) *Roller {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxExplosionDepth
	}
	return &Roller{src: src, logger: logger, maxDepth: maxDepth}
}

// Roll resolves p and logs the result at debug level.
//
// Postcondition: result logged; returns the PoolResult.
func (r *Roller) Roll(p Pool) PoolResult {
	res := ResolvePoolCapped(p, r.src, r.maxDepth)
	if res.CannotAct {
		r.logger.Debug("dice pool refused",
			zap.String("pool", res.Pool.String()),
		)
		return res
	}
	r.logger.Debug("dice pool",
		zap.String("pool", res.Pool.String()),
		zap.Ints("faces", res.Faces),
		zap.Ints("explosions", res.Explosions),
		zap.Int("successes", res.Successes),
		zap.Bool("botch", res.Botch),
	)
	return res
}

// RollD10 rolls and logs a single d10, labelled with purpose.
func (r *Roller) RollD10(purpose string) int {
	face := RollD10(r.src)
	r.logger.Debug("d10", zap.String("purpose", purpose), zap.Int("face", face))
	return face
}
