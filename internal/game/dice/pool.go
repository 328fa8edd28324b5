package dice

// ResolvePool rolls p against src using DefaultMaxExplosionDepth.
//
// Precondition: src must be non-nil.
// Postcondition: see ResolvePoolCapped.
func ResolvePool(p Pool, src Source) PoolResult {
	return ResolvePoolCapped(p, src, DefaultMaxExplosionDepth)
}

// ResolvePoolCapped rolls p against src. Each original face at or above the
// target number is a success. When the pool is specialized every 10 grants an
// extra die, which may itself explode, up to maxDepth extra dice per chain.
// Botch is judged against the original faces only.
//
// Precondition: src must be non-nil.
// Postcondition: a pool that normalizes to zero dice returns CannotAct with no
// faces and src is never consulted; otherwise len(Faces) == Size.
func ResolvePoolCapped(p Pool, src Source, maxDepth int) PoolResult {
	p = p.Normalize()
	if p.Size == 0 {
		return PoolResult{Pool: p, CannotAct: true}
	}
	if maxDepth < 0 {
		maxDepth = 0
	}

	res := PoolResult{Pool: p, Faces: make([]int, p.Size)}
	for i := range res.Faces {
		res.Faces[i] = rollD10(src)
	}
	res.Successes = CountSuccesses(res.Faces, p.TargetNumber)

	if p.Specialized {
		for _, f := range res.Faces {
			face := f
			for depth := 0; face == Sides && depth < maxDepth; depth++ {
				face = rollD10(src)
				res.Explosions = append(res.Explosions, face)
			}
		}
		res.Successes += CountSuccesses(res.Explosions, p.TargetNumber)
	}

	res.Botch = res.Successes == 0 && res.Ones() > 0
	return res
}

// CountSuccesses returns how many faces are at or above targetNumber.
func CountSuccesses(faces []int, targetNumber int) int {
	n := 0
	for _, f := range faces {
		if f >= targetNumber {
			n++
		}
	}
	return n
}

// RollD10 rolls a single d10 against src.
//
// Postcondition: 1 <= result <= 10.
func RollD10(src Source) int {
	return rollD10(src)
}

func rollD10(src Source) int {
	return src.Intn(Sides) + 1
}
