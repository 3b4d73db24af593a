package scene

import (
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
	"github.com/milk9111/cocoablast/ecs/system"
)

// Rand yields uniform draws in [0, 1) for spawn jitter.
type Rand = system.Rand

// NewRand returns a generator seeded from seed. Equal seeds give equal runs.
func NewRand(seed string) Rand {
	h := xxhash.Sum64String(seed)
	return rand.New(rand.NewPCG(h, h^0x9e3779b97f4a7c15))
}
