package utils

import (
	"math/rand"

	"github.com/Pallinder/go-randomdata"
)

// RandomNameGenerator hands out deterministic names that are not in the
// reserved set. Seeded once, so two runs over the same input agree.
type RandomNameGenerator struct {
	used map[string]struct{}
}

func NewRandomNameGenerator(reserved map[string]struct{}) *RandomNameGenerator {
	randomdata.CustomRand(rand.New(rand.NewSource(0)))
	used := make(map[string]struct{}, len(reserved))
	for name := range reserved {
		used[name] = struct{}{}
	}
	return &RandomNameGenerator{used: used}
}

func (rng *RandomNameGenerator) Reserve(name string) {
	rng.used[name] = struct{}{}
}

func (rng *RandomNameGenerator) Taken(name string) bool {
	_, ok := rng.used[name]
	return ok
}

func (rng *RandomNameGenerator) RandomName(limit int) string {
	for {
		name := randomdata.SillyName()
		if len(name) > limit {
			name = name[:limit]
		}
		if _, exists := rng.used[name]; !exists {
			rng.used[name] = struct{}{}
			return name
		}
	}
}
