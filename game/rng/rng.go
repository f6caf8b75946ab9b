// Package rng provides the uniform random source shared by the arena
// simulation. Everything that rolls dice takes a Source so tests can
// script the outcome.
package rng

import (
	"math"
	"math/rand"

	"github.com/kasuganosora/arenasurvival/game/geom"
)

// Source is the uniform randomness the simulation consumes.
type Source interface {
	// InsideUnitCircle returns a point uniformly distributed in the unit disc.
	InsideUnitCircle() geom.Vec2
	// RangeInt returns a uniform int in [lo, hi] (both inclusive).
	RangeInt(lo, hi int) int
	// Chance returns true with probability p.
	Chance(p float64) bool
}

// Rand is a Source backed by math/rand.
type Rand struct {
	r *rand.Rand
}

// New creates a seeded Source.
func New(seed int64) *Rand {
	return &Rand{r: rand.New(rand.NewSource(seed))}
}

// InsideUnitCircle samples with sqrt-radius so density is uniform over area.
func (s *Rand) InsideUnitCircle() geom.Vec2 {
	theta := s.r.Float64() * 2 * math.Pi
	rad := math.Sqrt(s.r.Float64())
	return geom.Vec2{X: rad * math.Cos(theta), Y: rad * math.Sin(theta)}
}

func (s *Rand) RangeInt(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + s.r.Intn(hi-lo+1)
}

func (s *Rand) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return s.r.Float64() < p
}

// InDisc returns a uniform point in a disc of radius around center on the
// ground plane, lifted by height.
func InDisc(src Source, center geom.Vec3, radius, height float64) geom.Vec3 {
	c := src.InsideUnitCircle()
	return center.Add(geom.Vec3{X: c.X * radius, Y: height, Z: c.Y * radius})
}
