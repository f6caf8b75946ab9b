package rng

import "github.com/kasuganosora/arenasurvival/game/geom"

// Fixed is a scripted Source for deterministic tests. Each call consumes
// the next queued value; an exhausted queue falls back to the zero roll
// (disc centre, zero clamped into the int range, no chance).
type Fixed struct {
	Points []geom.Vec2
	Ints   []int
	Rolls  []bool
}

func (f *Fixed) InsideUnitCircle() geom.Vec2 {
	if len(f.Points) == 0 {
		return geom.Vec2{}
	}
	p := f.Points[0]
	f.Points = f.Points[1:]
	return p
}

func (f *Fixed) RangeInt(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	v := 0
	if len(f.Ints) > 0 {
		v = f.Ints[0]
		f.Ints = f.Ints[1:]
	}
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v
}

func (f *Fixed) Chance(float64) bool {
	if len(f.Rolls) == 0 {
		return false
	}
	r := f.Rolls[0]
	f.Rolls = f.Rolls[1:]
	return r
}
