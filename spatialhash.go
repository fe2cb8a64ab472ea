package fluidsim

import "github.com/go-gl/mathgl/mgl32"

// Cell is a signed grid coordinate, sized to the SPH smoothing radius.
type Cell struct {
	X, Y int32
}

// Neighbours is the nine-cell stencil (including the centre cell) walked
// by every density/pressure/viscosity pass. The smoothing radius equals
// the cell size and every kernel is zero beyond it, so this stencil is
// always sufficient regardless of particle placement within a cell.
var Neighbours = [9]Cell{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {0, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// PosToCell buckets a world position into the uniform grid of side h.
func PosToCell(p mgl32.Vec2, h float32) Cell {
	return Cell{
		X: int32(floorDiv(p.X(), h)),
		Y: int32(floorDiv(p.Y(), h)),
	}
}

func floorDiv(v, h float32) float32 {
	q := v / h
	f := float32(int32(q))
	if q < 0 && f != q {
		f -= 1
	}
	return f
}

// CellHash mixes a cell coordinate into a 32-bit hash using wrapping
// signed arithmetic, then reinterprets the bit pattern as unsigned. Two
// distinct cells may collide; the bucket walk tolerates this because a
// per-particle distance check filters false positives downstream.
func CellHash(c Cell) uint32 {
	h := c.X*17 + c.Y*31
	return uint32(h)
}

// KeyFromHash folds a hash into [0,n), matching the size of the starts
// array. n must equal the active particle count for keys to stay within
// the starts buffer's domain.
func KeyFromHash(hash uint32, n uint32) uint32 {
	if n == 0 {
		return 0
	}
	return hash % n
}

// PosToKey composes PosToCell, CellHash, and KeyFromHash — the exact
// expression pre_sort evaluates per particle.
func PosToKey(p mgl32.Vec2, h float32, n uint32) uint32 {
	return KeyFromHash(CellHash(PosToCell(p, h)), n)
}
