package fluidsim

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// gridPositions lays out ic.Count() particles on an ic.ParticlesX ×
// ic.ParticlesY grid spaced by ic.Gap, centred at the origin, with a
// small deterministic per-particle jitter bounded by 1/50 world units so
// a resting grid doesn't start perfectly aligned with spatial-hash cell
// boundaries (§3's reset contract, S5). Shared by the CPU reference path
// and the GPU frame driver so both start a scenario from identical
// initial positions given the same seed.
func gridPositions(ic InitialConditions, seed int64) []mgl32.Vec2 {
	n := ic.Count()
	if n > N {
		n = N
	}
	positions := make([]mgl32.Vec2, n)

	rng := rand.New(rand.NewSource(seed))
	width := float32(ic.ParticlesX-1) * ic.Gap
	height := float32(ic.ParticlesY-1) * ic.Gap

	idx := 0
	for y := 0; y < ic.ParticlesY; y++ {
		for x := 0; x < ic.ParticlesX; x++ {
			if idx >= n {
				break
			}
			jitterX := (rng.Float32()*2 - 1) / 50
			jitterY := (rng.Float32()*2 - 1) / 50
			px := float32(x)*ic.Gap - width/2 + jitterX
			py := float32(y)*ic.Gap - height/2 + jitterY
			positions[idx] = mgl32.Vec2{px, py}
			idx++
		}
	}
	return positions
}
