package fluidsim

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/floats"
)

// HostState is the pure-Go mirror of the GPU buffer set (§4.4): every
// slice here corresponds 1:1 to a device storage buffer, sized to N with
// only the first NumParticles entries meaningful. It exists so the ten
// compute passes can be exercised, profiled, and tested without a GPU
// device — the "CPU reference path" every testable property in §8 is
// written against, and the data source for `fluidsim profile`.
type HostState struct {
	Settings Settings
	Mouse    MouseState

	Positions   []mgl32.Vec2
	Predictions []mgl32.Vec2
	Velocities  []mgl32.Vec2
	Densities   []mgl32.Vec2 // x=density, y=near-density

	Keys    []uint32
	Indices []uint32
	Starts  []uint32

	Primitives []Primitive
}

// NewHostState allocates a fully sentinel-initialised host state sized N.
func NewHostState() *HostState {
	s := &HostState{
		Settings:    DefaultSettings(),
		Positions:   make([]mgl32.Vec2, N),
		Predictions: make([]mgl32.Vec2, N),
		Velocities:  make([]mgl32.Vec2, N),
		Densities:   make([]mgl32.Vec2, N),
		Keys:        make([]uint32, N),
		Indices:     make([]uint32, N),
		Starts:      make([]uint32, N),
		Primitives:  make([]Primitive, N),
	}
	for i := range s.Indices {
		s.Indices[i] = Sentinel
		s.Starts[i] = Sentinel
	}
	return s
}

// Reset places NumParticles = ic.Count() particles on an
// ic.ParticlesX × ic.ParticlesY grid spaced by ic.Gap, centred at the
// origin, with a small deterministic per-particle jitter (bounded by
// 1/50 world units) so a resting grid doesn't start perfectly aligned
// with the spatial-hash cell boundaries. Velocities, predictions,
// densities, and keys are cleared to zero and indices and starts to the
// sentinel; only
// copy_prims is run afterwards, matching §3's reset contract.
func (s *HostState) Reset(ic InitialConditions, seed int64) {
	n := ic.Count()
	if n > N {
		n = N
	}
	s.Settings.NumParticles = uint32(n)

	grid := gridPositions(ic, seed)
	for idx := 0; idx < n; idx++ {
		s.Positions[idx] = grid[idx]
		s.Velocities[idx] = mgl32.Vec2{}
		s.Predictions[idx] = mgl32.Vec2{}
		s.Densities[idx] = mgl32.Vec2{}
	}
	for i := 0; i < n; i++ {
		s.Keys[i] = 0
		s.Indices[i] = Sentinel
	}
	for i := 0; i < N; i++ {
		s.Starts[i] = Sentinel
	}

	s.HostCopyPrims()
}

func activeCount(s *HostState) int {
	n := int(s.Settings.NumParticles)
	if n > N {
		n = N
	}
	return n
}

// HostExternalForces mirrors compute pass #1: gravity plus an optional
// mouse-driven pull/push force attenuated linearly with distance.
func (s *HostState) HostExternalForces() {
	n := activeCount(s)
	set := s.Settings
	for i := 0; i < n; i++ {
		v := s.Velocities[i]
		v = v.Add(mgl32.Vec2{0, -set.Gravity * set.Dtime})

		if s.Mouse.Active() {
			toCursor := s.Mouse.Position.Sub(s.Positions[i])
			dist := toCursor.Len()
			if dist < set.InteractionRadius && dist > 1e-6 {
				dir := toCursor.Normalize()
				falloff := 1 - dist/set.InteractionRadius
				strength := set.InteractionStrength * falloff * s.Mouse.Intensity()
				v = v.Add(dir.Mul(strength * set.Dtime))

				along := dir.Dot(v)
				v = v.Sub(dir.Mul(along * falloff * set.Dtime))
			}
		}
		s.Velocities[i] = v
	}
}

// HostUpdatePredictions mirrors pass #2: predictions = positions +
// velocities * PredictionLookahead, a constant independent of dtime.
func (s *HostState) HostUpdatePredictions() {
	n := activeCount(s)
	for i := 0; i < n; i++ {
		s.Predictions[i] = s.Positions[i].Add(s.Velocities[i].Mul(PredictionLookahead))
	}
}

// HostPreSort mirrors pass #3: seed starts to the sentinel, indices to
// the identity permutation, and keys to each particle's bucket key.
func (s *HostState) HostPreSort() {
	n := activeCount(s)
	r := s.Settings.SmoothingRadius
	for i := 0; i < N; i++ {
		s.Starts[i] = Sentinel
	}
	for i := 0; i < n; i++ {
		s.Indices[i] = uint32(i)
		s.Keys[i] = PosToKey(s.Predictions[i], r, s.Settings.NumParticles)
	}
}

// HostSort is the CPU twin of the external (keys,indices) sort slotted
// between pre_sort and post_sort.
func (s *HostState) HostSort() {
	n := activeCount(s)
	SortPairs(s.Keys, s.Indices, n)
}

// HostPostSort mirrors pass #4: record, for each key that actually
// occurs, the smallest sorted index at which it occurs.
func (s *HostState) HostPostSort() {
	n := activeCount(s)
	for i := 0; i < n; i++ {
		if i == 0 || s.Keys[i] != s.Keys[i-1] {
			s.Starts[s.Keys[i]] = uint32(i)
		}
	}
}

// bucketWalk invokes fn(j) for every candidate neighbour index found in
// the nine-cell stencil centred on cell, using the starts/keys/indices
// triple exactly as the device kernels do.
func (s *HostState) bucketWalk(cell Cell, n uint32, fn func(j int)) {
	for _, off := range Neighbours {
		key := KeyFromHash(CellHash(Cell{cell.X + off.X, cell.Y + off.Y}), n)
		start := s.Starts[key]
		if start == Sentinel {
			continue
		}
		for i := int(start); i < int(n) && s.Keys[i] == key; i++ {
			fn(int(s.Indices[i]))
		}
	}
}

// HostUpdateDensities mirrors pass #5.
func (s *HostState) HostUpdateDensities() {
	n := activeCount(s)
	set := s.Settings
	r := set.SmoothingRadius
	un := uint32(n)

	for i := 0; i < n; i++ {
		cell := PosToCell(s.Predictions[i], r)
		var density, nearDensity float32
		s.bucketWalk(cell, un, func(j int) {
			d := s.Predictions[j].Sub(s.Predictions[i]).Len()
			density += set.Mass * SmoothingKernel(d, r)
			nearDensity += set.Mass * NearSmoothingKernel(d, r)
		})
		s.Densities[i] = mgl32.Vec2{density, nearDensity}
	}
}

// pressureDirection resolves a deterministic, bounded unit vector for two
// near-coincident particles, seeded by the particle's own density so the
// choice is reproducible and frame-stable (§9 design note).
func pressureDirection(density float32) mgl32.Vec2 {
	angle := density
	return mgl32.Vec2{float32(math.Cos(float64(angle))), float32(math.Sin(float64(angle)))}
}

// HostPressureForce mirrors pass #6: symmetric (Newton's-third-law)
// regular + near pressure forces.
func (s *HostState) HostPressureForce() {
	n := activeCount(s)
	set := s.Settings
	r := set.SmoothingRadius
	un := uint32(n)

	pressures := make([]float32, n)
	nearPressures := make([]float32, n)
	for i := 0; i < n; i++ {
		pressures[i] = DensityToPressure(s.Densities[i].X(), set.TargetDensity, set.PressureMultiplier)
		nearPressures[i] = NearDensityToPressure(s.Densities[i].Y(), set.NearPressureMultiplier)
	}

	for i := 0; i < n; i++ {
		cell := PosToCell(s.Predictions[i], r)
		var force mgl32.Vec2
		s.bucketWalk(cell, un, func(j int) {
			if j == i {
				return
			}
			offset := s.Predictions[j].Sub(s.Predictions[i])
			dist := offset.Len()
			if dist >= r {
				return
			}

			var dir mgl32.Vec2
			if dist < 1e-6 {
				dir = pressureDirection(s.Densities[i].X())
			} else {
				dir = offset.Mul(1 / dist)
			}

			sharedPressure := (pressures[i] + pressures[j]) / 2
			sharedNearPressure := (nearPressures[i] + nearPressures[j]) / 2

			grad := SmoothingKernelDerivative(dist, r)
			nearGrad := NearSmoothingKernelDerivative(dist, r)

			if s.Densities[j].X() > 1e-8 {
				force = force.Add(dir.Mul(sharedPressure * grad / s.Densities[j].X()))
			}
			if s.Densities[j].Y() > 1e-8 {
				force = force.Add(dir.Mul(sharedNearPressure * nearGrad / s.Densities[j].Y()))
			}
		})

		if s.Densities[i].X() > 1e-8 {
			accel := force.Mul(1 / s.Densities[i].X())
			s.Velocities[i] = s.Velocities[i].Add(accel.Mul(set.Dtime / set.Mass))
		}
	}
}

// HostViscosity mirrors pass #7: a Laplacian-style velocity average that
// damps relative motion between nearby particles.
func (s *HostState) HostViscosity() {
	n := activeCount(s)
	set := s.Settings
	r := set.SmoothingRadius
	un := uint32(n)

	deltas := make([]mgl32.Vec2, n)
	for i := 0; i < n; i++ {
		cell := PosToCell(s.Predictions[i], r)
		var sum mgl32.Vec2
		s.bucketWalk(cell, un, func(j int) {
			if j == i {
				return
			}
			d := s.Predictions[j].Sub(s.Predictions[i]).Len()
			w := ViscositySmoothingKernel(d, r)
			sum = sum.Add(s.Velocities[j].Sub(s.Velocities[i]).Mul(w))
		})
		deltas[i] = sum.Mul(set.ViscosityStrength * set.Dtime)
	}
	for i := 0; i < n; i++ {
		s.Velocities[i] = s.Velocities[i].Add(deltas[i])
	}
}

// HostUpdatePositions mirrors pass #8.
func (s *HostState) HostUpdatePositions() {
	n := activeCount(s)
	dt := s.Settings.Dtime
	for i := 0; i < n; i++ {
		s.Positions[i] = s.Positions[i].Add(s.Velocities[i].Mul(dt))
	}
}

// HostCollide mirrors pass #9: per-axis clamp against the window bounds
// (in world units), inverting and damping the velocity component that
// crossed the boundary.
func (s *HostState) HostCollide() {
	n := activeCount(s)
	set := s.Settings
	halfX := set.WindowSize.X()/(2*Scale) - set.ParticleRadius
	halfY := set.WindowSize.Y()/(2*Scale) - set.ParticleRadius

	for i := 0; i < n; i++ {
		p := s.Positions[i]
		v := s.Velocities[i]

		if px := p.X(); px < -halfX || px > halfX {
			p = mgl32.Vec2{float32(math.Copysign(float64(halfX), float64(px))), p.Y()}
			v = mgl32.Vec2{-v.X() * set.CollisionDamping, v.Y()}
		}
		if py := p.Y(); py < -halfY || py > halfY {
			p = mgl32.Vec2{p.X(), float32(math.Copysign(float64(halfY), float64(py)))}
			v = mgl32.Vec2{v.X(), -v.Y() * set.CollisionDamping}
		}

		s.Positions[i] = p
		s.Velocities[i] = v
	}
}

// HostCopyPrims mirrors pass #10: write screen-space translation and
// sample the velocity gradient for colour. Idempotent: running it twice
// in a row with no intervening pass yields identical output (§8 item 3).
func (s *HostState) HostCopyPrims() {
	n := activeCount(s)
	for i := 0; i < n; i++ {
		speed := s.Velocities[i].Len()
		if speed > MaxVelocity {
			speed = MaxVelocity
		}
		t := speed / MaxVelocity
		color := VelocityGradient.Sample(t)
		s.Primitives[i] = Primitive{
			Color:     color,
			Translate: s.Positions[i].Mul(Scale),
			ZIndex:    0,
		}
	}
}

// Step runs the full ten-pass (plus sort) sequence once, mirroring the frame
// driver's per-substep dispatch order (§4.7).
func (s *HostState) Step() {
	s.HostExternalForces()
	s.HostUpdatePredictions()
	s.HostPreSort()
	s.HostSort()
	s.HostPostSort()
	s.HostUpdateDensities()
	s.HostPressureForce()
	s.HostViscosity()
	s.HostUpdatePositions()
	s.HostCollide()
	s.HostCopyPrims()
}

// StepTimed runs the same sequence as Step but wall-clock-times each pass
// individually, for `fluidsim profile` (§3 ambient CLI): there is no
// timestamp query set on the CPU path, so wall time is the only signal
// available, unlike the device path's timestampsToPerf.
func (s *HostState) StepTimed() ComputeShaderPerformance {
	var perf ComputeShaderPerformance
	total := time.Now()

	timed := func(fn func()) float32 {
		start := time.Now()
		fn()
		return float32(time.Since(start).Seconds() * 1000)
	}

	perf.ExternalForces = timed(s.HostExternalForces)
	perf.UpdatePredictions = timed(s.HostUpdatePredictions)
	perf.PreSort = timed(s.HostPreSort)
	perf.PreSort += timed(func() { s.HostSort() })
	perf.PostSort = timed(s.HostPostSort)
	perf.UpdateDensities = timed(s.HostUpdateDensities)
	perf.PressureForce = timed(s.HostPressureForce)
	perf.Viscosity = timed(s.HostViscosity)
	perf.UpdatePositions = timed(s.HostUpdatePositions)
	perf.Collide = timed(s.HostCollide)
	perf.CopyPrims = timed(s.HostCopyPrims)

	perf.Total = float32(time.Since(total).Seconds() * 1000)
	return perf
}

// KineticEnergy sums 1/2*m*|v|^2 over active particles, used by the
// dissipation test (§8 item 4).
func (s *HostState) KineticEnergy() float64 {
	n := activeCount(s)
	mass := float64(s.Settings.Mass)
	samples := make([]float64, n)
	for i := 0; i < n; i++ {
		v := s.Velocities[i]
		samples[i] = 0.5 * mass * float64(v.Dot(v))
	}
	return floats.Sum(samples)
}

// MeanPosition averages active particle positions, used by the reset
// test (§8 item 2).
func (s *HostState) MeanPosition() mgl32.Vec2 {
	n := activeCount(s)
	if n == 0 {
		return mgl32.Vec2{}
	}
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i] = float64(s.Positions[i].X())
		ys[i] = float64(s.Positions[i].Y())
	}
	return mgl32.Vec2{
		float32(floats.Sum(xs) / float64(n)),
		float32(floats.Sum(ys) / float64(n)),
	}
}
