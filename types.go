package fluidsim

import "github.com/go-gl/mathgl/mgl32"

// N is the fixed upper bound on particle count. Every GPU buffer is sized
// to N; the active count n (Settings.NumParticles) may be anything ≤ N.
// Every compute pass except pre_sort early-exits once the global
// invocation id reaches n, leaving the unused tail of its buffers
// untouched. pre_sort does not: for ids ≥ n it writes the sentinel to
// starts and keys and the id itself to indices, and the device sort then
// runs over all N entries.
const N = 16384

// W is the compute workgroup size shared by all ten passes. dispatchCount
// gives ceil(n/W) workgroups in the x dimension, and every pass is
// dispatched with n = N, not with the active count (see DispatchAll).
const W = 256

// Scale is the fixed pixels-per-world-unit used when copying simulation
// positions into screen-space primitive translations.
const Scale = 100.0

// MaxVelocity bounds the velocity magnitude used to sample the render
// gradient in copy_prims; speeds above it saturate at the last stop.
const MaxVelocity = 15.0

// PredictionLookahead is the constant time horizon used by
// update_predictions. It is deliberately not tied to dtime: varying it
// destabilises the pressure solver.
const PredictionLookahead = 1.0 / 120.0

// Sentinel is the "empty"/"none" marker used by indices and starts.
const Sentinel = ^uint32(0)

// Settings is the 64-byte packed uniform record shared between host and
// device. Field order and padding are load-bearing: both sides must agree
// byte-for-byte. Defaults match a stable resting fluid at rest under
// gravity with moderate damping.
type Settings struct {
	Dtime               float32    `yaml:"dtime"`
	Gravity             float32    `yaml:"gravity"`
	CollisionDamping    float32    `yaml:"collision_damping"`
	SmoothingRadius     float32    `yaml:"smoothing_radius"`
	TargetDensity       float32    `yaml:"target_density"`
	PressureMultiplier  float32    `yaml:"pressure_multiplier"`
	Mass                float32    `yaml:"mass"`
	InteractionRadius   float32    `yaml:"interaction_radius"`
	InteractionStrength float32    `yaml:"interaction_strength"`
	ViscosityStrength   float32    `yaml:"viscosity_strength"`
	NumParticles        uint32     `yaml:"num_particles"`
	ParticleRadius      float32    `yaml:"particle_radius"`
	WindowSize          mgl32.Vec2 `yaml:"-"`
	_pad1               uint32

	// NearPressureMultiplier trails _pad1 rather than sitting with the
	// other multipliers: it must match the device struct's byte offset
	// (64-byte record, window_size at offset 48) exactly.
	NearPressureMultiplier float32 `yaml:"near_pressure_multiplier"`
}

// DefaultSettings mirrors the reference scenario's resting defaults.
func DefaultSettings() Settings {
	return Settings{
		Dtime:                  0.002,
		Gravity:                9.8,
		CollisionDamping:       0.40,
		SmoothingRadius:        0.60,
		TargetDensity:          20.0,
		NearPressureMultiplier: 18.0,
		PressureMultiplier:     500.0,
		ViscosityStrength:      0.12,
		InteractionRadius:      4.0,
		InteractionStrength:    65.0,
		WindowSize:             mgl32.Vec2{1280, 720},
		NumParticles:           80 * 80,
		Mass:                   1.0,
		ParticleRadius:         0.045,
	}
}

const (
	mouseLeftBit  uint32 = 1 << 0
	mouseRightBit uint32 = 1 << 1
)

// MouseState is the uniform record carrying cursor position (in
// simulation world-space, already re-centred) and button state, written
// by the host whenever either changes.
type MouseState struct {
	Position  mgl32.Vec2
	ClickMask uint32
	_pad      uint32
}

func (m MouseState) Active() bool { return m.ClickMask&(mouseLeftBit|mouseRightBit) != 0 }
func (m MouseState) Left() bool   { return m.ClickMask&mouseLeftBit != 0 }
func (m MouseState) Right() bool  { return m.ClickMask&mouseRightBit != 0 }

// Intensity returns +1 for an attracting (left) click, -1 for a repelling
// (right) click, and 0 when neither button is held. Holding both cancels.
func (m MouseState) Intensity() float32 {
	switch {
	case m.Left() && !m.Right():
		return 1
	case m.Right() && !m.Left():
		return -1
	default:
		return 0
	}
}

func NewMouseState(pos mgl32.Vec2, left, right bool) MouseState {
	var mask uint32
	if left {
		mask |= mouseLeftBit
	}
	if right {
		mask |= mouseRightBit
	}
	return MouseState{Position: pos, ClickMask: mask}
}

// Primitive is the per-particle draw record consumed by the (out-of-scope)
// vertex stage: colour, screen-space translation, and a z-index used to
// keep draw order stable.
type Primitive struct {
	Color     [4]float32
	Translate mgl32.Vec2
	ZIndex    int32
	_pad      uint32
}

// Globals is the per-frame uniform the vertex stage reads alongside
// Primitive: viewport resolution, scroll offset, and zoom.
type Globals struct {
	Resolution mgl32.Vec2
	Scroll     mgl32.Vec2
	Zoom       float32
	_pad1      float32
	_pad2      mgl32.Vec2
}

// InitialConditions describes a reset: an nx×ny grid of particles spaced
// by gap world-units, centred at the origin.
type InitialConditions struct {
	ParticlesX int     `yaml:"particles_x"`
	ParticlesY int     `yaml:"particles_y"`
	Gap        float32 `yaml:"gap"`
}

func DefaultInitialConditions() InitialConditions {
	return InitialConditions{ParticlesX: 80, ParticlesY: 80, Gap: 0.05}
}

func (ic InitialConditions) Count() int {
	return ic.ParticlesX * ic.ParticlesY
}

// GraphicsSettings controls the host-side substep clock: how much faster
// than real time the simulation runs, how long a single-step advances
// while paused, and how many substeps each rendered frame is split into.
type GraphicsSettings struct {
	Speed         float32 `yaml:"speed"`
	StepTimeMs    float32 `yaml:"step_time"`
	StepsPerFrame int     `yaml:"steps_per_frame"`
}

func DefaultGraphicsSettings() GraphicsSettings {
	return GraphicsSettings{Speed: 1.6, StepTimeMs: 6.0, StepsPerFrame: 3}
}

// SimulationConfig is the scenario document loadable from YAML: the
// device-facing Settings, the host-facing GraphicsSettings, and the reset
// grid shape.
type SimulationConfig struct {
	Settings          Settings          `yaml:"settings"`
	Graphics          GraphicsSettings  `yaml:"graphics"`
	InitialConditions InitialConditions `yaml:"initial_conditions"`
}
