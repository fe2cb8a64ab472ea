package fluidsim

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestFrameDriverSubstepDtimeRunning(t *testing.T) {
	fd := &FrameDriver{graphics: GraphicsSettings{Speed: 2, StepsPerFrame: 4}}
	dt := fd.substepDtime(FrameInput{RealDtime: 1.0 / 60})
	assert.InDelta(t, (1.0/60)*2/4, dt, 1e-9)
}

func TestFrameDriverSubstepDtimePausedNoStep(t *testing.T) {
	fd := &FrameDriver{graphics: GraphicsSettings{Speed: 1, StepsPerFrame: 3, StepTimeMs: 6}}
	dt := fd.substepDtime(FrameInput{RealDtime: 1.0 / 60, Paused: true})
	assert.Equal(t, float32(0), dt)
}

func TestFrameDriverSubstepDtimePausedSingleStep(t *testing.T) {
	fd := &FrameDriver{graphics: GraphicsSettings{StepTimeMs: 6}}
	dt := fd.substepDtime(FrameInput{Paused: true, SingleStep: true})
	assert.InDelta(t, 0.006, dt, 1e-9)
}

func TestFrameDriverSubstepDtimeZeroStepsPerFrame(t *testing.T) {
	fd := &FrameDriver{graphics: GraphicsSettings{Speed: 1, StepsPerFrame: 0}}
	dt := fd.substepDtime(FrameInput{RealDtime: 1.0 / 60})
	assert.Equal(t, float32(0), dt)
}

func TestGridPositionsCenteredAndJittered(t *testing.T) {
	ic := InitialConditions{ParticlesX: 3, ParticlesY: 2, Gap: 1}
	grid := gridPositions(ic, 7)
	assert.Len(t, grid, ic.Count())

	var sumX, sumY float32
	for _, p := range grid {
		sumX += p.X()
		sumY += p.Y()
	}
	n := float32(len(grid))
	assert.InDelta(t, 0, sumX/n, 0.1)
	assert.InDelta(t, 0, sumY/n, 0.1)
}

func TestGridPositionsDeterministicPerSeed(t *testing.T) {
	ic := InitialConditions{ParticlesX: 4, ParticlesY: 4, Gap: 0.2}
	a := gridPositions(ic, 3)
	b := gridPositions(ic, 3)
	assert.Equal(t, a, b)

	c := gridPositions(ic, 4)
	assert.NotEqual(t, a, c)
}

func TestGridPositionsClampsToN(t *testing.T) {
	ic := InitialConditions{ParticlesX: 200, ParticlesY: 200, Gap: 0.05}
	grid := gridPositions(ic, 1)
	assert.Len(t, grid, N)
}

func TestRepositionMapsWindowCenterToOrigin(t *testing.T) {
	windowSize := mgl32.Vec2{1280, 720}
	world := Reposition(mgl32.Vec2{640, 360}, windowSize)
	assert.InDelta(t, 0, world.X(), 1e-6)
	assert.InDelta(t, 0, world.Y(), 1e-6)
}

func TestRepositionFlipsY(t *testing.T) {
	windowSize := mgl32.Vec2{1280, 720}
	world := Reposition(mgl32.Vec2{640, 0}, windowSize)
	assert.Greater(t, world.Y(), float32(0))
}

func TestDispatchCountCeilsToWorkgroup(t *testing.T) {
	assert.Equal(t, uint32(1), dispatchCount(1))
	assert.Equal(t, uint32(1), dispatchCount(W))
	assert.Equal(t, uint32(2), dispatchCount(W+1))
	assert.Equal(t, uint32(64), dispatchCount(N))
}
