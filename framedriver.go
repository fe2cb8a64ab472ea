package fluidsim

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// FrameInput is everything the host loop supplies for one call to Submit
// (§4.7): the wall-clock delta since the previous frame, this frame's
// mouse sample, pause/single-step state, and an optional reset request.
type FrameInput struct {
	RealDtime  float32
	Mouse      MouseState
	Reset      *InitialConditions
	Paused     bool
	SingleStep bool
}

// FrameDriver orchestrates §4.4-§4.6 for one device: it writes the
// per-frame uniforms, runs an optional reset, dispatches the full pass
// sequence once per substep, and resolves the timestamp query set into
// its readback buffer for the profiler (§4.8). It owns no GPU state of
// its own beyond what BufferSet and Pipelines already hold.
type FrameDriver struct {
	gpu       *GpuState
	bs        *BufferSet
	pipelines *Pipelines
	sortFn    func(encoder *wgpu.CommandEncoder)

	settings Settings
	graphics GraphicsSettings

	resetSeed int64
}

// NewFrameDriver wires a frame driver to an already-initialised buffer
// set and pipeline set. sortFn performs the external (keys,indices) sort
// between pre_sort and post_sort (§4.5); it is supplied by the caller
// because no pack library implements a WGSL-native radix sort.
func NewFrameDriver(gpu *GpuState, bs *BufferSet, pipelines *Pipelines, settings Settings, graphics GraphicsSettings, sortFn func(encoder *wgpu.CommandEncoder)) *FrameDriver {
	return &FrameDriver{
		gpu:       gpu,
		bs:        bs,
		pipelines: pipelines,
		sortFn:    sortFn,
		settings:  settings,
		graphics:  graphics,
	}
}

func (fd *FrameDriver) Settings() Settings            { return fd.settings }
func (fd *FrameDriver) SetSettings(s Settings)         { fd.settings = s }
func (fd *FrameDriver) Graphics() GraphicsSettings     { return fd.graphics }
func (fd *FrameDriver) SetGraphics(g GraphicsSettings) { fd.graphics = g }

// substepDtime mirrors the original's GameState.dtime(): a paused
// simulation advances only when single-stepped, and then by a fixed
// slice of real time rather than the wall-clock delta; a running
// simulation splits RealDtime*Speed evenly across StepsPerFrame
// substeps.
func (fd *FrameDriver) substepDtime(in FrameInput) float32 {
	if in.Paused {
		if in.SingleStep {
			return fd.graphics.StepTimeMs / 1000
		}
		return 0
	}
	if fd.graphics.StepsPerFrame <= 0 {
		return 0
	}
	return in.RealDtime * fd.graphics.Speed / float32(fd.graphics.StepsPerFrame)
}

// doReset writes a fresh centred, jittered grid of ic.Count() particles
// into the position buffer and clears every derived buffer (§3's reset
// contract): velocities, predictions, densities, keys, and indices/starts
// back to their sentinel values.
func (fd *FrameDriver) doReset(encoder *wgpu.CommandEncoder, ic InitialConditions) {
	fd.resetSeed++
	grid := gridPositions(ic, fd.resetSeed)

	fd.settings.NumParticles = uint32(len(grid))
	fd.bs.WriteSettings(fd.settings)

	flat := make([]float32, 2*N)
	for i, p := range grid {
		flat[2*i] = p.X()
		flat[2*i+1] = p.Y()
	}
	fd.bs.WritePositions(flat)

	zeroVec2 := make([]float32, 2*N)
	fd.gpu.queue.WriteBuffer(fd.bs.Velocities, 0, structToBytes(zeroVec2))
	fd.gpu.queue.WriteBuffer(fd.bs.Predictions, 0, structToBytes(zeroVec2))
	fd.gpu.queue.WriteBuffer(fd.bs.Densities, 0, structToBytes(zeroVec2))
	fd.bs.ResetIndices()

	dispatchOne(encoder, fd.pipelines.copyPrims, fd.pipelines.bindGroups["copy_prims"], N, fd.bs.QuerySet, uint32(len(passOrder)-1))
}

// Submit writes this frame's uniforms, optionally resets the particle
// state, runs one full pass sequence per substep (§4.7), and resolves
// the timestamp query set into the readback buffer before the command
// buffer is submitted to the queue. The returned readback buffer is only
// meaningful once its MapAsync callback fires (§4.8); the caller owns
// that mapping.
func (fd *FrameDriver) Submit(in FrameInput) *wgpu.Buffer {
	encoder, err := fd.gpu.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "fluidsim frame"})
	if err != nil {
		panic(err)
	}
	defer encoder.Release()

	fd.bs.WriteMouse(in.Mouse)

	if in.Reset != nil {
		fd.doReset(encoder, *in.Reset)
	} else {
		dt := fd.substepDtime(in)
		if dt > 0 {
			fd.settings.Dtime = dt
			fd.bs.WriteSettings(fd.settings)

			steps := fd.graphics.StepsPerFrame
			if in.Paused && in.SingleStep {
				steps = 1
			}
			for i := 0; i < steps; i++ {
				fd.pipelines.DispatchAll(encoder, fd.sortFn)
			}
		}
	}

	encoder.ResolveQuerySet(fd.bs.QuerySet, 0, 2*numPasses, fd.bs.QueryReadback, 0)

	cmdBuf, err := encoder.Finish(nil)
	if err != nil {
		panic(err)
	}
	defer cmdBuf.Release()

	fd.gpu.queue.Submit(cmdBuf)
	return fd.bs.QueryReadback
}

// Reposition recentres the mouse-world conversion the host performs
// before filling FrameInput.Mouse; it exists so collaborators (§4.9)
// share one conversion rather than reimplementing window-to-world math.
func Reposition(windowPixels mgl32.Vec2, windowSize mgl32.Vec2) mgl32.Vec2 {
	centred := windowPixels.Sub(windowSize.Mul(0.5))
	return mgl32.Vec2{centred.X() / Scale, -centred.Y() / Scale}
}
