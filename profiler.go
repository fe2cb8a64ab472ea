package fluidsim

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// ComputeShaderPerformance is one frame's per-pass timing, in
// milliseconds, read back from the timestamp query set (§4.8).
type ComputeShaderPerformance struct {
	ExternalForces    float32
	UpdatePredictions float32
	PreSort           float32
	PostSort          float32
	UpdateDensities   float32
	PressureForce     float32
	Viscosity         float32
	UpdatePositions   float32
	Collide           float32
	CopyPrims         float32
	Total             float32
}

func (p ComputeShaderPerformance) String() string {
	return fmt.Sprintf(
		"Compute Shader Performance (ms):\n"+
			"  %-20s:\t%v\n  %-20s:\t%v\n  %-20s:\t%v\n  %-20s:\t%v\n"+
			"  %-20s:\t%v\n  %-20s:\t%v\n  %-20s:\t%v\n  %-20s:\t%v\n"+
			"  %-20s:\t%v\n  %-20s:\t%v\n  %-20s:\t%v\n",
		"external_forces", p.ExternalForces,
		"update_predictions", p.UpdatePredictions,
		"pre_sort", p.PreSort,
		"post_sort", p.PostSort,
		"update_densities", p.UpdateDensities,
		"pressure_force", p.PressureForce,
		"viscosity", p.Viscosity,
		"update_positions", p.UpdatePositions,
		"collide", p.Collide,
		"copy_prims", p.CopyPrims,
		"total", p.Total,
	)
}

// fieldFor returns a pointer to the field in perf corresponding to a
// passOrder entry, so timestampsToPerf can stay a loop instead of a
// ten-case switch.
func (p *ComputeShaderPerformance) fieldFor(name string) *float32 {
	switch name {
	case "external_forces":
		return &p.ExternalForces
	case "update_predictions":
		return &p.UpdatePredictions
	case "pre_sort":
		return &p.PreSort
	case "post_sort":
		return &p.PostSort
	case "update_densities":
		return &p.UpdateDensities
	case "pressure_force":
		return &p.PressureForce
	case "viscosity":
		return &p.Viscosity
	case "update_positions":
		return &p.UpdatePositions
	case "collide":
		return &p.Collide
	case "copy_prims":
		return &p.CopyPrims
	default:
		panic("unknown pass: " + name)
	}
}

// timestampsToPerf converts raw GPU timestamp ticks (period ns/tick) into
// per-pass milliseconds, mirroring the original's pipelines! @profile
// expansion: each pass's ms is (end-begin)*period*1e-6, and total spans
// the first begin to the last end.
func timestampsToPerf(timestamps []uint64, period float32) ComputeShaderPerformance {
	var perf ComputeShaderPerformance
	for i, name := range passOrder {
		begin := timestamps[2*i]
		end := timestamps[2*i+1]
		*perf.fieldFor(name) = float32(end-begin) * period * 1e-6
	}
	perf.Total = float32(timestamps[2*len(passOrder)-1]-timestamps[0]) * period * 1e-6
	return perf
}

// Profiler owns the async readback→ms pipeline for one device: it maps
// the frame driver's query readback buffer, decodes the u64 timestamp
// array, and hands the caller one ComputeShaderPerformance per frame.
// Timestamp queries are always on: createGpuState requires the
// timestamp-query device feature and every pass writes timestamps, so
// there is no code path for devices without timestamp support.
type Profiler struct {
	gpu    *GpuState
	period float32

	mu   sync.Mutex
	last ComputeShaderPerformance
}

func NewProfiler(gpu *GpuState) *Profiler {
	return &Profiler{gpu: gpu, period: gpu.queue.GetTimestampPeriod()}
}

// Latest returns the most recently completed frame's timings. Safe to
// call from the render loop while an async map callback may be running
// concurrently on another goroutine.
func (pr *Profiler) Latest() ComputeShaderPerformance {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	return pr.last
}

// Profile kicks off an async MapAsync on readback and, once it completes,
// decodes the timestamp array, stores it as Latest(), and invokes sink
// exactly once. A failed map is dropped rather than treated as fatal
// (§9: async readback failures are non-fatal); it is logged only when
// logger is non-nil, and simStepSystem passes nil.
func (pr *Profiler) Profile(readback *wgpu.Buffer, logger Logger, sink func(ComputeShaderPerformance)) {
	size := readback.GetSize()
	readback.MapAsync(wgpu.MapModeRead, 0, size, func(status wgpu.BufferMapAsyncStatus) {
		if status != wgpu.BufferMapAsyncStatusSuccess {
			if logger != nil {
				logger.Warnf("profiler: readback map failed with status %d", status)
			}
			return
		}
		defer readback.Unmap()

		data := readback.GetMappedRange(0, uint(size))
		timestamps := make([]uint64, len(data)/8)
		for i := range timestamps {
			timestamps[i] = binary.LittleEndian.Uint64(data[i*8 : i*8+8])
		}

		perf := timestampsToPerf(timestamps, pr.period)
		pr.mu.Lock()
		pr.last = perf
		pr.mu.Unlock()

		if sink != nil {
			sink(perf)
		}
	})
}
