package fluidsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimestampsToPerfConvertsTicksToMilliseconds(t *testing.T) {
	ts := make([]uint64, 2*len(passOrder))
	var tick uint64 = 1000
	for i := range ts {
		ts[i] = tick
		tick += 500
	}
	const period = float32(2.0) // ns/tick

	perf := timestampsToPerf(ts, period)

	expectedPerPass := float32(500) * period * 1e-6
	assert.InDelta(t, expectedPerPass, perf.ExternalForces, 1e-9)
	assert.InDelta(t, expectedPerPass, perf.CopyPrims, 1e-9)

	expectedTotal := float32(ts[len(ts)-1]-ts[0]) * period * 1e-6
	assert.InDelta(t, expectedTotal, perf.Total, 1e-9)
}

func TestTimestampsToPerfZeroDuration(t *testing.T) {
	ts := make([]uint64, 2*len(passOrder))
	for i := range ts {
		ts[i] = 42
	}
	perf := timestampsToPerf(ts, 1.0)
	assert.Equal(t, float32(0), perf.Total)
	assert.Equal(t, float32(0), perf.Viscosity)
}

func TestComputeShaderPerformanceStringIncludesAllPasses(t *testing.T) {
	perf := ComputeShaderPerformance{ExternalForces: 1.5, Total: 9.9}
	s := perf.String()
	assert.Contains(t, s, "external_forces")
	assert.Contains(t, s, "total")
}
