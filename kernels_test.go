package fluidsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKernelSelfTest(t *testing.T) {
	radii := []float32{0.1, 0.6, 1.0, 4.0}
	for _, r := range radii {
		assert.Greaterf(t, SmoothingKernel(0, r), float32(0), "W(0,%v) should be positive", r)
		assert.Equalf(t, float32(0), SmoothingKernel(r, r), "W(%v,%v) should be zero at the boundary", r, r)
		assert.Equalf(t, float32(0), SmoothingKernelDerivative(0, r), "∇W(0,%v) should be zero", r)
		assert.Equalf(t, float32(0), SmoothingKernelDerivative(r, r), "∇W(%v,%v) should be zero at the boundary", r, r)

		assert.Greater(t, NearSmoothingKernel(0, r), float32(0))
		assert.Equal(t, float32(0), NearSmoothingKernel(r, r))
		assert.Equal(t, float32(0), NearSmoothingKernelDerivative(0, r))
		assert.Equal(t, float32(0), NearSmoothingKernelDerivative(r, r))

		assert.Greater(t, ViscositySmoothingKernel(0, r), float32(0))
		assert.Equal(t, float32(0), ViscositySmoothingKernel(r, r))
	}
}

func TestKernelsZeroBeyondRadius(t *testing.T) {
	r := float32(0.5)
	assert.Equal(t, float32(0), SmoothingKernel(r+0.01, r))
	assert.Equal(t, float32(0), NearSmoothingKernel(r+0.01, r))
	assert.Equal(t, float32(0), ViscositySmoothingKernel(r+0.01, r))
	assert.Equal(t, float32(0), SmoothingKernelDerivative(r+0.01, r))
	assert.Equal(t, float32(0), NearSmoothingKernelDerivative(r+0.01, r))
}

func TestDensityToPressure(t *testing.T) {
	assert.Equal(t, float32(0), DensityToPressure(20, 20, 500))
	assert.Equal(t, float32(500), DensityToPressure(21, 20, 500))
	assert.Equal(t, float32(-500), DensityToPressure(19, 20, 500))
}

func TestNearDensityToPressure(t *testing.T) {
	assert.Equal(t, float32(0), NearDensityToPressure(0, 18))
	assert.Equal(t, float32(18), NearDensityToPressure(1, 18))
}
