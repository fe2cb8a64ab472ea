package fluidsim

import "math"

// SmoothingKernel (W) is the 2-D density kernel, normalised over its
// circular support of radius r. Zero for dist ≥ r.
func SmoothingKernel(dist, r float32) float32 {
	if dist >= r {
		return 0
	}
	diff := r - dist
	vol := float32(math.Pi) * pow4(r) / 6
	return diff * diff / vol
}

// NearSmoothingKernel (W_near) is the short-range cubic kernel whose
// sharper falloff produces the near-pressure term that prevents particle
// clustering under the regular density kernel alone.
func NearSmoothingKernel(dist, r float32) float32 {
	if dist >= r {
		return 0
	}
	diff := r - dist
	vol := float32(math.Pi) * pow5(r) / 10
	return diff * diff * diff / vol
}

// SmoothingKernelDerivative (∇W) is the scalar radial derivative of W.
// Zero at dist==0 and at dist>=r.
func SmoothingKernelDerivative(dist, r float32) float32 {
	if dist >= r || dist == 0 {
		return 0
	}
	scale := 12 / (float32(math.Pi) * pow4(r))
	return (dist - r) * scale
}

// NearSmoothingKernelDerivative (∇W_near).
func NearSmoothingKernelDerivative(dist, r float32) float32 {
	if dist >= r || dist == 0 {
		return 0
	}
	diff := r - dist
	scale := 30 / (float32(math.Pi) * pow5(r))
	return -diff * diff * scale
}

// ViscositySmoothingKernel (W_visc) weights the velocity-averaging term
// in the viscosity pass.
func ViscositySmoothingKernel(dist, r float32) float32 {
	if dist >= r {
		return 0
	}
	diffSq := r*r - dist*dist
	vol := float32(math.Pi) * pow8(r) / 4
	return diffSq * diffSq * diffSq / vol
}

// DensityToPressure converts a density sample to a pressure scalar
// relative to the target resting density.
func DensityToPressure(density, targetDensity, pressureMultiplier float32) float32 {
	return (density - targetDensity) * pressureMultiplier
}

// NearDensityToPressure converts the near-density sample directly: it
// has no resting point, it simply repels as it grows.
func NearDensityToPressure(nearDensity, nearPressureMultiplier float32) float32 {
	return nearDensity * nearPressureMultiplier
}

func pow4(x float32) float32 { return x * x * x * x }
func pow5(x float32) float32 { return pow4(x) * x }
func pow8(x float32) float32 { xx := x * x; return xx * xx * xx * xx }
