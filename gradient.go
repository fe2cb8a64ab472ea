package fluidsim

// LinearGradient is a piecewise-linear colour ramp sampled by copy_prims
// to shade particles by speed.
type LinearGradient struct {
	Stops  []float32
	Colors [][4]float32
}

// VelocityGradient is the four-stop ramp used to colour particles from
// slow (blue) through mid-speed (green, yellow) to fast (orange).
var VelocityGradient = LinearGradient{
	Stops: []float32{0.062, 0.48, 0.65, 1.0},
	Colors: [][4]float32{
		{27.0 / 255, 71.0 / 255, 162.0 / 255, 1},
		{81.0 / 255, 252.0 / 255, 147.0 / 255, 1},
		{252.0 / 255, 237.0 / 255, 6.0 / 255, 1},
		{239.0 / 255, 74.0 / 255, 12.0 / 255, 1},
	},
}

// Sample returns the interpolated colour at t, clamped to [0,1].
func (g LinearGradient) Sample(t float32) [4]float32 {
	if t <= g.Stops[0] {
		return g.Colors[0]
	}
	last := len(g.Stops) - 1
	if t >= g.Stops[last] {
		return g.Colors[last]
	}
	for i := 0; i < last; i++ {
		if t >= g.Stops[i] && t <= g.Stops[i+1] {
			span := g.Stops[i+1] - g.Stops[i]
			frac := float32(0)
			if span > 0 {
				frac = (t - g.Stops[i]) / span
			}
			return lerpColor(g.Colors[i], g.Colors[i+1], frac)
		}
	}
	return g.Colors[last]
}

func lerpColor(a, b [4]float32, t float32) [4]float32 {
	var out [4]float32
	for i := range out {
		out[i] = a[i] + (b[i]-a[i])*t
	}
	return out
}
