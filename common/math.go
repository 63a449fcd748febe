package common

// Gravity is the downward acceleration applied to bodies, in units/s².
const Gravity = -9.81

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
