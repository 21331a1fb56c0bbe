// SPDX-License-Identifier: EPL-2.0

// Package utils holds sample conversions shared by the decoders and the
// audio pipeline.
package utils

const int16Scale = 32768.0

// Int16ToFloat32 maps a PCM sample onto [-1, 1).
func Int16ToFloat32(s int16) float32 {
	return float32(s) / int16Scale
}

// Float32ToInt16 maps a float sample back to PCM, clamping values outside
// the int16 range.
func Float32ToInt16(x float32) int16 {
	v := x * int16Scale
	switch {
	case v >= 32767:
		return 32767
	case v <= -32768:
		return -32768
	}

	return int16(v)
}

// CubicInterpolate evaluates a Catmull-Rom spline through y0..y3 at x, the
// fractional position between y1 (x=0) and y2 (x=1).
func CubicInterpolate(y0, y1, y2, y3, x float32) float32 {
	a := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	b := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	c := -0.5*y0 + 0.5*y2

	return ((a*x+b)*x+c)*x + y1
}
