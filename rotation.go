package halo

import (
	"math"

	"github.com/gonum/matrix/mat64"
	"github.com/soniakeys/meeus/nutation"
)

// R1 rotation about the 1st axis.
func R1(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{1, 0, 0, 0, c, s, 0, -s, c})
}

// R2 rotation about the 2nd axis.
func R2(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{c, 0, -s, 0, 1, 0, s, 0, c})
}

// R3 rotation about the 3rd axis.
func R3(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
}

// Rot returns the rotation matrix about the given principal axis (1, 2 or 3).
func Rot(x float64, axis int) *mat64.Dense {
	switch axis {
	case 1:
		return R1(x)
	case 2:
		return R2(x)
	case 3:
		return R3(x)
	default:
		panic("axis must be 1, 2 or 3")
	}
}

// MxV33 multiplies a matrix with a vector. Note that there is no dimension check!
func MxV33(m *mat64.Dense, v []float64) (o []float64) {
	vVec := mat64.NewVector(len(v), v)
	var rVec mat64.Vector
	rVec.MulVec(m, vVec)
	return []float64{rVec.At(0, 0), rVec.At(1, 0), rVec.At(2, 0)}
}

// meanObliquity returns the mean obliquity of the ecliptic in radians at the given MJD.
func meanObliquity(mjd float64) float64 {
	return nutation.MeanObliquity(mjd + mjd2jd).Rad()
}

// Eclip2Equat rotates heliocentric ecliptic vectors to the equatorial frame
// at the provided epochs (MJD). Vectors and epochs must have the same length.
func Eclip2Equat(rs [][]float64, ts []float64) [][]float64 {
	out := make([][]float64, len(rs))
	for i, r := range rs {
		out[i] = MxV33(R1(-meanObliquity(ts[i])), r)
	}
	return out
}

// Equat2Eclip rotates heliocentric equatorial vectors to the ecliptic frame
// at the provided epochs (MJD). Inverse of Eclip2Equat.
func Equat2Eclip(rs [][]float64, ts []float64) [][]float64 {
	out := make([][]float64, len(rs))
	for i, r := range rs {
		out[i] = MxV33(R1(meanObliquity(ts[i])), r)
	}
	return out
}

// RotToInertVelocity converts a rotating-frame velocity to the inertial frame
// for a frame whose rotation angle about the 3rd axis is θ (radians).
// rRot is the rotating-frame position of the same state. The ω×r cross term
// uses the unit synodic rate of the normalized CRTBP.
func RotToInertVelocity(rRot, vRot []float64, θ float64) []float64 {
	drR := []float64{vRot[0] - rRot[1], vRot[1] + rRot[0], vRot[2]}
	return MxV33(R3(-θ), drR) // R3(θ)ᵀ == R3(-θ)
}

// InertToRotVelocity converts an inertial velocity to the rotating frame at
// angle θ, given the rotating-frame position of the state. Inverse of
// RotToInertVelocity.
func InertToRotVelocity(rRot, vInert []float64, θ float64) []float64 {
	vR := MxV33(R3(θ), vInert)
	vR[0] += rRot[1]
	vR[1] -= rRot[0]
	return vR
}

// RotToInertVelocities is the batch form of RotToInertVelocity with one
// rotation angle per sample.
func RotToInertVelocities(rRot, vRot [][]float64, θ []float64) [][]float64 {
	out := make([][]float64, len(θ))
	for i := range θ {
		out[i] = RotToInertVelocity(rRot[i], vRot[i], θ[i])
	}
	return out
}

// InertToRotVelocities is the batch form of InertToRotVelocity with one
// rotation angle per sample.
func InertToRotVelocities(rRot, vInert [][]float64, θ []float64) [][]float64 {
	out := make([][]float64, len(θ))
	for i := range θ {
		out[i] = InertToRotVelocity(rRot[i], vInert[i], θ[i])
	}
	return out
}
