package halo

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

// Solar radiation pressure model of the occulter surface: 4.473 µN/m² solar
// pressure at L2 on a 36 m radius cross-section pitched 60 degrees from the
// sun-line, with fixed optical reflectance coefficients. These values are a
// fixed physical constant table, not to be re-derived.
const (
	srpPressure = 4.473e-6          // kg/(m·s²) at L2
	srpRadius   = 36.0              // m
	srpBf       = 0.038             // non-Lambertian coefficient (front)
	srpBb       = 0.004             // non-Lambertian coefficient (back)
	srpS        = 0.975             // specular reflection factor
	srpP        = 0.999             // reflection coefficient
	srpEf       = 0.8               // emission coefficient (front)
	srpEb       = 0.2               // emission coefficient (back)
	srpMass     = 5.97e24 * (1 + 1/81.0) // kg, Earth + Moon
)

// CRTBP provides the equations of motion of the Circular Restricted Three
// Body Problem in normalized units: distances in AU, time such that 2π is
// one sidereal year, the primaries at (-Mu,0,0) and (1-Mu,0,0). It is a
// stateless derivative provider; its integration lives in the integrator
// package.
type CRTBP struct {
	Mu  float64 // mass ratio of the two primaries
	SRP bool    // include the solar radiation pressure force term
}

// NewCRTBP returns the dynamics for the given mass ratio.
func NewCRTBP(mu float64, srp bool) CRTBP {
	if mu <= 0 || mu >= 1 {
		panic("CRTBP mass ratio must be in (0, 1)")
	}
	return CRTBP{Mu: mu, SRP: srp}
}

// srpForce returns the SRP acceleration in normalized units for the body at
// position r, decomposed onto the radial and tangential unit vectors about
// the smaller primary.
func (c CRTBP) srpForce(r []float64) []float64 {
	TU := 2 * math.Pi / yearSeconds
	DU := AUm
	MU := srpMass / c.Mu
	P := srpPressure * DU / (TU * TU) / MU
	A := math.Pi * srpRadius * srpRadius

	b1 := 0.5 * (1 - srpS*srpP)
	b2 := srpS * srpP
	b3 := 0.5 * (srpBf*(1-srpS)*srpP + (1-srpP)*(srpEf*srpBf-srpEb*srpBb)/(srpEf+srpEb))

	fR := 0.25 * P * A * (b1 + 0.25*b2 + 0.5*b3)
	fT := math.Sqrt(3) * 0.25 * P * A * (b2 + 2*b3)

	u1 := unit([]float64{r[0] + c.Mu, r[1], r[2]}) // sun-line radial
	u2 := unit([]float64{u1[1], -u1[0], 0})        // tangential
	return []float64{fR*u1[0] + fT*u2[0], fR*u1[1] + fT*u2[1], fR*u1[2] + fT*u2[2]}
}

// EquationsOfMotion returns the time derivative of the 6-state
// (x,y,z,dx,dy,dz) in normalized units. The time argument is unused (the
// rotating-frame dynamics are autonomous) but kept for the integrator
// signature.
func (c CRTBP) EquationsOfMotion(t float64, s []float64) []float64 {
	mu, m1, m2 := c.Mu, 1-c.Mu, c.Mu
	x, y, z := s[0], s[1], s[2]
	dx, dy, dz := s[3], s[4], s[5]

	// distances to each of the two primaries
	r1 := math.Sqrt((x+mu)*(x+mu) + y*y + z*z)
	r2 := math.Sqrt((1-mu-x)*(1-mu-x) + y*y + z*z)
	r13 := r1 * r1 * r1
	r23 := r2 * r2 * r2

	ddx := x + 2*dy + m1*(-mu-x)/r13 + m2*(1-mu-x)/r23
	ddy := y - 2*dx - m1*y/r13 - m2*y/r23
	ddz := -m1*z/r13 - m2*z/r23

	if c.SRP {
		f := c.srpForce(s[:3])
		ddx += f[0]
		ddy += f[1]
		ddz += f[2]
	}
	return []float64{dx, dy, dz, ddx, ddy, ddz}
}

// Jacobian returns the analytic 6x6 Jacobian of the equations of motion with
// respect to the state, ignoring the SRP contribution. It is block
// structured as [[0,I],[G,Ω]] with G the symmetric gravity gradient and Ω
// the Coriolis coupling.
func (c CRTBP) Jacobian(t float64, s []float64) *mat64.Dense {
	mu, m1, m2 := c.Mu, 1-c.Mu, c.Mu
	x, y, z := s[0], s[1], s[2]

	d1 := x + mu     // x offset from the primary
	d2 := x + mu - 1 // x offset from the secondary
	r1sq := d1*d1 + y*y + z*z
	r2sq := d2*d2 + y*y + z*z
	r13 := math.Pow(r1sq, 1.5)
	r23 := math.Pow(r2sq, 1.5)
	r15 := math.Pow(r1sq, 2.5)
	r25 := math.Pow(r2sq, 2.5)

	gxx := 1 - m1/r13 - m2/r23 + 3*m1*d1*d1/r15 + 3*m2*d2*d2/r25
	gxy := 3*m1*d1*y/r15 + 3*m2*d2*y/r25
	gxz := 3*m1*d1*z/r15 + 3*m2*d2*z/r25
	gyy := 1 - m1/r13 - m2/r23 + 3*m1*y*y/r15 + 3*m2*y*y/r25
	gyz := 3*m1*y*z/r15 + 3*m2*y*z/r25
	gzz := -m1/r13 - m2/r23 + 3*m1*z*z/r15 + 3*m2*z*z/r25

	return mat64.NewDense(6, 6, []float64{
		0, 0, 0, 1, 0, 0,
		0, 0, 0, 0, 1, 0,
		0, 0, 0, 0, 0, 1,
		gxx, gxy, gxz, 0, 2, 0,
		gxy, gyy, gyz, -2, 0, 0,
		gxz, gyz, gzz, 0, 0, 0,
	})
}

// Jacobians is the batch form of Jacobian over per-sample times and states.
func (c CRTBP) Jacobians(ts []float64, states [][]float64) []*mat64.Dense {
	out := make([]*mat64.Dense, len(states))
	for i, s := range states {
		var t float64
		if i < len(ts) {
			t = ts[i]
		}
		out[i] = c.Jacobian(t, s)
	}
	return out
}
