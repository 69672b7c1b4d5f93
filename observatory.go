package halo

import (
	"math"
	"os"

	kitlog "github.com/go-kit/kit/log"
	"github.com/steigersg/halo/integrator"
)

// DefaultEquinox is the default reference equinox epoch in MJD (TAI).
const DefaultEquinox = 60575.25

// Observatory models a space telescope on a halo orbit about the Sun-Earth
// L2 point. Positions come from a tabulated six-month halo trajectory which
// is patched periodically over the mission; off-ephemeris propagation uses
// the CRTBP dynamics. All public methods take absolute mission times in MJD
// and return AU and AU/yr; angles cross the boundary in degrees.
type Observatory struct {
	Eph       *HaloEphemeris
	Earth     EarthEphemeris
	Equinox   float64 // reference equinox, MJD
	StartTime float64 // phase offset into the tabulated orbit, days
	Dynamics  CRTBP

	rInterp, vInterp, rL2Interp *interp3
	ode                         integrator.DP54
	logger                      kitlog.Logger
}

// NewObservatory returns an observatory on the given halo orbit. haloStartTime
// is in days, srp toggles the radiation pressure term of the dynamics.
func NewObservatory(eph *HaloEphemeris, earth EarthEphemeris, equinox, haloStartTime float64, srp bool) *Observatory {
	klog := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	klog = kitlog.With(klog, "subsys", "observatory")
	o := &Observatory{
		Eph:       eph,
		Earth:     earth,
		Equinox:   equinox,
		StartTime: haloStartTime,
		Dynamics:  NewCRTBP(eph.Mu, srp),
		rInterp:   newInterp3(eph.T, eph.REarth),
		vInterp:   newInterp3(eph.T, eph.V),
		rL2Interp: newInterp3(eph.T, eph.RL2),
		ode:       integrator.NewDP54(),
		logger:    klog,
	}
	o.logger.Log("level", "info", "status", "loaded", "samples", len(eph.T), "period(yr)", eph.Period, "SRP", srp)
	return o
}

// NewObservatoryFromConfig builds the observatory from the configured data
// paths, regenerating the orbit cache from the legacy matrix file if needed,
// and selects the configured Earth ephemeris.
func NewObservatoryFromConfig(equinox, haloStartTime float64, srp bool) (*Observatory, error) {
	cachePath, matrixPath := haloConfig().EphemerisPaths()
	eph, err := LoadHaloEphemeris(cachePath, matrixPath)
	if err != nil {
		return nil, err
	}
	var earth EarthEphemeris = KeplerEarth{}
	if haloConfig().VSOP87 {
		vsop, err := NewVSOP87Earth()
		if err != nil {
			return nil, err
		}
		earth = vsop
	}
	return NewObservatory(eph, earth, equinox, haloStartTime, srp), nil
}

// haloTime reduces an absolute mission time (MJD) to a time into the
// tabulated orbit, in years within [0, Period).
func (o *Observatory) haloTime(mjd float64) float64 {
	dt := (mjd - o.Equinox + o.StartTime) / daysPerYear
	th := math.Mod(dt, o.Eph.Period)
	if th < 0 {
		th += o.Eph.Period
	}
	return th
}

// Position returns the observatory positions relative to the Earth in the
// heliocentric ecliptic frame, in AU, one row per requested MJD.
func (o *Observatory) Position(ts []float64) ([][]float64, error) {
	return o.interpolate(o.rInterp, ts)
}

// Velocity returns the observatory velocities in the heliocentric ecliptic
// frame, in AU/yr, one row per requested MJD.
func (o *Observatory) Velocity(ts []float64) ([][]float64, error) {
	return o.interpolate(o.vInterp, ts)
}

// HaloPosition returns the observatory positions relative to L2 in the
// rotating frame of the CRTBP, in AU, one row per requested MJD. The origin
// of the underlying frame is the barycenter of the Sun and the Earth-Moon
// system.
func (o *Observatory) HaloPosition(ts []float64) ([][]float64, error) {
	return o.interpolate(o.rL2Interp, ts)
}

// HaloVelocity returns the observatory velocities on the tabulated halo
// orbit in AU/yr, one row per requested MJD.
func (o *Observatory) HaloVelocity(ts []float64) ([][]float64, error) {
	return o.interpolate(o.vInterp, ts)
}

func (o *Observatory) interpolate(in *interp3, ts []float64) ([][]float64, error) {
	out := make([][]float64, len(ts))
	for i, t := range ts {
		r, err := in.at(o.haloTime(t))
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

// Orbit returns the observatory positions in the heliocentric equatorial
// frame (or ecliptic if eclip is set) in AU, one row per requested MJD. The
// interpolated Earth-relative halo offset is placed at the Earth's current
// orbital phase using the Sun-Earth distance projected onto the ecliptic
// plane and the Earth's ecliptic longitude.
func (o *Observatory) Orbit(ts []float64, eclip bool) ([][]float64, error) {
	out := make([][]float64, len(ts))
	for i, t := range ts {
		r, err := o.rInterp.at(o.haloTime(t))
		if err != nil {
			return nil, err
		}
		rEarth := o.Earth.Position(t, true)
		rEarthNorm := math.Hypot(rEarth[0], rEarth[1])
		r[0] += rEarthNorm
		lon := sign(rEarth[1]) * math.Acos(rEarth[0]/rEarthNorm)
		rObs := MxV33(R3(-lon), r)
		if !finite(rObs) {
			return nil, NumericalFault{Op: "orbit", V: rObs}
		}
		out[i] = rObs
	}
	if !eclip {
		out = Eclip2Equat(out, ts)
	}
	return out, nil
}

// StarInRotatingFrame projects the ecliptic position of star sInd at the
// given MJD into the rotating frame of the CRTBP.
func (o *Observatory) StarInRotatingFrame(stars StarProvider, sInd int, mjd float64) []float64 {
	θ := math.Mod(mjd, o.Equinox) / daysPerYear * 2 * math.Pi
	return MxV33(R3(θ), stars.StarPosition(sInd, mjd))
}

// AngleBetweenTargets returns the angular separation in degrees between two
// target stars as seen from the telescope on its halo orbit: star n1 at tA
// and star n2 at tB (MJD). It also returns both unit look-vectors and the
// telescope rotating-frame positions at both times, which upstream
// scheduling uses to penalize large slews.
func (o *Observatory) AngleBetweenTargets(stars StarProvider, n1, n2 int, tA, tB float64) (angle float64, u1, u2 []float64, rTscp [][]float64, err error) {
	rHalo, err := o.HaloPosition([]float64{tA, tB})
	if err != nil {
		return 0, nil, nil, nil, err
	}
	rTscp = make([][]float64, 2)
	for i, r := range rHalo {
		rTscp[i] = []float64{r[0] + o.Eph.L2Dist, r[1], r[2]}
	}

	star1 := o.StarInRotatingFrame(stars, n1, tA)
	star2 := o.StarInRotatingFrame(stars, n2, tB)
	u1 = unit([]float64{star1[0] - rTscp[0][0], star1[1] - rTscp[0][1], star1[2] - rTscp[0][2]})
	u2 = unit([]float64{star2[0] - rTscp[1][0], star2[1] - rTscp[1][1], star2[2] - rTscp[1][2]})

	// clamp for the antiparallel and identical cases
	cosAngle := math.Max(-1, math.Min(1, dot(u1, u2)))
	angle = math.Acos(cosAngle) / deg2rad
	return angle, u1, u2, rTscp, nil
}

// Integrate propagates the state s0 (position and velocity in normalized
// CRTBP units) across the requested normalized times, returning the state at
// each of them. The propagation is CPU bound and has no cancellation hook.
func (o *Observatory) Integrate(s0 []float64, ts []float64) ([][]float64, error) {
	return o.ode.Solve(o.Dynamics.EquationsOfMotion, s0, ts)
}
