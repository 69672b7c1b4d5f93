package halo

import (
	"fmt"
	"math"

	"github.com/soniakeys/meeus/planetposition"
)

const (
	// AU is one astronomical unit in kilometers.
	AU = 1.49597870700e8
	// AUm is one astronomical unit in meters.
	AUm = AU * 1e3
	// mjd2jd converts a Modified Julian Date to a Julian Date.
	mjd2jd = 2400000.5
	// j2000MJD is the J2000 epoch as an MJD.
	j2000MJD = 51544.5
	// daysPerYear is the number of days in a Julian year.
	daysPerYear = 365.25
	// yearSeconds is one Julian year in seconds.
	yearSeconds = daysPerYear * 86400
)

// EarthEphemeris provides the heliocentric position of the Earth.
type EarthEphemeris interface {
	// Position returns the Earth position in AU at the given epoch (MJD),
	// in the ecliptic frame if eclip is set, equatorial otherwise.
	Position(mjd float64, eclip bool) []float64
}

// VSOP87Earth is an EarthEphemeris backed by the VSOP87 theory. The data
// files are loaded once from the configured VSOP87 directory.
type VSOP87Earth struct {
	pp *planetposition.V87Planet
}

// NewVSOP87Earth loads the VSOP87 Earth ephemeris from the configuration.
func NewVSOP87Earth() (*VSOP87Earth, error) {
	planet, err := planetposition.LoadPlanetPath(planetposition.Earth, haloConfig().VSOP87Dir)
	if err != nil {
		return nil, fmt.Errorf("could not load VSOP87 Earth: %s", err)
	}
	return &VSOP87Earth{pp: planet}, nil
}

// Position implements the EarthEphemeris interface.
func (e *VSOP87Earth) Position(mjd float64, eclip bool) []float64 {
	l, b, r := e.pp.Position2000(mjd + mjd2jd)
	sB, cB := math.Sincos(b.Rad())
	sL, cL := math.Sincos(l.Rad())
	R := []float64{r * cB * cL, r * cB * sL, r * sB}
	if !eclip {
		R = MxV33(R1(-meanObliquity(mjd)), R)
	}
	return R
}

// KeplerEarth is an EarthEphemeris using the JPL approximate mean elements
// of the Earth-Moon barycenter (valid 1800-2050). It needs no data files and
// is accurate to a few arcminutes, which suffices for the halo orbit phasing.
type KeplerEarth struct{}

// Earth-Moon barycenter mean elements and centennial rates (J2000, degrees
// but for the semi-major axis and eccentricity).
const (
	embA, embADot = 1.00000261, 0.00000562
	embE, embEDot = 0.01671123, -0.00004392
	embI, embIDot = -0.00001531, -0.01294668
	embL, embLDot = 100.46457166, 35999.37244981
	embW, embWDot = 102.93768193, 0.32327364
)

// Position implements the EarthEphemeris interface.
func (KeplerEarth) Position(mjd float64, eclip bool) []float64 {
	T := (mjd - j2000MJD) / 36525
	a := embA + embADot*T
	e := embE + embEDot*T
	i := Deg2rad(embI + embIDot*T)
	ϖ := Deg2rad(embW + embWDot*T)
	L := Deg2rad(math.Mod(embL+embLDot*T, 360))
	ω := ϖ // Ω = 0 for the Earth-Moon barycenter
	M := math.Mod(L-ϖ, 2*math.Pi)

	// Solve Kepler's equation.
	E := M + e*math.Sin(M)
	for iter := 0; iter < 20; iter++ {
		dE := (M - (E - e*math.Sin(E))) / (1 - e*math.Cos(E))
		E += dE
		if math.Abs(dE) < 1e-14 {
			break
		}
	}

	// Perifocal position, then rotate through ω and i (Ω is zero).
	rp := []float64{a * (math.Cos(E) - e), a * math.Sqrt(1-e*e) * math.Sin(E), 0}
	R := MxV33(R1(-i), MxV33(R3(-ω), rp))
	if !eclip {
		R = MxV33(R1(-meanObliquity(mjd)), R)
	}
	return R
}
