package halo

// StarProvider returns target star positions for look-vector computations.
type StarProvider interface {
	// StarPosition returns the position of star sInd in AU in the
	// heliocentric ecliptic frame at the given epoch (MJD).
	StarPosition(sInd int, mjd float64) []float64
}

// Target is one entry of a StaticCatalog.
type Target struct {
	Name string
	R    []float64 // AU, heliocentric ecliptic at the reference epoch
	PM   []float64 // AU/yr proper motion, may be nil
}

// StaticCatalog is a fixed star table with linear proper motion from a
// reference epoch.
type StaticCatalog struct {
	Epoch   float64 // MJD
	Targets []Target
}

// StarPosition implements the StarProvider interface.
func (c StaticCatalog) StarPosition(sInd int, mjd float64) []float64 {
	tgt := c.Targets[sInd]
	r := []float64{tgt.R[0], tgt.R[1], tgt.R[2]}
	if tgt.PM != nil {
		dt := (mjd - c.Epoch) / daysPerYear
		for i := 0; i < 3; i++ {
			r[i] += tgt.PM[i] * dt
		}
	}
	return r
}
