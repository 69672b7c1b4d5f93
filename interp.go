package halo

import "sort"

// interp3 is a piecewise-linear interpolant of 3-vectors over a strictly
// increasing time grid. Queries outside the grid fail rather than
// extrapolate: linear extrapolation of a periodic trajectory is meaningless.
type interp3 struct {
	t []float64
	v [][]float64
}

func newInterp3(t []float64, v [][]float64) *interp3 {
	return &interp3{t: t, v: v}
}

// at evaluates the interpolant at time t.
func (in *interp3) at(t float64) ([]float64, error) {
	n := len(in.t)
	if t < in.t[0] || t > in.t[n-1] {
		return nil, DomainError{T: t, Min: in.t[0], Max: in.t[n-1]}
	}
	i := sort.SearchFloat64s(in.t, t)
	if i < n && in.t[i] == t {
		return []float64{in.v[i][0], in.v[i][1], in.v[i][2]}, nil
	}
	// t is strictly between samples i-1 and i.
	w := (t - in.t[i-1]) / (in.t[i] - in.t[i-1])
	out := make([]float64, 3)
	for k := 0; k < 3; k++ {
		out[k] = in.v[i-1][k] + w*(in.v[i][k]-in.v[i-1][k])
	}
	return out, nil
}
