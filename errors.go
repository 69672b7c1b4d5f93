package halo

import (
	"errors"
	"fmt"
)

// ErrDataUnavailable is returned when neither the halo orbit cache nor the
// source matrix file can be read. It is fatal to the observatory.
var ErrDataUnavailable = errors.New("halo orbit data unavailable")

// DomainError is returned when a query time falls outside the tabulated
// ephemeris after modulo reduction. The reduction makes this unreachable for
// well-formed ephemerides, so it indicates a caller bug and is never masked
// by extrapolation.
type DomainError struct {
	T        float64
	Min, Max float64
}

func (e DomainError) Error() string {
	return fmt.Sprintf("time %f outside of interpolation domain [%f, %f]", e.T, e.Min, e.Max)
}

// NumericalFault is returned when a position or velocity computation yields a
// non-finite component. It indicates corrupted ephemeris data or a bad input
// time, and must not be clamped or recovered.
type NumericalFault struct {
	Op string
	V  []float64
}

func (e NumericalFault) Error() string {
	return fmt.Sprintf("%s: non-finite result %v", e.Op, e.V)
}
