package halo

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gonum/floats"
)

const (
	eps = 1e-10
)

func floatEqual(a, b float64) (bool, error) {
	if !floats.EqualWithinAbs(a, b, eps) {
		return false, fmt.Errorf("difference of %3.12f", math.Abs(a-b))
	}
	return true, nil
}

func vectorsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := len(a) - 1; i >= 0; i-- {
		if !floats.EqualWithinAbs(a[i], b[i], eps) {
			return false
		}
	}
	return true
}

// Synthetic one-period halo trajectory in normalized units, periodic by
// construction. Amplitudes are of the order of a real six-month L2 halo.
const (
	testMu     = 3.0404233966358030e-06
	testTe     = 3.1002569444453630
	testXL     = 1.0100767713072650
	testNSteps = 101
)

func testCache() *haloCache {
	c := &haloCache{Mu: testMu, Te: testTe, XLpoint: testXL}
	ω := 2 * math.Pi / testTe
	for i := 0; i < testNSteps; i++ {
		τ := testTe * float64(i) / float64(testNSteps-1)
		sφ, cφ := math.Sincos(ω * τ)
		c.T = append(c.T, τ)
		c.State = append(c.State, []float64{
			testXL + 0.0012*cφ,
			0.0031 * sφ,
			0.0008 * cφ,
			-0.0012 * ω * sφ,
			0.0031 * ω * cφ,
			-0.0008 * ω * sφ,
		})
	}
	return c
}

func testEphemeris(t *testing.T) *HaloEphemeris {
	eph, err := newHaloEphemeris(testCache())
	if err != nil {
		t.Fatalf("could not build test ephemeris: %s", err)
	}
	return eph
}

// writeTestMatrix writes the synthetic trajectory in the legacy matrix
// format and returns the file path.
func writeTestMatrix(t *testing.T, dir string) string {
	c := testCache()
	path := filepath.Join(dir, "L2_halo_orbit_six_month.dat")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	fmt.Fprintf(f, "mu 1 1\n%.17e\n", c.Mu)
	fmt.Fprintf(f, "te 1 1\n%.17e\n", c.Te)
	fmt.Fprintf(f, "x_lpoint 1 1\n%.17e\n", c.XLpoint)
	fmt.Fprintf(f, "t %d 1\n", len(c.T))
	for _, v := range c.T {
		fmt.Fprintf(f, "%.17e\n", v)
	}
	fmt.Fprintf(f, "state %d 6\n", len(c.State))
	for _, row := range c.State {
		for j, v := range row {
			if j > 0 {
				fmt.Fprint(f, " ")
			}
			fmt.Fprintf(f, "%.17e", v)
		}
		fmt.Fprintln(f)
	}
	return path
}
