package halo

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestMatrixCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	matrixPath := writeTestMatrix(t, dir)
	cachePath := filepath.Join(dir, "L2_halo_orbit_six_month.bin")

	eph, err := LoadHaloEphemeris(cachePath, matrixPath)
	if err != nil {
		t.Fatalf("conversion failed: %s", err)
	}
	if _, err = os.Stat(cachePath); err != nil {
		t.Fatal("cache was not persisted after conversion")
	}

	// Reloading from the generated cache must reproduce identical fields.
	if err = os.Remove(matrixPath); err != nil {
		t.Fatal(err)
	}
	eph2, err := LoadHaloEphemeris(cachePath, matrixPath)
	if err != nil {
		t.Fatalf("cache load failed: %s", err)
	}
	if eph.Mu != eph2.Mu || eph.Period != eph2.Period || eph.L2Dist != eph2.L2Dist {
		t.Fatal("scalar fields do not round-trip exactly")
	}
	if len(eph.T) != len(eph2.T) {
		t.Fatal("sample counts differ")
	}
	for i := range eph.T {
		if eph.T[i] != eph2.T[i] {
			t.Fatalf("time sample %d does not round-trip exactly", i)
		}
		for k := 0; k < 3; k++ {
			if eph.REarth[i][k] != eph2.REarth[i][k] || eph.V[i][k] != eph2.V[i][k] || eph.RL2[i][k] != eph2.RL2[i][k] {
				t.Fatalf("state sample %d does not round-trip exactly", i)
			}
		}
	}
}

func TestEphemerisNormalization(t *testing.T) {
	eph := testEphemeris(t)
	if ok, err := floatEqual(eph.Period, testTe/(2*math.Pi)); !ok {
		t.Fatalf("period: %s", err)
	}
	if ok, err := floatEqual(eph.M1, 1-testMu); !ok {
		t.Fatalf("m1: %s", err)
	}
	if eph.M2 != testMu {
		t.Fatal("m2 must equal the mass ratio")
	}
	// Earth-relative x shifted by 1 AU, L2-relative by the L2 distance.
	if ok, err := floatEqual(eph.REarth[0][0]-eph.RL2[0][0], testXL-1); !ok {
		t.Fatalf("frame shifts: %s", err)
	}
	// Velocities are denormalized to AU/yr.
	if ok, err := floatEqual(eph.V[0][1], 0.0031*(2*math.Pi/testTe)*2*math.Pi); !ok {
		t.Fatalf("velocity denormalization: %s", err)
	}
	for i := 1; i < len(eph.T); i++ {
		if eph.T[i] <= eph.T[i-1] {
			t.Fatal("time samples must be strictly increasing")
		}
	}
	if ok, err := floatEqual(eph.T[len(eph.T)-1], eph.Period); !ok {
		t.Fatalf("samples must cover one period: %s", err)
	}
}

func TestDataUnavailable(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadHaloEphemeris(filepath.Join(dir, "nope.bin"), filepath.Join(dir, "nope.dat"))
	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
}

func TestCorruptCacheRegenerated(t *testing.T) {
	dir := t.TempDir()
	matrixPath := writeTestMatrix(t, dir)
	cachePath := filepath.Join(dir, "L2_halo_orbit_six_month.bin")
	if err := os.WriteFile(cachePath, []byte("not a cache"), 0644); err != nil {
		t.Fatal(err)
	}
	eph, err := LoadHaloEphemeris(cachePath, matrixPath)
	if err != nil {
		t.Fatalf("corrupt cache was not regenerated: %s", err)
	}
	if eph.Mu != testMu {
		t.Fatal("regenerated ephemeris has wrong mass ratio")
	}
}

func TestMalformedMatrix(t *testing.T) {
	dir := t.TempDir()
	matrixPath := filepath.Join(dir, "broken.dat")
	if err := os.WriteFile(matrixPath, []byte("mu 1 1\nnot-a-number\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadHaloEphemeris(filepath.Join(dir, "nope.bin"), matrixPath)
	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable for malformed matrix, got %v", err)
	}
}

func TestInterpDomain(t *testing.T) {
	in := newInterp3([]float64{0, 1, 2}, [][]float64{{0, 0, 0}, {1, 1, 1}, {2, 2, 2}})
	if _, err := in.at(1.5); err != nil {
		t.Fatalf("in-domain query failed: %s", err)
	}
	var derr DomainError
	if _, err := in.at(-0.1); !errors.As(err, &derr) {
		t.Fatalf("expected DomainError below the grid, got %v", err)
	}
	if _, err := in.at(2.1); !errors.As(err, &derr) {
		t.Fatalf("expected DomainError above the grid, got %v", err)
	}
	// Linear in between, exact at the nodes.
	v, _ := in.at(0.25)
	if !vectorsEqual(v, []float64{0.25, 0.25, 0.25}) {
		t.Fatalf("linear interpolation off: %v", v)
	}
	v, _ = in.at(2)
	if !vectorsEqual(v, []float64{2, 2, 2}) {
		t.Fatalf("node evaluation off: %v", v)
	}
}
