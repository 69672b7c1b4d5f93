package halo

import (
	"bufio"
	"encoding/gob"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// haloCache is the persisted form of the halo orbit data. Its five fields
// mirror the legacy matrix file: mu, te, t, state, x_lpoint. It must
// round-trip exactly through the gob encoding.
type haloCache struct {
	Mu      float64
	Te      float64
	T       []float64
	State   [][]float64 // Nx6, normalized CRTBP units
	XLpoint float64
}

// valid returns whether all five required fields are present and coherent.
func (c *haloCache) valid() bool {
	if c.Mu <= 0 || c.Te <= 0 || c.XLpoint <= 0 {
		return false
	}
	if len(c.T) == 0 || len(c.State) != len(c.T) {
		return false
	}
	for _, row := range c.State {
		if len(row) != 6 {
			return false
		}
	}
	return true
}

// HaloEphemeris holds one period of a tabulated Sun-Earth L2 halo orbit,
// denormalized to years and AU. It is immutable once loaded and safe to
// share read-only.
type HaloEphemeris struct {
	Mu     float64     // CRTBP mass ratio of the two primaries
	M1, M2 float64     // primary and secondary mass fractions, M1 = 1 - Mu
	Period float64     // orbital period in Julian years
	T      []float64   // sample times in years, strictly increasing
	REarth [][]float64 // position in AU, heliocentric ecliptic, Earth-relative
	V      [][]float64 // velocity in AU/yr, heliocentric ecliptic
	RL2    [][]float64 // position in AU, L2-relative rotating frame
	L2Dist float64     // distance from the barycenter to L2 in AU
}

// newHaloEphemeris denormalizes a cache record. The raw samples use the
// CRTBP convention where time 2π is one sidereal year and distances are AU.
func newHaloEphemeris(c *haloCache) (*HaloEphemeris, error) {
	eph := &HaloEphemeris{
		Mu:     c.Mu,
		M1:     1 - c.Mu,
		M2:     c.Mu,
		Period: c.Te / (2 * math.Pi),
		L2Dist: c.XLpoint,
	}
	n := len(c.T)
	eph.T = make([]float64, n)
	eph.REarth = make([][]float64, n)
	eph.V = make([][]float64, n)
	eph.RL2 = make([][]float64, n)
	for i, row := range c.State {
		eph.T[i] = c.T[i] / (2 * math.Pi)
		if i > 0 && eph.T[i] <= eph.T[i-1] {
			return nil, fmt.Errorf("halo ephemeris times not strictly increasing at sample %d", i)
		}
		eph.REarth[i] = []float64{row[0] - 1, row[1], row[2]}
		eph.V[i] = []float64{row[3] * 2 * math.Pi, row[4] * 2 * math.Pi, row[5] * 2 * math.Pi}
		eph.RL2[i] = []float64{row[0] - c.XLpoint, row[1], row[2]}
	}
	return eph, nil
}

// parseHaloMatrix reads the legacy numeric matrix format: repeated blocks of
// a `name rows cols` header line followed by rows x cols whitespace-separated
// values. The five named fields are mu, te, t, state and x_lpoint.
func parseHaloMatrix(r io.Reader) (*haloCache, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	cache := &haloCache{}
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		header := strings.Fields(line)
		if len(header) != 3 {
			return nil, fmt.Errorf("malformed matrix header %q", line)
		}
		name := header[0]
		rows, err := strconv.Atoi(header[1])
		if err != nil {
			return nil, fmt.Errorf("malformed row count in %q", line)
		}
		cols, err := strconv.Atoi(header[2])
		if err != nil {
			return nil, fmt.Errorf("malformed column count in %q", line)
		}
		values, err := scanFloats(scanner, rows*cols)
		if err != nil {
			return nil, fmt.Errorf("matrix %s: %s", name, err)
		}
		switch name {
		case "mu":
			cache.Mu = values[0]
		case "te":
			cache.Te = values[0]
		case "x_lpoint":
			cache.XLpoint = values[0]
		case "t":
			cache.T = values
		case "state":
			if cols != 6 {
				return nil, fmt.Errorf("state matrix must have 6 columns, not %d", cols)
			}
			cache.State = make([][]float64, rows)
			for i := 0; i < rows; i++ {
				cache.State[i] = values[i*6 : (i+1)*6]
			}
		default:
			return nil, fmt.Errorf("unknown matrix field %q", name)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !cache.valid() {
		return nil, fmt.Errorf("matrix file missing required fields")
	}
	return cache, nil
}

// scanFloats reads exactly n floats from the scanner, consuming full lines.
func scanFloats(scanner *bufio.Scanner, n int) ([]float64, error) {
	values := make([]float64, 0, n)
	for len(values) < n && scanner.Scan() {
		for _, field := range strings.Fields(scanner.Text()) {
			fl, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid value %q", field)
			}
			values = append(values, fl)
		}
	}
	if len(values) != n {
		return nil, fmt.Errorf("expected %d values, read %d", n, len(values))
	}
	return values, nil
}

// readHaloCache decodes a cache file and checks its required fields.
func readHaloCache(path string) (*haloCache, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cache := &haloCache{}
	if err = gob.NewDecoder(f).Decode(cache); err != nil {
		return nil, err
	}
	if !cache.valid() {
		return nil, fmt.Errorf("cache %s is missing required fields", path)
	}
	return cache, nil
}

// writeHaloCache persists a cache record.
func writeHaloCache(path string, cache *haloCache) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(cache)
}

// LoadHaloEphemeris returns the halo orbit ephemeris stored at cachePath. If
// the cache is absent or missing required fields, the legacy matrix file at
// matrixPath is converted and persisted to cachePath for future runs. If
// neither file is usable the returned error wraps ErrDataUnavailable.
func LoadHaloEphemeris(cachePath, matrixPath string) (*HaloEphemeris, error) {
	cache, err := readHaloCache(cachePath)
	if err != nil {
		f, ferr := os.Open(matrixPath)
		if ferr != nil {
			return nil, fmt.Errorf("%w: no cache (%s) and no matrix file (%s)", ErrDataUnavailable, err, ferr)
		}
		defer f.Close()
		cache, err = parseHaloMatrix(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrDataUnavailable, err)
		}
		if err = writeHaloCache(cachePath, cache); err != nil {
			return nil, fmt.Errorf("could not persist halo orbit cache: %s", err)
		}
	}
	return newHaloEphemeris(cache)
}
