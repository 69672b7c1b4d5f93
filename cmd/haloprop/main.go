package main

import (
	"flag"
	"os"
	"sync"

	kitlog "github.com/go-kit/kit/log"
	"github.com/steigersg/halo"
)

// NOTE: This tool samples the observatory halo orbit over a mission span and
// writes the heliocentric positions to a CSV file in the configured output
// directory. It needs a HALO_CONFIG pointing at the orbit data paths.

/* === CONFIG === */
var (
	startMJD float64
	days     float64
	stepHrs  float64
	eclip    bool
	srp      bool
	outName  string
)

/* ===  END  === */

func init() {
	flag.Float64Var(&startMJD, "start", halo.DefaultEquinox, "start epoch in MJD")
	flag.Float64Var(&days, "days", 365.25, "propagation duration in days")
	flag.Float64Var(&stepHrs, "step", 6, "output step in hours")
	flag.BoolVar(&eclip, "eclip", false, "output in the heliocentric ecliptic frame instead of equatorial")
	flag.BoolVar(&srp, "srp", true, "enable solar radiation pressure in the dynamics")
	flag.StringVar(&outName, "out", "halo", "name of the CSV output")
}

func main() {
	flag.Parse()
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	logger = kitlog.With(logger, "cmd", "haloprop")

	obs, err := halo.NewObservatoryFromConfig(halo.DefaultEquinox, 0, srp)
	if err != nil {
		logger.Log("level", "critical", "err", err)
		os.Exit(1)
	}

	ts := make([]float64, 0, int(days*24/stepHrs)+1)
	for t := startMJD; t <= startMJD+days; t += stepHrs / 24 {
		ts = append(ts, t)
	}
	rs, err := obs.Orbit(ts, eclip)
	if err != nil {
		logger.Log("level", "critical", "err", err)
		os.Exit(1)
	}

	stateChan := make(chan halo.ObsState, 1000)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		halo.StreamStates(halo.ExportConfig{Filename: outName, AsCSV: true, Timestamp: true}, stateChan)
	}()
	for i, r := range rs {
		stateChan <- halo.ObsState{MJD: ts[i], R: r}
	}
	close(stateChan)
	wg.Wait()
	logger.Log("level", "notice", "status", "finished", "states", len(rs))
}
