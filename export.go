package halo

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

// ObsState is one exported sample of the observatory trajectory.
type ObsState struct {
	MJD float64
	R   []float64 // AU
}

// ExportConfig configures the CSV output of a propagation.
type ExportConfig struct {
	Filename  string
	AsCSV     bool
	Timestamp bool
}

// IsUseless returns whether this configuration would output anything.
func (c ExportConfig) IsUseless() bool {
	return !c.AsCSV || c.Filename == ""
}

// StreamStates streams observatory states to a CSV file in the configured
// output directory until the channel is closed. Run it in its own goroutine,
// started before the propagation fills the channel.
func StreamStates(conf ExportConfig, stateChan <-chan ObsState) {
	if conf.IsUseless() {
		return
	}
	name := conf.Filename
	if conf.Timestamp {
		name += time.Now().Format("-2006-01-02-15.04.05")
	}
	f, err := os.Create(fmt.Sprintf("%s/orbit-%s.csv", haloConfig().outputDir, name))
	if err != nil {
		panic(err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	if err = w.Write([]string{"mjd", "x(AU)", "y(AU)", "z(AU)"}); err != nil {
		panic(err)
	}
	for state := range stateChan {
		rec := []string{strconv.FormatFloat(state.MJD, 'g', -1, 64)}
		for _, x := range state.R {
			rec = append(rec, strconv.FormatFloat(x, 'g', -1, 64))
		}
		if err = w.Write(rec); err != nil {
			panic(err)
		}
	}
}
