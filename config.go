package halo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

var (
	cfgLoaded = false
	config    = _haloconfig{}
)

// _haloconfig is a "hidden" struct, just use `haloConfig`
type _haloconfig struct {
	VSOP87    bool
	VSOP87Dir string
	dataDir   string
	cachePath string
	outputDir string
}

// EphemerisPaths returns the configured halo orbit cache and source matrix paths.
func (c _haloconfig) EphemerisPaths() (cachePath, matrixPath string) {
	cachePath = c.cachePath
	if cachePath == "" {
		cachePath = filepath.Join(c.dataDir, "L2_halo_orbit_six_month.bin")
	}
	matrixPath = filepath.Join(c.dataDir, "L2_halo_orbit_six_month.dat")
	return
}

// haloConfig returns the halo configuration, loading it on first use.
func haloConfig() _haloconfig {
	if cfgLoaded {
		return config
	}
	// Load the configuration file
	confPath := os.Getenv("HALO_CONFIG")
	if confPath == "" {
		panic("environment variable `HALO_CONFIG` is missing or empty")
	}
	viper.SetConfigName("conf")
	viper.AddConfigPath(confPath)
	err := viper.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("%s/conf.toml not found", confPath))
	}

	vsop87Enabled := viper.GetBool("VSOP87.enabled")
	vsop87Dir := viper.GetString("VSOP87.directory")
	dataDir := viper.GetString("data.directory")
	cachePath := viper.GetString("data.cache_path")
	outputDir := viper.GetString("general.output_path")

	config = _haloconfig{VSOP87: vsop87Enabled, VSOP87Dir: vsop87Dir, dataDir: dataDir, cachePath: cachePath, outputDir: outputDir}
	cfgLoaded = true
	return config
}
