package halo

import (
	"path/filepath"
	"testing"
)

func TestConfigEphemerisPaths(t *testing.T) {
	cfgLoaded = true
	config = _haloconfig{dataDir: "/var/halo/data"}
	cache, matrix := haloConfig().EphemerisPaths()
	if cache != filepath.Join("/var/halo/data", "L2_halo_orbit_six_month.bin") {
		t.Fatalf("unexpected default cache path %s", cache)
	}
	if matrix != filepath.Join("/var/halo/data", "L2_halo_orbit_six_month.dat") {
		t.Fatalf("unexpected matrix path %s", matrix)
	}
	config = _haloconfig{dataDir: "/var/halo/data", cachePath: "/tmp/halo.bin"}
	cache, _ = haloConfig().EphemerisPaths()
	if cache != "/tmp/halo.bin" {
		t.Fatalf("explicit cache path not honored, got %s", cache)
	}
}
