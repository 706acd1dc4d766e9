//go:build basic || database || integration

package integration

import (
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"github.com/qa4sm/qa4sm-reader/internal/source"
	"github.com/qa4sm/qa4sm-reader/schema"
	"github.com/stretchr/testify/require"
)

// resultsName is the stored original name of the results fixture.
const resultsName = "0-ISMN.soil_moisture_with_1-C3S.sm_with_2-SMAP.soil_moisture.nc"

var (
	// sharedBinaryPath holds the path to a shared qa4sm binary built once for all tests.
	sharedBinaryPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getBinary returns the path to the qa4sm binary, building it once if needed.
func getBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		// Create a temp directory for the binary
		var err error
		tempDir, err = os.MkdirTemp("", "qa4sm-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		binaryPath := filepath.Join(tempDir, "qa4sm")
		buildCmd := exec.Command("go", "build", "-o", binaryPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if err := buildCmd.Run(); err != nil {
			panic(fmt.Sprintf("failed to build qa4sm: %v", err))
		}

		sharedBinaryPath = binaryPath
	})

	return sharedBinaryPath
}

// runQA4SM runs the binary with args and returns its stdout.
func runQA4SM(t *testing.T, args ...string) ([]byte, error) {
	t.Helper()
	cmd := exec.Command(getBinary(), args...)
	cmd.Dir = "../" // Run from project root
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			t.Logf("Command failed: %s\nStderr: %s", cmd.String(), string(exitErr.Stderr))
		}
		return nil, err
	}
	return output, nil
}

// writeResultsFile writes a three dataset results file with ISMN as reference.
func writeResultsFile(t *testing.T) string {
	t.Helper()
	nan := math.NaN()
	attrs := map[string]string{
		"val_ref":                     "val_dc_dataset0",
		"val_dc_dataset0":             "ISMN",
		"val_dc_version0":             "ISMN_V20180712_MINI",
		"val_dc_version_pretty_name0": "20180712 mini testset",
		"val_dc_dataset1":             "C3S",
		"val_dc_version1":             "C3S_V201812",
		"val_dc_dataset2":             "SMAP",
		"val_dc_version2":             "SMAP_V5_PM",
	}
	frame := schema.Frame{
		Index: []schema.Point{{Lat: 48.2, Lon: 16.3}, {Lat: 48.3, Lon: 16.4}, {Lat: 47.1, Lon: 15.4}},
		Columns: []schema.Column{
			{Name: "n_obs", Values: []float64{100, 80, 60}},
			{Name: "R_between_0-ISMN_and_1-C3S", Values: []float64{0.7, 0.65, nan}},
			{Name: "R_between_0-ISMN_and_2-SMAP", Values: []float64{0.5, 0.6, 0.4}},
			{Name: "snr_1-C3S_between_0-ISMN_and_1-C3S_and_2-SMAP", Values: []float64{10, 12, 11}},
			{Name: "snr_2-SMAP_between_0-ISMN_and_1-C3S_and_2-SMAP", Values: []float64{8, 9, nan}},
		},
	}
	path := filepath.Join(t.TempDir(), "results.parquet")
	require.NoError(t, source.WriteParquet(path, resultsName, attrs, frame))
	return path
}
