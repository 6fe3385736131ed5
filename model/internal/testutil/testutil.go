// Package testutil provides shared test infrastructure for the model core:
// tolerance-based float comparison and the golden broadcast-shape dataset
// used by the evaluation tests.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// ShapeDataset represents the structure of testdata/shapecases.json.
type ShapeDataset struct {
	Cases []ShapeCase `json:"cases"`
}

// ShapeCase is one broadcast-rule case: an input shape evaluated against a
// model holding NModels parameter sets either yields WantShape or fails with
// a shape-mismatch error.
type ShapeCase struct {
	Name       string `json:"name"`
	NModels    int    `json:"n_models"`
	InputShape []int  `json:"input_shape"`
	WantShape  []int  `json:"want_shape"`
	WantError  bool   `json:"want_error"`
}

// LoadShapeCases loads the golden shape dataset from the testdata directory.
// The path is resolved relative to this source file: model/internal/testutil/
// → model/testdata/.
func LoadShapeCases(t *testing.T) *ShapeDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "testdata", "shapecases.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read shape dataset: %v", err)
	}

	var dataset ShapeDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse shape dataset: %v", err)
	}
	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertFloatsEqual compares two float64 slices elementwise with relative
// tolerance.
func AssertFloatsEqual(t *testing.T, name string, want, got []float64, relTol float64) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("%s: got %d values, want %d", name, len(got), len(want))
	}
	for i := range want {
		AssertFloat64Equal(t, name, want[i], got[i], relTol)
	}
}
