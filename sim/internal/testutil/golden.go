// Package testutil provides shared test infrastructure for the spike-train
// generator. It holds the golden dataset types and assertion helpers used
// across sim/ and sim/analysis/ test packages.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
// Every case is seed-independent: rates are 0 or >= 1, or refractory
// windows cannot vary (R = 1).
type GoldenDataset struct {
	Generate  []GoldenGenerateCase  `json:"generate"`
	ISI       []GoldenISICase       `json:"isi"`
	Subsample []GoldenSubsampleCase `json:"subsample"`
	Average   []GoldenAverageCase   `json:"average"`
}

// GoldenGenerateCase is one end-to-end generation run.
type GoldenGenerateCase struct {
	Name           string      `json:"name"`
	Algorithm      string      `json:"algorithm"`
	Fibers         int         `json:"fibers"`
	RefractoryBins int         `json:"refractory_bins"`
	Seed           int64       `json:"seed"`
	Rates          [][]float64 `json:"rates"`
	Spikes         []string    `json:"spikes"`
}

// GoldenISICase maps spike rows to their interval encoding.
type GoldenISICase struct {
	Name      string      `json:"name"`
	Spikes    []string    `json:"spikes"`
	Intervals [][]float64 `json:"intervals"`
}

// GoldenSubsampleCase keeps every Factor-th spike of each row.
type GoldenSubsampleCase struct {
	Name   string   `json:"name"`
	Spikes []string `json:"spikes"`
	Factor int      `json:"factor"`
	Want   []string `json:"want"`
}

// GoldenAverageCase groups feature rows into Features averaged rows.
type GoldenAverageCase struct {
	Name     string      `json:"name"`
	Input    [][]float64 `json:"input"`
	Features int         `json:"features"`
	Want     [][]float64 `json:"want"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to repo root testdata/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// ParseSpikeRows converts "0101"-style rows into flags.
func ParseSpikeRows(t *testing.T, rows []string) [][]bool {
	t.Helper()
	out := make([][]bool, len(rows))
	for r, row := range rows {
		out[r] = make([]bool, len(row))
		for i, ch := range row {
			switch ch {
			case '0':
			case '1':
				out[r][i] = true
			default:
				t.Fatalf("spike row %d: unexpected character %q", r, ch)
			}
		}
	}
	return out
}

// JoinSpikeRows renders rows the way SpikeMatrix.String does.
func JoinSpikeRows(rows []string) string {
	s := ""
	for _, row := range rows {
		s += row + "\n"
	}
	return s
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
