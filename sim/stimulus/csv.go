package stimulus

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/auditory-periphery/anspike/sim"
)

// LoadRateCSV reads a rate matrix from a CSV file, one channel per line.
func LoadRateCSV(path string) (*sim.RateMatrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening rate file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadRateCSV(f)
}

// ReadRateCSV parses channels as CSV rows of rates.
func ReadRateCSV(r io.Reader) (*sim.RateMatrix, error) {
	d, err := ReadDenseCSV(r)
	if err != nil {
		return nil, err
	}
	return sim.NewRateMatrixFromDense(d)
}

// ReadDenseCSV parses a rectangular CSV of numbers. Blank lines and lines
// starting with '#' are skipped.
func ReadDenseCSV(r io.Reader) (*mat.Dense, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("reading CSV: no rows")
	}
	cols := len(records[0])
	data := make([]float64, 0, len(records)*cols)
	for i, rec := range records {
		if len(rec) != cols {
			return nil, fmt.Errorf("CSV row %d has %d fields, want %d", i, len(rec), cols)
		}
		for j, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("CSV row %d field %d: %w", i, j, err)
			}
			data = append(data, v)
		}
	}
	return mat.NewDense(len(records), cols, data), nil
}

// ReadSpikesCSV parses 0/1 rows into a SpikeMatrix. Any non-zero value is a spike.
func ReadSpikesCSV(r io.Reader) (*sim.SpikeMatrix, error) {
	d, err := ReadDenseCSV(r)
	if err != nil {
		return nil, err
	}
	rows, cols := d.Dims()
	out, err := sim.NewSpikeMatrix(rows, cols)
	if err != nil {
		return nil, err
	}
	for i := 0; i < rows; i++ {
		for j, v := range d.RawRowView(i) {
			out.Set(i, j, v != 0)
		}
	}
	return out, nil
}

// WriteSpikesCSV writes one 0/1 CSV row per spike train.
func WriteSpikesCSV(w io.Writer, spikes *sim.SpikeMatrix) error {
	cw := csv.NewWriter(w)
	rec := make([]string, spikes.Cols())
	for r := 0; r < spikes.Rows(); r++ {
		for t, v := range spikes.Row(r) {
			if v {
				rec[t] = "1"
			} else {
				rec[t] = "0"
			}
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDenseCSV writes m row by row with the shortest exact float formatting.
func WriteDenseCSV(w io.Writer, m mat.Matrix) error {
	rows, cols := m.Dims()
	cw := csv.NewWriter(w)
	rec := make([]string, cols)
	for i := 0; i < rows; i++ {
		for j := range rec {
			rec[j] = strconv.FormatFloat(m.At(i, j), 'g', -1, 64)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
