package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/bilaljo/MiniPTI/internal/pti"
)

// ReadDecimatedRows reads a decimation CSV (§6.2) back into memory for the
// invert subcommand, which needs the full decimated sequence at once
// (§4.7 "a full decimated sequence").
func ReadDecimatedRows(r io.Reader, delimiter rune) ([]pti.DecimatedRow, error) {
	cr := csv.NewReader(r)
	if delimiter != 0 {
		cr.Comma = delimiter
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading decimation CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	rows := make([]pti.DecimatedRow, 0, len(records)-1)
	for _, record := range records[1:] { // skip header
		if len(record) < 9 {
			return nil, fmt.Errorf("decimation row has %d fields, want 9", len(record))
		}
		values, err := parseFloats(record[:9])
		if err != nil {
			return nil, err
		}
		rows = append(rows, pti.DecimatedRow{
			DC1: values[0], DC2: values[1], DC3: values[2],
			X1: values[3], Y1: values[4],
			X2: values[5], Y2: values[6],
			X3: values[7], Y3: values[8],
		})
	}
	return rows, nil
}

// ReadPhaseScanSamples reads a long phase-scan sweep CSV: three DC
// columns, DC1,DC2,DC3, one row per sample (§4.5, §4.6 consume DC alone).
func ReadPhaseScanSamples(r io.Reader, delimiter rune) ([]pti.PhaseScanSample, error) {
	cr := csv.NewReader(r)
	if delimiter != 0 {
		cr.Comma = delimiter
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading phase-scan CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	samples := make([]pti.PhaseScanSample, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 3 {
			return nil, fmt.Errorf("phase-scan row has %d fields, want 3", len(record))
		}
		values, err := parseFloats(record[:3])
		if err != nil {
			return nil, err
		}
		samples = append(samples, pti.PhaseScanSample{DC: [3]float64{values[0], values[1], values[2]}})
	}
	return samples, nil
}

func parseFloats(fields []string) ([]float64, error) {
	values := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing field %q: %w", f, err)
		}
		values[i] = v
	}
	return values, nil
}
