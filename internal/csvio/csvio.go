// Package csvio writes the decimation and inversion CSV outputs of
// spec.md §6.2 and §6.4, in the manner of the teacher's own log_write
// (encoding/csv, an explicit header written once; the decimation writer
// flushes after every row, the inversion writer once at the end).
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/bilaljo/MiniPTI/internal/pti"
)

// DecimationHeader is the exact, case-sensitive header line of §6.2.
var DecimationHeader = []string{"DC1", "DC2", "DC3", "X1", "Y1", "X2", "Y2", "X3", "Y3"}

// DecimationWriter writes one row per block to the decimation CSV.
type DecimationWriter struct {
	w           *csv.Writer
	wroteHeader bool
}

// NewDecimationWriter wraps w with the configured field delimiter. Pass
// wroteHeader=true when appending to a file that already has a header
// (§6.2 "Write mode: truncate on fresh run, append on resume").
func NewDecimationWriter(w io.Writer, delimiter rune, wroteHeader bool) *DecimationWriter {
	cw := csv.NewWriter(w)
	if delimiter != 0 {
		cw.Comma = delimiter
	}
	return &DecimationWriter{w: cw, wroteHeader: wroteHeader}
}

// WriteRow writes one DecimatedRow, writing the header first if it has
// not already been written.
func (d *DecimationWriter) WriteRow(row pti.DecimatedRow) error {
	if !d.wroteHeader {
		if err := d.w.Write(DecimationHeader); err != nil {
			return fmt.Errorf("writing decimation header: %w", err)
		}
		d.wroteHeader = true
	}

	record := []string{
		formatFloat(row.DC1), formatFloat(row.DC2), formatFloat(row.DC3),
		formatFloat(row.X1), formatFloat(row.Y1),
		formatFloat(row.X2), formatFloat(row.Y2),
		formatFloat(row.X3), formatFloat(row.Y3),
	}
	if err := d.w.Write(record); err != nil {
		return fmt.Errorf("writing decimation row: %w", err)
	}
	d.w.Flush()
	return d.w.Error()
}

// InversionHeader is the stable column order of §6.4: the minimum
// required two columns, plus (in verbose mode) the nine additional
// per-channel columns.
func InversionHeader(verbose bool) []string {
	header := []string{"PTI Signal", "Interferometric Phase"}
	if !verbose {
		return header
	}
	for i := 1; i <= 3; i++ {
		header = append(header, fmt.Sprintf("Root Mean Square %d", i))
	}
	for i := 1; i <= 3; i++ {
		header = append(header, fmt.Sprintf("Response Phase %d", i))
	}
	for i := 1; i <= 3; i++ {
		header = append(header, fmt.Sprintf("Demodulated Signal %d", i))
	}
	return header
}

// WriteInversionResult writes the full inversion CSV in one pass, since
// (unlike decimation) the inversion driver already holds the whole
// result in memory (§4.7 operates over "a full decimated sequence").
func WriteInversionResult(w io.Writer, result pti.InversionResult, delimiter rune, verbose bool) error {
	cw := csv.NewWriter(w)
	if delimiter != 0 {
		cw.Comma = delimiter
	}

	if err := cw.Write(InversionHeader(verbose)); err != nil {
		return fmt.Errorf("writing inversion header: %w", err)
	}

	for i := range result.PTISignal {
		record := []string{formatFloat(result.PTISignal[i]), formatFloat(result.InterferometricPhase[i])}
		if verbose {
			for c := 0; c < 3; c++ {
				record = append(record, formatFloat(result.Verbose[c].R[i]))
			}
			for c := 0; c < 3; c++ {
				record = append(record, formatFloat(result.Verbose[c].Theta[i]))
			}
			for c := 0; c < 3; c++ {
				record = append(record, formatFloat(result.Verbose[c].Demod[i]))
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing inversion row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// formatFloat renders a float64 with enough precision to round-trip
// (§6.2 "Numeric formatting: general float with sufficient precision to
// round-trip float64"), including NaN for degenerate rows (§4.7).
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
