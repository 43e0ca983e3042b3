package lut

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// ErrEmptyCSV indicates a measurement file without any data rows.
var ErrEmptyCSV = errors.New("lut: measurement file contains no rows")

// WriteCSV writes the table as 2-column CSV (temperature, value), one row
// per table entry in table order. ADC-mode values are written without a
// fractional part.
func (t Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	for _, row := range t {
		rec := []string{
			strconv.FormatFloat(row.Temperature, 'g', -1, 64),
			strconv.FormatFloat(row.Value, 'g', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("lut: write csv: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadMeasurementsCSV parses a 2-column measurement file: temperature in
// the first column, measured quantity (resistance or raw ADC code) in the
// second. Row order is preserved. Blank lines are skipped by the csv
// reader; a malformed field reports its line number.
func ReadMeasurementsCSV(r io.Reader) (temps, values []float64, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true

	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("lut: read csv: %w", err)
		}
		line++

		temp, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("lut: row %d: bad temperature %q: %w", line, rec[0], err)
		}
		value, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("lut: row %d: bad value %q: %w", line, rec[1], err)
		}
		temps = append(temps, temp)
		values = append(values, value)
	}
	if len(temps) == 0 {
		return nil, nil, ErrEmptyCSV
	}
	return temps, values, nil
}
