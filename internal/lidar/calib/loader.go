package calib

import (
	"embed"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

//go:embed sensor_configs/*.csv
var embeddedConfigs embed.FS

// Expected CSV header for calibration files.
var calibrationHeader = []string{
	"channel", "vert_correction", "rot_correction",
	"dist_correction", "vert_offset", "horiz_offset", "enabled",
}

// LoadFile loads a calibration table from a CSV file on disk.
func LoadFile(path string) (*Calibration, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open calibration file: %w", err)
	}
	defer f.Close()

	cal, err := load(f)
	if err != nil {
		return nil, fmt.Errorf("calibration file %s: %w", path, err)
	}
	return cal, nil
}

// LoadEmbedded loads the factory calibration table for a known sensor model
// from CSV files embedded in the binary (e.g. "HDL-32E").
func LoadEmbedded(model string) (*Calibration, error) {
	f, err := embeddedConfigs.Open("sensor_configs/" + model + ".csv")
	if err != nil {
		return nil, fmt.Errorf("no embedded calibration for model %q: %w", model, err)
	}
	defer f.Close()

	cal, err := load(f)
	if err != nil {
		return nil, fmt.Errorf("embedded calibration %s: %w", model, err)
	}
	return cal, nil
}

// load parses calibration CSV records from a reader.
func load(r io.Reader) (*Calibration, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return parseRecords(records)
}

// parseRecords validates the header row and parses the data rows into a
// dense calibration table.
func parseRecords(records [][]string) (*Calibration, error) {
	if len(records) < 2 {
		return nil, fmt.Errorf("insufficient data in calibration file")
	}

	header := records[0]
	if len(header) != len(calibrationHeader) {
		return nil, fmt.Errorf("invalid header: expected %d columns, got %d",
			len(calibrationHeader), len(header))
	}
	for i, want := range calibrationHeader {
		if strings.ToLower(strings.TrimSpace(header[i])) != want {
			return nil, fmt.Errorf("invalid header column %d: expected %q, got %q",
				i, want, header[i])
		}
	}

	lasers := make([]LaserCorrection, 0, len(records)-1)
	for i, record := range records[1:] {
		line := i + 2 // 1-based, after header
		if len(record) != len(calibrationHeader) {
			return nil, fmt.Errorf("invalid record at line %d: expected %d fields", line, len(calibrationHeader))
		}

		channel, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			return nil, fmt.Errorf("invalid channel number at line %d: %w", line, err)
		}

		var fields [5]float64
		names := []string{"vert_correction", "rot_correction", "dist_correction", "vert_offset", "horiz_offset"}
		for j := range fields {
			fields[j], err = strconv.ParseFloat(strings.TrimSpace(record[j+1]), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid %s at line %d: %w", names[j], line, err)
			}
		}

		enabled, err := strconv.ParseBool(strings.TrimSpace(record[6]))
		if err != nil {
			return nil, fmt.Errorf("invalid enabled flag at line %d: %w", line, err)
		}

		lasers = append(lasers, LaserCorrection{
			Channel:        channel,
			VertCorrection: fields[0],
			RotCorrection:  fields[1],
			DistCorrection: fields[2],
			VertOffset:     fields[3],
			HorizOffset:    fields[4],
			Enabled:        enabled,
		})
	}

	return NewCalibration(lasers)
}
