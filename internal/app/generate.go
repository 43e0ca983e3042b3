// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package app ties the numeric packages to the command-line tools:
// table generation, guided measurement capture, the live monitor and
// the web front end.
package app

import (
	"fmt"
	"log"
	"os"

	"github.com/relabs-tech/ntc_lut/internal/config"
	"github.com/relabs-tech/ntc_lut/internal/divider"
	"github.com/relabs-tech/ntc_lut/internal/lut"
	"github.com/relabs-tech/ntc_lut/internal/plot"
	"github.com/relabs-tech/ntc_lut/internal/thermistor"
)

// GenerateOptions selects the input and output encodings for one table
// generation run.
type GenerateOptions struct {
	MeasurementsPath string // calibration CSV: temperature, resistance-or-code
	TablePath        string // output lookup table CSV
	PlotPath         string // optional PNG of the fitted curve with measured points
	InputADC         bool   // measurement values are raw source-ADC codes, not ohms
	OutputADC        bool   // table values are target-ADC codes, not ohms
	Kelvin           bool   // temperatures in the CSV and sample range are Kelvin
}

// RunGenerate fits a model to the measurement file and writes the
// lookup table plus the coefficients record named in the configuration.
func RunGenerate(opts GenerateOptions) error {
	return generate(config.Get(), opts)
}

func generate(cfg *config.Config, opts GenerateOptions) error {
	f, err := os.Open(opts.MeasurementsPath)
	if err != nil {
		return fmt.Errorf("open measurements: %w", err)
	}
	defer f.Close()

	temps, values, err := lut.ReadMeasurementsCSV(f)
	if err != nil {
		return err
	}
	log.Printf("generate: %d calibration points from %s", len(temps), opts.MeasurementsPath)

	// ---------- Resolve measurement values to resistances ----------
	resistances := values
	if opts.InputADC {
		resistances, err = divider.ToResistances(values, cfg.SourceADCBits, cfg.ReferenceVoltage, cfg.PullUpResistance)
		if err != nil {
			return fmt.Errorf("convert adc measurements: %w", err)
		}
	}

	// ---------- Fit ----------
	model, err := thermistor.Fit(temps, resistances, cfg.Powers, !opts.Kelvin)
	if err != nil {
		return err
	}

	log.Println("generate: fitted Steinhart-Hart coefficients:")
	for i, p := range model.Powers {
		log.Printf("  a%d = %.12g", p, model.Coefficients[i])
	}

	// ---------- Build the table ----------
	samples, err := lut.SampleRange(cfg.SampleTempStart, cfg.SampleTempEnd, cfg.SampleTempStep)
	if err != nil {
		return err
	}

	invOpts := thermistor.DefaultInvertOptions()
	invOpts.MaxIterations = cfg.MaxIterations
	invOpts.Tolerance = cfg.Tolerance
	invOpts.Celsius = !opts.Kelvin

	var table lut.Table
	if opts.OutputADC {
		hw := lut.ADCParams{
			Bits:             cfg.TargetADCBits,
			ReferenceVoltage: cfg.ReferenceVoltage,
			PullUpResistance: cfg.PullUpResistance,
		}
		table, err = lut.BuildADCTable(samples, model, hw, invOpts)
	} else {
		table, err = lut.BuildResistanceTable(samples, model, invOpts)
	}
	if err != nil {
		return err
	}

	for _, row := range table {
		if !row.Converged {
			log.Printf("WARNING: root finding did not converge at %g (value %g after %d iterations)",
				row.Temperature, row.Value, row.Iterations)
		}
	}

	// ---------- Write artifacts ----------
	out, err := os.Create(opts.TablePath)
	if err != nil {
		return fmt.Errorf("create table file: %w", err)
	}
	defer out.Close()

	if err := table.WriteCSV(out); err != nil {
		return err
	}
	log.Printf("generate: wrote %d-row table to %s", len(table), opts.TablePath)

	record := NewModelFile(model, cfg.ReferenceVoltage, cfg.PullUpResistance, cfg.SourceADCBits, len(temps))
	if err := SaveModelFile(cfg.CoefficientsFile, record); err != nil {
		return err
	}
	log.Printf("generate: wrote coefficients to %s", cfg.CoefficientsFile)

	if opts.PlotPath != "" {
		if err := writePlot(opts.PlotPath, samples, model, invOpts, temps, resistances); err != nil {
			return err
		}
		log.Printf("generate: wrote plot to %s", opts.PlotPath)
	}

	return nil
}

// writePlot renders the fitted temperature/resistance curve with the
// calibration points overlaid. Always drawn in resistance space, even
// for ADC-mode tables, so the fit quality is visible on the measured
// quantities.
func writePlot(path string, samples []float64, model thermistor.Model, invOpts thermistor.InvertOptions, temps, resistances []float64) error {
	table, err := lut.BuildResistanceTable(samples, model, invOpts)
	if err != nil {
		return err
	}

	curve := make([]plot.Point, len(table))
	for i, row := range table {
		curve[i] = plot.Point{X: row.Temperature, Y: row.Value}
	}
	markers := make([]plot.Point, len(temps))
	for i := range temps {
		markers[i] = plot.Point{X: temps[i], Y: resistances[i]}
	}

	img := plot.Render(curve, markers, "temperature", "resistance ohm", 800, 600)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create plot file: %w", err)
	}
	defer f.Close()
	return plot.WritePNG(f, img)
}
