// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// ./cmd/generate/main.go
//
// Fits Steinhart-Hart coefficients to a thermistor calibration CSV and
// writes the firmware lookup table plus a coefficients record.
//
// Run:
//
//	go run ./cmd/generate -measurements measurements.csv -out table.csv
package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/ntc_lut/internal/app"
	"github.com/relabs-tech/ntc_lut/internal/config"
)

func main() {
	configPath := flag.String("config", "./ntc_config.txt", "path to configuration file")
	measurements := flag.String("measurements", "measurements.csv", "calibration CSV (temperature, resistance or code)")
	out := flag.String("out", "ntc_table.csv", "output lookup table CSV")
	plotOut := flag.String("plot", "", "optional PNG of the fitted curve with measured points")
	inputADC := flag.Bool("input-adc", false, "measurement values are raw ADC codes instead of ohms")
	outputADC := flag.Bool("output-adc", false, "emit ADC codes instead of resistances")
	kelvin := flag.Bool("kelvin", false, "temperatures are Kelvin instead of Celsius")
	flag.Parse()

	log.Println("starting ntc-lut table generator")

	// Load configuration
	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	err := app.RunGenerate(app.GenerateOptions{
		MeasurementsPath: *measurements,
		TablePath:        *out,
		PlotPath:         *plotOut,
		InputADC:         *inputADC,
		OutputADC:        *outputADC,
		Kelvin:           *kelvin,
	})
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
