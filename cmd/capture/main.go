// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// ./cmd/capture/main.go
//
// Guided calibration capture: walks the operator through a set of bath
// temperatures, averaging the ADS1115 divider reading against the
// serial reference thermometer at each point, and writes the
// measurement CSV consumed by cmd/generate.
//
// Run:
//
//	go run ./cmd/capture
package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/ntc_lut/internal/app"
	"github.com/relabs-tech/ntc_lut/internal/config"
)

func main() {
	configPath := flag.String("config", "./ntc_config.txt", "path to configuration file")
	out := flag.String("out", "", "measurement CSV to write (default MEASUREMENTS_FILE from config)")
	manual := flag.Bool("manual", false, "type points at the console instead of sampling hardware")
	samples := flag.Int("samples", 10, "readings averaged per calibration point")
	flag.Parse()

	// Load configuration
	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	outputPath := *out
	if outputPath == "" {
		outputPath = config.Get().MeasurementsFile
	}

	err := app.RunCapture(app.CaptureOptions{
		OutputPath: outputPath,
		Manual:     *manual,
		Samples:    *samples,
	})
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
