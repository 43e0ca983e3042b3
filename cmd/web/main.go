// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// ./cmd/web/main.go
//
// Web dashboard: subscribes to the monitor's MQTT topics and serves the
// latest reading, the generated lookup table and a calibration-curve
// image over HTTP.
//
// Run:
//
//	go run ./cmd/web -model ntc_coefficients.json
package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/ntc_lut/internal/app"
	"github.com/relabs-tech/ntc_lut/internal/config"
)

func main() {
	configPath := flag.String("config", "./ntc_config.txt", "path to configuration file")
	model := flag.String("model", "", "coefficients JSON (default COEFFICIENTS_FILE from config)")
	flag.Parse()

	log.Println("starting ntc-lut web dashboard")

	// Load configuration
	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	modelPath := *model
	if modelPath == "" {
		modelPath = config.Get().CoefficientsFile
	}

	if err := app.RunWeb(modelPath); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
