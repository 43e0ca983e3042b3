// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// ./cmd/monitor/main.go
//
// Live temperature monitor: samples the divider ADC, converts through
// the fitted model and publishes readings over MQTT.
//
// Run:
//
//	go run ./cmd/monitor -model ntc_coefficients.json
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

	log.Println("starting ntc-lut monitor (ADC -> MQTT)")

	// Load configuration
	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	modelPath := *model
	if modelPath == "" {
		modelPath = config.Get().CoefficientsFile
	}

	if err := app.RunMonitor(modelPath); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
