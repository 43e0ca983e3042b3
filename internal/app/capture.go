// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/relabs-tech/ntc_lut/internal/config"
	"github.com/relabs-tech/ntc_lut/internal/lut"
	"github.com/relabs-tech/ntc_lut/internal/sensors"
)

// CaptureOptions controls one guided measurement session.
type CaptureOptions struct {
	OutputPath string // measurement CSV to write
	Manual     bool   // type points at the console instead of sampling hardware
	Samples    int    // readings averaged per calibration point
}

// RunCapture walks the operator through collecting calibration points
// and writes them as a measurement CSV suitable for RunGenerate. In
// hardware mode each point averages the ADS1115 divider reading against
// the serial reference thermometer; in manual mode the operator types
// temperature/value pairs from a bench instrument.
func RunCapture(opts CaptureOptions) error {
	in := bufio.NewReader(os.Stdin)

	fmt.Println("=== Guided Thermistor Calibration Capture ===")
	fmt.Printf("Points will be stored in %s\n", opts.OutputPath)
	fmt.Println()

	var table lut.Table
	var err error
	if opts.Manual {
		table, err = captureManual(in)
	} else {
		table, err = captureHardware(in, opts.Samples)
	}
	if err != nil {
		return err
	}
	if len(table) == 0 {
		return fmt.Errorf("capture: no points collected")
	}

	out, err := os.Create(opts.OutputPath)
	if err != nil {
		return fmt.Errorf("create measurement file: %w", err)
	}
	defer out.Close()

	if err := table.WriteCSV(out); err != nil {
		return err
	}

	fmt.Printf("\nCapture complete: %d points written to %s\n", len(table), opts.OutputPath)
	return nil
}

// ---------- Manual entry ----------

func captureManual(in *bufio.Reader) (lut.Table, error) {
	fmt.Println("Manual mode: enter one point per line as 'temperature,value'.")
	fmt.Println("Value is resistance in ohms (or a raw ADC code if you plan to")
	fmt.Println("generate with -input-adc). Empty line finishes the session.")
	fmt.Println()

	var table lut.Table
	for {
		fmt.Printf("point %d> ", len(table)+1)
		line, err := in.ReadString('\n')
		if err != nil {
			return table, nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return table, nil
		}

		parts := strings.SplitN(line, ",", 2)
		if len(parts) != 2 {
			fmt.Println("Invalid input, expected 'temperature,value'.")
			continue
		}
		temp, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		value, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err1 != nil || err2 != nil {
			fmt.Println("Invalid numbers, try again.")
			continue
		}

		table = append(table, lut.Row{Temperature: temp, Value: value, Converged: true})
	}
}

// ---------- Hardware capture ----------

func captureHardware(in *bufio.Reader, samples int) (lut.Table, error) {
	if samples < 1 {
		samples = 10
	}

	thermo, err := sensors.OpenThermometer()
	if err != nil {
		return nil, err
	}
	defer thermo.Close()

	cfg := config.Get()
	period := time.Duration(cfg.SampleInterval) * time.Millisecond

	var table lut.Table
	for {
		fmt.Printf("\nPoint %d: bring the bath to the next temperature and let it settle.\n", len(table)+1)
		waitEnter(in, "Press ENTER to capture...")

		temp, code, err := averagePoint(thermo, samples, period)
		if err != nil {
			return nil, err
		}

		fmt.Printf("  captured: %.2f C at code %.1f (%d samples)\n", temp, code, samples)
		table = append(table, lut.Row{Temperature: temp, Value: code, Converged: true})

		fmt.Print("Capture another point? [Y/n]: ")
		line, _ := in.ReadString('\n')
		line = strings.TrimSpace(strings.ToUpper(line))
		if line == "N" {
			return table, nil
		}
	}
}

// averagePoint samples the ADC and the reference thermometer together
// and returns the per-point means. Averaging suppresses single-sample
// ADC noise; the bath is assumed stable over the capture window.
func averagePoint(thermo *sensors.Thermometer, samples int, period time.Duration) (temp, code float64, err error) {
	var tempSum, codeSum float64
	for i := 0; i < samples; i++ {
		reading, err := sensors.ReadADC()
		if err != nil {
			return 0, 0, err
		}
		t, err := thermo.ReadTemperature()
		if err != nil {
			return 0, 0, err
		}
		tempSum += t
		codeSum += reading.Code
		time.Sleep(period)
	}
	n := float64(samples)
	return tempSum / n, codeSum / n, nil
}

// ---------- Console helpers ----------

func waitEnter(in *bufio.Reader, prompt string) {
	fmt.Print(prompt)
	_, _ = in.ReadString('\n')
}
