// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/ntc_lut/internal/config"
)

// Thermometer reads the serial reference thermometer used during
// calibration capture. The instrument emits one Celsius reading per
// line, e.g. "25.31\n".
type Thermometer struct {
	port   io.ReadWriteCloser
	reader *bufio.Reader
}

// OpenThermometer opens the serial port named in the configuration.
func OpenThermometer() (*Thermometer, error) {
	cfg := config.Get()

	serialOpts := serial.OpenOptions{
		PortName:              cfg.ThermometerSerialPort,
		BaudRate:              uint(cfg.ThermometerBaudRate),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(serialOpts)
	if err != nil {
		return nil, fmt.Errorf("thermometer serial open %s: %w", serialOpts.PortName, err)
	}

	return &Thermometer{port: port, reader: bufio.NewReader(port)}, nil
}

// ReadTemperature blocks until the next complete reading arrives and
// returns it in Celsius. Blank lines and partial garbage (common right
// after opening the port mid-line) are skipped.
func (t *Thermometer) ReadTemperature() (float64, error) {
	for {
		line, err := t.reader.ReadString('\n')
		if err != nil {
			return 0, fmt.Errorf("thermometer read: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		temp, err := strconv.ParseFloat(line, 64)
		if err != nil {
			continue
		}
		return temp, nil
	}
}

// Close releases the serial port.
func (t *Thermometer) Close() error {
	return t.port.Close()
}
