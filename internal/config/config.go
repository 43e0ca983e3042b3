// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker          string
	MQTTClientIDMonitor string
	MQTTClientIDWeb     string

	// Topics
	TopicTemperature string
	TopicADCRaw      string

	// ADC Hardware
	ADCI2CBus  string // empty selects the first available bus
	ADCChannel int    // ADS1115 input channel 0-3

	// Divider electronics
	ReferenceVoltage float64 // volts
	PullUpResistance float64 // ohms
	SourceADCBits    int     // resolution of the capture ADC
	TargetADCBits    int     // resolution of the ADC the table targets

	// Reference thermometer (serial, one Celsius reading per line)
	ThermometerSerialPort string
	ThermometerBaudRate   int

	// Table generation
	SampleTempStart float64 // Celsius
	SampleTempEnd   float64
	SampleTempStep  float64
	Powers          []int // Steinhart-Hart powers
	MaxIterations   int
	Tolerance       float64

	// Timing
	SampleInterval int // milliseconds

	// Web Server
	WebServerPort int

	// Artifacts
	CoefficientsFile string
	MeasurementsFile string
}

// Package-level unexported variables for singleton pattern:
//   - globalConfig: unexported so other packages cannot access it directly.
//   - configOnce: ensures InitGlobal() only runs once, even if called multiple times.
//   - configMu: RWMutex protects concurrent access. Write lock for
//     initialization, read lock for Get().
//
// External code must use InitGlobal() to set and Get() to read.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// defaults mirrors the generator's built-in parameter set; a config file
// only has to name the values it wants to change, plus the required keys.
func defaults() *Config {
	return &Config{
		MQTTBroker:            "tcp://localhost:1883",
		MQTTClientIDMonitor:   "ntc-monitor-producer",
		MQTTClientIDWeb:       "ntc-web-subscriber",
		TopicTemperature:      "ntc/temperature",
		TopicADCRaw:           "ntc/adc_raw",
		ReferenceVoltage:      3.3,
		PullUpResistance:      4700,
		SourceADCBits:         12,
		TargetADCBits:         12,
		ThermometerSerialPort: "/dev/ttyUSB0",
		ThermometerBaudRate:   9600,
		SampleTempStart:       0,
		SampleTempEnd:         350,
		SampleTempStep:        10,
		Powers:                []int{0, 1, 3},
		MaxIterations:         1000,
		Tolerance:             1e-6,
		SampleInterval:        1000,
		WebServerPort:         8080,
		CoefficientsFile:      "ntc_coefficients.json",
		MeasurementsFile:      "measurements.csv",
	}
}

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := defaults()
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Validate required fields
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_MONITOR":
		c.MQTTClientIDMonitor = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value

	// Topics
	case "TOPIC_TEMPERATURE":
		c.TopicTemperature = value
	case "TOPIC_ADC_RAW":
		c.TopicADCRaw = value

	// ADC Hardware
	case "ADC_I2C_BUS":
		c.ADCI2CBus = value
	case "ADC_CHANNEL":
		ch, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid ADC_CHANNEL %q: %w", value, err)
		}
		if ch < 0 || ch > 3 {
			return fmt.Errorf("ADC_CHANNEL must be 0-3, got %d", ch)
		}
		c.ADCChannel = ch

	// Divider electronics
	case "REFERENCE_VOLTAGE":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid REFERENCE_VOLTAGE %q: %w", value, err)
		}
		c.ReferenceVoltage = v
	case "PULL_UP_RESISTANCE":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid PULL_UP_RESISTANCE %q: %w", value, err)
		}
		c.PullUpResistance = v
	case "SOURCE_ADC_BITS":
		bits, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SOURCE_ADC_BITS %q: %w", value, err)
		}
		c.SourceADCBits = bits
	case "TARGET_ADC_BITS":
		bits, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid TARGET_ADC_BITS %q: %w", value, err)
		}
		c.TargetADCBits = bits

	// Reference thermometer
	case "THERMOMETER_SERIAL_PORT":
		c.ThermometerSerialPort = value
	case "THERMOMETER_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid THERMOMETER_BAUD_RATE %q: %w", value, err)
		}
		c.ThermometerBaudRate = rate

	// Table generation
	case "SAMPLE_TEMP_START":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid SAMPLE_TEMP_START %q: %w", value, err)
		}
		c.SampleTempStart = v
	case "SAMPLE_TEMP_END":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid SAMPLE_TEMP_END %q: %w", value, err)
		}
		c.SampleTempEnd = v
	case "SAMPLE_TEMP_STEP":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid SAMPLE_TEMP_STEP %q: %w", value, err)
		}
		c.SampleTempStep = v
	case "STEINHART_HART_POWERS":
		powers, err := ParsePowers(value)
		if err != nil {
			return err
		}
		c.Powers = powers
	case "MAX_ITERATIONS":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid MAX_ITERATIONS %q: %w", value, err)
		}
		c.MaxIterations = n
	case "TOLERANCE":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid TOLERANCE %q: %w", value, err)
		}
		c.Tolerance = v

	// Timing
	case "SAMPLE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SAMPLE_INTERVAL %q: %w", value, err)
		}
		c.SampleInterval = interval

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port

	// Artifacts
	case "COEFFICIENTS_FILE":
		c.CoefficientsFile = value
	case "MEASUREMENTS_FILE":
		c.MeasurementsFile = value

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// ParsePowers parses a comma-separated list of non-negative integer
// Steinhart-Hart powers, e.g. "0,1,3".
func ParsePowers(value string) ([]int, error) {
	fields := strings.Split(value, ",")
	powers := make([]int, 0, len(fields))
	for _, f := range fields {
		p, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("invalid power %q: %w", f, err)
		}
		if p < 0 {
			return nil, fmt.Errorf("powers must be non-negative, got %d", p)
		}
		powers = append(powers, p)
	}
	return powers, nil
}

// validate checks that all required fields are set and consistent.
func (c *Config) validate() error {
	if c.ReferenceVoltage <= 0 {
		return fmt.Errorf("REFERENCE_VOLTAGE must be positive")
	}
	if c.PullUpResistance <= 0 {
		return fmt.Errorf("PULL_UP_RESISTANCE must be positive")
	}
	if c.SourceADCBits < 1 {
		return fmt.Errorf("SOURCE_ADC_BITS must be at least 1")
	}
	if c.TargetADCBits < 1 {
		return fmt.Errorf("TARGET_ADC_BITS must be at least 1")
	}
	if len(c.Powers) == 0 {
		return fmt.Errorf("STEINHART_HART_POWERS must not be empty")
	}
	if c.SampleInterval <= 0 {
		return fmt.Errorf("SAMPLE_INTERVAL must be positive")
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("MAX_ITERATIONS must be at least 1")
	}
	if c.Tolerance <= 0 {
		return fmt.Errorf("TOLERANCE must be positive")
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
