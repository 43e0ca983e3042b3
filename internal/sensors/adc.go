// Package sensors wraps the measurement hardware: the ADS1115 ADC that
// samples the divider node and the serial reference thermometer used
// during calibration capture.
package sensors

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/ntc_lut/internal/config"
)

var (
	adcPin     ads1x15.PinADC
	adcOnce    sync.Once
	adcInitErr error
)

// Reading is one divider-node measurement. Code is the voltage rescaled
// onto the configured source ADC grid so downstream math is independent
// of the ADS1115's native 16-bit signed range.
type Reading struct {
	Code    float64 `json:"code"`
	Voltage float64 `json:"voltage"`
}

func adcChannel(ch int) (ads1x15.Channel, error) {
	switch ch {
	case 0:
		return ads1x15.Channel0, nil
	case 1:
		return ads1x15.Channel1, nil
	case 2:
		return ads1x15.Channel2, nil
	case 3:
		return ads1x15.Channel3, nil
	}
	return 0, fmt.Errorf("adc channel %d out of range", ch)
}

// initADC initializes the ADS1115 once
func initADC() {
	adcOnce.Do(func() {
		cfg := config.Get()

		if _, err := host.Init(); err != nil {
			adcInitErr = fmt.Errorf("periph host init: %w", err)
			return
		}

		bus, err := i2creg.Open(cfg.ADCI2CBus)
		if err != nil {
			adcInitErr = fmt.Errorf("adc I2C open: %w", err)
			return
		}

		dev, err := ads1x15.NewADS1115(bus, &ads1x15.DefaultOpts)
		if err != nil {
			adcInitErr = fmt.Errorf("ads1115 init: %w", err)
			return
		}

		ch, err := adcChannel(cfg.ADCChannel)
		if err != nil {
			adcInitErr = err
			return
		}

		// Full-scale range just above the divider reference so the PGA
		// does not clip near vref.
		maxV := physic.ElectricPotential(cfg.ReferenceVoltage * float64(physic.Volt))
		adcPin, err = dev.PinForChannel(ch, maxV, 16*physic.Hertz, ads1x15.SaveEnergy)
		if err != nil {
			adcInitErr = fmt.Errorf("ads1115 pin setup: %w", err)
			return
		}

		fmt.Println("ADS1115 initialized successfully")
	})
}

// ReadADC samples the divider node once and maps the voltage onto the
// configured source ADC code grid.
func ReadADC() (Reading, error) {
	initADC()
	if adcInitErr != nil {
		return Reading{}, adcInitErr
	}

	sample, err := adcPin.Read()
	if err != nil {
		return Reading{}, fmt.Errorf("ads1115 read: %w", err)
	}

	cfg := config.Get()
	volts := float64(sample.V) / float64(physic.Volt)
	return Reading{
		Code:    VoltageToCode(volts, cfg.ReferenceVoltage, cfg.SourceADCBits),
		Voltage: volts,
	}, nil
}

// VoltageToCode rescales a node voltage onto an ADC code grid, clamped
// to [0, 2^bits - 1]. Split out so the mapping is testable without
// hardware.
func VoltageToCode(volts, vref float64, bits int) float64 {
	full := float64(int(1)<<uint(bits)) - 1
	code := volts / vref * full
	if code < 0 {
		return 0
	}
	if code > full {
		return full
	}
	return code
}
