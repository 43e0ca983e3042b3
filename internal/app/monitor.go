package app

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/ntc_lut/internal/config"
	"github.com/relabs-tech/ntc_lut/internal/divider"
	"github.com/relabs-tech/ntc_lut/internal/sensors"
)

// TemperatureSample is the JSON payload published on the temperature
// topic and served by the web API.
type TemperatureSample struct {
	TemperatureC  float64 `json:"temperature_c"`
	ResistanceOhm float64 `json:"resistance_ohm"`
	ADCCode       float64 `json:"adc_code"`
	Voltage       float64 `json:"voltage"`
	Time          string  `json:"time"`
}

// RunMonitor loads the fitted model and publishes live temperature
// readings over MQTT: the converted sample on the temperature topic
// and the raw ADC reading on the raw topic.
func RunMonitor(modelPath string) error {
	log.Println("starting ntc-lut temperature monitor")

	cfg := config.Get()

	record, err := LoadModelFile(modelPath)
	if err != nil {
		return err
	}
	model := record.Model()
	log.Printf("monitor: loaded model from %s (fitted %s, %d coefficients)",
		modelPath, record.FittedAt, len(record.Coefficients))

	if record.ReferenceVoltage != cfg.ReferenceVoltage || record.PullUpResistance != cfg.PullUpResistance {
		log.Printf("WARNING: model was fitted with vref=%g pullup=%g but config says vref=%g pullup=%g",
			record.ReferenceVoltage, record.PullUpResistance, cfg.ReferenceVoltage, cfg.PullUpResistance)
	}

	// --- connect to MQTT ---
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDMonitor)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)

	log.Printf("monitor: connected to MQTT broker at %s, starting publish loop", cfg.MQTTBroker)

	ticker := time.NewTicker(time.Duration(cfg.SampleInterval) * time.Millisecond)
	defer ticker.Stop()

	for t := range ticker.C {
		reading, err := sensors.ReadADC()
		if err != nil {
			log.Printf("monitor: adc read error: %v", err)
			continue
		}

		// Raw reading goes out regardless of convertibility.
		if payload, err := json.Marshal(reading); err != nil {
			log.Printf("monitor: raw marshal error: %v", err)
		} else if token := client.Publish(cfg.TopicADCRaw, 0, true, payload); token.Wait() && token.Error() != nil {
			log.Printf("monitor: MQTT publish error (raw): %v", token.Error())
		}

		resistance, err := divider.ToResistance(reading.Code, cfg.SourceADCBits, cfg.ReferenceVoltage, cfg.PullUpResistance)
		if err != nil {
			// Saturated or floating input; nothing sensible to publish.
			if errors.Is(err, divider.ErrCodeOutOfRange) {
				log.Printf("monitor: reading saturated (code %.1f), skipping conversion", reading.Code)
				continue
			}
			return err
		}

		sample := TemperatureSample{
			TemperatureC:  model.Temperature(resistance, true),
			ResistanceOhm: resistance,
			ADCCode:       reading.Code,
			Voltage:       reading.Voltage,
			Time:          t.Format(time.RFC3339),
		}

		payload, err := json.Marshal(sample)
		if err != nil {
			log.Printf("monitor: marshal error: %v", err)
			continue
		}
		if token := client.Publish(cfg.TopicTemperature, 0, true, payload); token.Wait() && token.Error() != nil {
			log.Printf("monitor: MQTT publish error (temperature): %v", token.Error())
			continue
		}

		log.Printf("%s tick: %.2f C | %.1f ohm | code %.1f",
			t.Format(time.RFC3339), sample.TemperatureC, sample.ResistanceOhm, sample.ADCCode)
	}
	return nil
}
