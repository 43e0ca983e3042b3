package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"

	"github.com/relabs-tech/ntc_lut/internal/config"
	"github.com/relabs-tech/ntc_lut/internal/lut"
	"github.com/relabs-tech/ntc_lut/internal/plot"
	"github.com/relabs-tech/ntc_lut/internal/thermistor"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// tableRowJSON is the wire shape of one table entry in /api/table.
type tableRowJSON struct {
	Temperature float64 `json:"temperature"`
	Value       float64 `json:"value"`
	Converged   bool    `json:"converged"`
}

// RunWeb serves the live dashboard: latest temperature from MQTT, the
// generated lookup table, a rendered calibration curve and static files
// from ./web.
func RunWeb(modelPath string) error {
	cfg := config.Get()

	var (
		mu         sync.RWMutex
		lastSample TemperatureSample
		haveSample bool
	)

	// ---------- Model and table, built once at startup ----------
	record, err := LoadModelFile(modelPath)
	if err != nil {
		return err
	}
	model := record.Model()

	table, err := buildConfiguredTable(cfg, model)
	if err != nil {
		return err
	}
	log.Printf("web: built %d-row table from %s", len(table), modelPath)

	// ---------- Connect to MQTT and track the latest sample ----------
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDWeb)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: connected to MQTT broker at %s", cfg.MQTTBroker)

	token := client.Subscribe(cfg.TopicTemperature, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s TemperatureSample
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("web: MQTT payload unmarshal error: %v", err)
			return
		}
		mu.Lock()
		lastSample = s
		haveSample = true
		mu.Unlock()
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: subscribed to MQTT topic %s", cfg.TopicTemperature)

	// ---------- JSON API ----------
	http.HandleFunc("/api/temperature", func(w http.ResponseWriter, r *http.Request) {
		mu.RLock()
		defer mu.RUnlock()

		if !haveSample {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(lastSample); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})

	http.HandleFunc("/api/table", func(w http.ResponseWriter, r *http.Request) {
		rows := make([]tableRowJSON, len(table))
		for i, row := range table {
			rows[i] = tableRowJSON{Temperature: row.Temperature, Value: row.Value, Converged: row.Converged}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(rows); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})

	http.HandleFunc("/api/model", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(record); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})

	// ---------- Calibration curve ----------
	http.HandleFunc("/plot.png", func(w http.ResponseWriter, r *http.Request) {
		points := make([]plot.Point, len(table))
		for i, row := range table {
			points[i] = plot.Point{X: row.Temperature, Y: row.Value}
		}
		img := plot.Render(points, nil, "temperature C", "table value", 800, 600)

		w.Header().Set("Content-Type", "image/png")
		if err := plot.WritePNG(w, img); err != nil {
			log.Printf("web: png encode error: %v", err)
		}
	})

	// ---------- Live stream over websocket ----------
	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("web: websocket upgrade error: %v", err)
			return
		}
		defer conn.Close()

		ticker := time.NewTicker(time.Duration(cfg.SampleInterval) * time.Millisecond)
		defer ticker.Stop()

		for range ticker.C {
			mu.RLock()
			s, ok := lastSample, haveSample
			mu.RUnlock()
			if !ok {
				continue
			}
			if err := conn.WriteJSON(s); err != nil {
				log.Printf("web: websocket write error: %v", err)
				return
			}
		}
	})

	// ---------- Static files from ./web as the root ----------
	fs := http.FileServer(http.Dir("web"))
	http.Handle("/", fs)

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web server listening on %s", addr)
	return http.ListenAndServe(addr, nil)
}

// buildConfiguredTable expands the configured sample range into the
// ADC-code table the firmware would embed.
func buildConfiguredTable(cfg *config.Config, model thermistor.Model) (lut.Table, error) {
	samples, err := lut.SampleRange(cfg.SampleTempStart, cfg.SampleTempEnd, cfg.SampleTempStep)
	if err != nil {
		return nil, err
	}

	invOpts := thermistor.DefaultInvertOptions()
	invOpts.MaxIterations = cfg.MaxIterations
	invOpts.Tolerance = cfg.Tolerance

	hw := lut.ADCParams{
		Bits:             cfg.TargetADCBits,
		ReferenceVoltage: cfg.ReferenceVoltage,
		PullUpResistance: cfg.PullUpResistance,
	}
	return lut.BuildADCTable(samples, model, hw, invOpts)
}
