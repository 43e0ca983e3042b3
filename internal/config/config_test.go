package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/ntc_lut/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ntc_config.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestLoad_Defaults checks that an empty file yields the built-in
// parameter set.
func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, "# empty\n"))
	require.NoError(t, err)

	assert.Equal(t, "tcp://localhost:1883", cfg.MQTTBroker)
	assert.Equal(t, 3.3, cfg.ReferenceVoltage)
	assert.Equal(t, 4700.0, cfg.PullUpResistance)
	assert.Equal(t, 12, cfg.TargetADCBits)
	assert.Equal(t, []int{0, 1, 3}, cfg.Powers)
	assert.Equal(t, 0.0, cfg.SampleTempStart)
	assert.Equal(t, 350.0, cfg.SampleTempEnd)
	assert.Equal(t, 10.0, cfg.SampleTempStep)
	assert.Equal(t, 1000, cfg.MaxIterations)
	assert.Equal(t, 1e-6, cfg.Tolerance)
	assert.Equal(t, 8080, cfg.WebServerPort)
}

// TestLoad_Overrides checks KEY=VALUE parsing including comments and
// surrounding whitespace.
func TestLoad_Overrides(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, `
# broker on another host
MQTT_BROKER = tcp://192.168.1.10:1883
REFERENCE_VOLTAGE=5.0
PULL_UP_RESISTANCE=10000
TARGET_ADC_BITS=10
STEINHART_HART_POWERS=0,1,2,3
SAMPLE_TEMP_END=120
ADC_CHANNEL=2
`))
	require.NoError(t, err)

	assert.Equal(t, "tcp://192.168.1.10:1883", cfg.MQTTBroker)
	assert.Equal(t, 5.0, cfg.ReferenceVoltage)
	assert.Equal(t, 10000.0, cfg.PullUpResistance)
	assert.Equal(t, 10, cfg.TargetADCBits)
	assert.Equal(t, []int{0, 1, 2, 3}, cfg.Powers)
	assert.Equal(t, 120.0, cfg.SampleTempEnd)
	assert.Equal(t, 2, cfg.ADCChannel)
}

// TestLoad_Errors covers rejection of malformed files.
func TestLoad_Errors(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", "NO_SUCH_KEY=1\n", "unknown config key"},
		{"missing equals", "JUSTAKEY\n", "invalid config line"},
		{"bad float", "REFERENCE_VOLTAGE=abc\n", "invalid REFERENCE_VOLTAGE"},
		{"bad channel", "ADC_CHANNEL=7\n", "ADC_CHANNEL must be 0-3"},
		{"negative power", "STEINHART_HART_POWERS=0,-1\n", "non-negative"},
		{"zero vref", "REFERENCE_VOLTAGE=0\n", "REFERENCE_VOLTAGE must be positive"},
		{"zero tolerance", "TOLERANCE=0\n", "TOLERANCE must be positive"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

// TestLoad_MissingFile checks the open error path.
func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

// TestParsePowers checks the exported power-list parser used by both
// the config file and command-line flags.
func TestParsePowers(t *testing.T) {
	powers, err := config.ParsePowers(" 0, 1 ,3")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 3}, powers)

	_, err = config.ParsePowers("0,x")
	assert.Error(t, err)
}
