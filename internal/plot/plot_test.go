package plot_test

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/ntc_lut/internal/plot"
)

// TestRender checks that a curve actually lands on the raster and that
// the PNG encoding round-trips with the requested dimensions.
func TestRender(t *testing.T) {
	curve := []plot.Point{
		{X: 0, Y: 10000},
		{X: 50, Y: 3600},
		{X: 100, Y: 670},
	}
	markers := []plot.Point{{X: 25, Y: 6500}}
	img := plot.Render(curve, markers, "temperature", "resistance", 640, 480)
	require.NotNil(t, img)
	assert.Equal(t, 640, img.Bounds().Dx())
	assert.Equal(t, 480, img.Bounds().Dy())

	// Curve and marker colors must both appear on the raster.
	foundCurve, foundMarker := false, false
	for y := 0; y < 480; y++ {
		for x := 0; x < 640; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if r>>8 == 200 && g>>8 == 40 && b>>8 == 40 {
				foundCurve = true
			}
			if r>>8 == 40 && g>>8 == 80 && b>>8 == 200 {
				foundMarker = true
			}
		}
	}
	assert.True(t, foundCurve, "curve pixels not drawn")
	assert.True(t, foundMarker, "marker pixels not drawn")

	var buf bytes.Buffer
	require.NoError(t, plot.WritePNG(&buf, img))
	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 640, decoded.Bounds().Dx())
}

// TestRender_Empty must not panic and should still produce a canvas.
func TestRender_Empty(t *testing.T) {
	img := plot.Render(nil, nil, "x", "y", 320, 240)
	require.NotNil(t, img)
	assert.Equal(t, 320, img.Bounds().Dx())
}

// TestRender_DegenerateRange covers a single point (zero span on both
// axes).
func TestRender_DegenerateRange(t *testing.T) {
	img := plot.Render([]plot.Point{{X: 25, Y: 10000}}, nil, "x", "y", 320, 240)
	require.NotNil(t, img)
}
