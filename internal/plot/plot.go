// Package plot renders simple calibration-curve images for the web
// front end. It draws straight onto an RGBA raster with basicfont
// labels; good enough for a sanity check of the fit, not a charting
// library.
package plot

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Point is one (x, y) sample of the curve to draw.
type Point struct {
	X float64
	Y float64
}

var (
	bgColor     = color.RGBA{255, 255, 255, 255}
	axisColor   = color.RGBA{60, 60, 60, 255}
	curveColor  = color.RGBA{200, 40, 40, 255}
	markerColor = color.RGBA{40, 80, 200, 255}
	gridColor   = color.RGBA{230, 230, 230, 255}
)

const margin = 40

// Render draws curve as a connected polyline and markers as discrete
// squares (measured calibration points overlaid on the fitted curve).
// Curve points are drawn in the order given; the caller decides sorting.
// markers may be nil.
func Render(curve, markers []Point, xLabel, yLabel string, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	// Background
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, bgColor)
		}
	}

	all := make([]Point, 0, len(curve)+len(markers))
	all = append(all, curve...)
	all = append(all, markers...)
	if len(all) == 0 {
		drawLabel(img, margin, height/2, "no data")
		return img
	}

	minX, maxX := all[0].X, all[0].X
	minY, maxY := all[0].Y, all[0].Y
	for _, p := range all[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	// Degenerate ranges still need a nonzero span to map onto pixels.
	if maxX == minX {
		maxX = minX + 1
	}
	if maxY == minY {
		maxY = minY + 1
	}

	plotW := width - 2*margin
	plotH := height - 2*margin

	toPx := func(p Point) (int, int) {
		x := margin + int(float64(plotW)*(p.X-minX)/(maxX-minX))
		y := height - margin - int(float64(plotH)*(p.Y-minY)/(maxY-minY))
		return x, y
	}

	// Grid: quarter lines inside the plot area
	for i := 1; i < 4; i++ {
		gx := margin + i*plotW/4
		gy := margin + i*plotH/4
		drawVLine(img, gx, margin, height-margin, gridColor)
		drawHLine(img, margin, width-margin, gy, gridColor)
	}

	// Axes
	drawHLine(img, margin, width-margin, height-margin, axisColor)
	drawVLine(img, margin, margin, height-margin, axisColor)

	// Curve
	if len(curve) > 0 {
		px, py := toPx(curve[0])
		for _, p := range curve[1:] {
			nx, ny := toPx(p)
			drawLine(img, px, py, nx, ny, curveColor)
			px, py = nx, ny
		}
	}

	// Measured points as 5x5 squares
	for _, p := range markers {
		mx, my := toPx(p)
		for dy := -2; dy <= 2; dy++ {
			for dx := -2; dx <= 2; dx++ {
				x, y := mx+dx, my+dy
				if x >= 0 && x < width && y >= 0 && y < height {
					img.SetRGBA(x, y, markerColor)
				}
			}
		}
	}

	// Labels
	drawLabel(img, margin, height-margin+16, fmt.Sprintf("%s: %g .. %g", xLabel, minX, maxX))
	drawLabel(img, margin, margin-8, fmt.Sprintf("%s: %g .. %g", yLabel, minY, maxY))

	return img
}

// WritePNG encodes the image as PNG.
func WritePNG(w io.Writer, img *image.RGBA) error {
	return png.Encode(w, img)
}

func drawLabel(img *image.RGBA, x, y int, text string) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(axisColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func drawHLine(img *image.RGBA, x0, x1, y int, c color.RGBA) {
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y, c)
	}
}

func drawVLine(img *image.RGBA, x, y0, y1 int, c color.RGBA) {
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x, y, c)
	}
}

// drawLine is a basic Bresenham segment.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		img.SetRGBA(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
