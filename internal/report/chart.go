package report

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const DefaultChartSize = 320

var (
	chartBackground = color.RGBA{R: 0xf4, G: 0xf6, B: 0xfc, A: 0xff}
	emptySlice      = color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}
)

// RenderPieChart draws the slices as a PNG pie chart of size x size pixels.
// Slices with a zero value take no room; when every value is zero the pie is
// drawn as a single grey disc.
func RenderPieChart(slices []ChartSlice, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultChartSize
	}
	total := 0
	for _, s := range slices {
		if s.Value > 0 {
			total += s.Value
		}
	}

	// cumulative end angle of every slice, clockwise from 12 o'clock
	ends := make([]float64, len(slices))
	colors := make([]color.RGBA, len(slices))
	acc := 0
	for i, s := range slices {
		if s.Value > 0 {
			acc += s.Value
		}
		if total > 0 {
			ends[i] = 2 * math.Pi * float64(acc) / float64(total)
		}
		colors[i] = parseHexColor(s.Color)
	}

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	center := float64(size) / 2
	radius := center * 0.9
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - center
			dy := float64(y) + 0.5 - center
			if math.Hypot(dx, dy) > radius {
				img.SetRGBA(x, y, chartBackground)
				continue
			}
			if total == 0 {
				img.SetRGBA(x, y, emptySlice)
				continue
			}
			angle := math.Atan2(dx, -dy)
			if angle < 0 {
				angle += 2 * math.Pi
			}
			img.SetRGBA(x, y, colors[sliceAt(ends, angle)])
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(err, "encode chart")
	}
	return buf.Bytes(), nil
}

func sliceAt(ends []float64, angle float64) int {
	for i, end := range ends {
		if angle < end {
			return i
		}
	}
	return len(ends) - 1
}

// parseHexColor reads "#rrggbb"; anything else renders grey.
func parseHexColor(s string) color.RGBA {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return emptySlice
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return emptySlice
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}
