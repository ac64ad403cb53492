package engine

import (
	"fmt"
	"math"
)

// RGB is a plain 8-bit color triple.
type RGB struct {
	R uint8
	G uint8
	B uint8
}

// Hex renders the color as a #rrggbb string for the grid cells.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// emptyShade is the sentinel for counts below the visible band.
var emptyShade = RGB{0, 0, 0}

type colorStop struct {
	t     float64
	color RGB
}

type colormap struct {
	stops []colorStop
	gamma float64
}

// Five perceptual ramps, each a handful of control points interpolated
// linearly in RGB between the bracketing stops. All but twilight get a mild
// gamma so the bright end spreads over more headcounts.
var colormaps = map[string]colormap{
	"viridis": {gamma: 0.85, stops: []colorStop{
		{0.00, RGB{0x44, 0x01, 0x54}},
		{0.25, RGB{0x3b, 0x52, 0x8b}},
		{0.50, RGB{0x21, 0x91, 0x8c}},
		{0.75, RGB{0x5e, 0xc9, 0x62}},
		{1.00, RGB{0xfd, 0xe7, 0x25}},
	}},
	"plasma": {gamma: 0.85, stops: []colorStop{
		{0.00, RGB{0x0d, 0x08, 0x87}},
		{0.25, RGB{0x7e, 0x03, 0xa8}},
		{0.50, RGB{0xcc, 0x47, 0x78}},
		{0.75, RGB{0xf8, 0x95, 0x40}},
		{1.00, RGB{0xf0, 0xf9, 0x21}},
	}},
	"cividis": {gamma: 0.85, stops: []colorStop{
		{0.00, RGB{0x00, 0x22, 0x4e}},
		{0.25, RGB{0x35, 0x45, 0x6c}},
		{0.50, RGB{0x66, 0x69, 0x70}},
		{0.75, RGB{0xa6, 0x9d, 0x75}},
		{1.00, RGB{0xfe, 0xe8, 0x38}},
	}},
	"twilight": {gamma: 1.0, stops: []colorStop{
		{0.00, RGB{0x35, 0x1c, 0x45}},
		{0.20, RGB{0x45, 0x50, 0x93}},
		{0.40, RGB{0x55, 0x8d, 0xac}},
		{0.60, RGB{0x9c, 0xb8, 0xba}},
		{0.80, RGB{0xd8, 0xd3, 0xd4}},
		{1.00, RGB{0xe2, 0xd9, 0xe2}},
	}},
	"lava": {gamma: 0.85, stops: []colorStop{
		{0.00, RGB{0x00, 0x00, 0x04}},
		{0.25, RGB{0x57, 0x10, 0x6e}},
		{0.50, RGB{0xbc, 0x37, 0x54}},
		{0.75, RGB{0xf9, 0x8c, 0x0a}},
		{1.00, RGB{0xfc, 0xff, 0xa4}},
	}},
}

// DefaultColormap is used when a settings row names an unknown map.
const DefaultColormap = "viridis"

// KnownColormap reports whether the named ramp exists.
func KnownColormap(name string) bool {
	_, ok := colormaps[name]
	return ok
}

// ShadeForCount maps a headcount onto the heatmap. Groups with more than
// ten members compress: every count at or below total-10 collapses into the
// black empty shade, and the top ten headcounts spread across the full
// ramp. With ten or fewer members every distinct count gets its own shade
// and only zero is empty. Keeps the legend legible at any group size.
func ShadeForCount(count, total int, colormapName string) RGB {
	cm, ok := colormaps[colormapName]
	if !ok {
		cm = colormaps[DefaultColormap]
	}

	threshold := 0
	if total >= 11 {
		threshold = total - 10
	}
	if count <= threshold || total <= 0 {
		return emptyShade
	}

	t := float64(count-threshold) / float64(total-threshold)
	if cm.gamma != 1.0 {
		t = math.Pow(t, cm.gamma)
	}
	return cm.at(t)
}

func (cm colormap) at(t float64) RGB {
	if t <= cm.stops[0].t {
		return cm.stops[0].color
	}
	last := cm.stops[len(cm.stops)-1]
	if t >= last.t {
		return last.color
	}
	for i := 1; i < len(cm.stops); i++ {
		if t <= cm.stops[i].t {
			lo, hi := cm.stops[i-1], cm.stops[i]
			f := (t - lo.t) / (hi.t - lo.t)
			return lerp(lo.color, hi.color, f)
		}
	}
	return last.color
}

func lerp(a, b RGB, f float64) RGB {
	return RGB{
		R: uint8(math.Round(float64(a.R) + (float64(b.R)-float64(a.R))*f)),
		G: uint8(math.Round(float64(a.G) + (float64(b.G)-float64(a.G))*f)),
		B: uint8(math.Round(float64(a.B) + (float64(b.B)-float64(a.B))*f)),
	}
}
