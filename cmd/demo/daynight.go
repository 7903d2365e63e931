package main

import (
	"fmt"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"toy-engine/core"
	"toy-engine/scene"
)

// dayPalette is the sky color at one key time of day.
type dayPalette struct {
	t   float32 // normalised time 0..1
	sky core.Color
}

// palettes is ordered by t and wraps (0 == 1).
var palettes = []dayPalette{
	{t: 0.00, sky: core.Color{R: 0.58, G: 0.75, B: 0.95, A: 1}}, // noon
	{t: 0.22, sky: core.Color{R: 0.90, G: 0.52, B: 0.18, A: 1}}, // golden hour
	{t: 0.30, sky: core.Color{R: 0.50, G: 0.22, B: 0.28, A: 1}}, // dusk
	{t: 0.50, sky: core.Color{R: 0.04, G: 0.04, B: 0.08, A: 1}}, // midnight
	{t: 0.70, sky: core.Color{R: 0.40, G: 0.18, B: 0.24, A: 1}}, // pre-dawn
	{t: 0.78, sky: core.Color{R: 0.88, G: 0.45, B: 0.22, A: 1}}, // sunrise
}

// DayNight sweeps the sun around the scene and tints the clear color.
type DayNight struct {
	Time   float32 // 0..1: 0=noon, 0.25=sunset, 0.5=midnight, 0.75=sunrise
	Period time.Duration
	Active bool

	sun *scene.DirectionalLight
}

func NewDayNight(sun *scene.DirectionalLight) *DayNight {
	return &DayNight{
		Period: 2 * time.Minute,
		Active: true,
		sun:    sun,
	}
}

// Update advances the clock by dt and moves the sun.
func (dn *DayNight) Update(dt time.Duration) {
	if dn.Active && dn.Period > 0 {
		dn.Time += float32(dt.Seconds() / dn.Period.Seconds())
		dn.Time -= math32.Floor(dn.Time)
	}
	angle := dn.Time * 2 * math32.Pi
	dn.sun.Direction = mgl32.Vec3{
		math32.Sin(angle),
		math32.Cos(angle), // 1 = noon, -1 = midnight
		0.35,
	}.Normalize()
}

// Sky returns the clear color for the current time.
func (dn *DayNight) Sky() core.Color {
	return samplePalette(dn.Time)
}

func samplePalette(t float32) core.Color {
	n := len(palettes)
	for i := range palettes {
		a := palettes[i]
		b := palettes[(i+1)%n]
		tb := b.t
		if i == n-1 {
			tb = 1
		}
		if t >= a.t && t < tb {
			return a.sky.Lerp(b.sky, (t-a.t)/(tb-a.t))
		}
	}
	return palettes[0].sky
}

// Clock renders the time of day as a 12-hour label.
func (dn *DayNight) Clock() string {
	hours := dn.Time*24 + 12
	h := int(hours) % 24
	m := int((hours - math32.Floor(hours)) * 60)
	period := "AM"
	if h >= 12 {
		period = "PM"
	}
	display := h % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%02d:%02d %s", display, m, period)
}
