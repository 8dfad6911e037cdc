package render

import (
	"fmt"
	"image/color"
)

// Цвета предметов каталога по суффиксу ("blue-500")
var subjectColors = map[string]color.RGBA{
	"amber-500":   {245, 158, 11, 255},
	"blue-500":    {59, 130, 246, 255},
	"emerald-500": {16, 185, 129, 255},
	"lime-500":    {132, 204, 22, 255},
	"indigo-500":  {99, 102, 241, 255},
	"indigo-600":  {79, 70, 229, 255},
	"rose-500":    {244, 63, 94, 255},
	"purple-500":  {168, 85, 247, 255},
	"cyan-500":    {6, 182, 212, 255},
	"orange-500":  {249, 115, 22, 255},
	"teal-500":    {20, 184, 166, 255},
	"slate-400":   {148, 163, 184, 255},
}

var unknownSubjectColor = color.RGBA{200, 200, 200, 255}

// SubjectColor цвет предмета; неизвестный суффикс даёт серый
func SubjectColor(name string) color.RGBA {
	if c, ok := subjectColors[name]; ok {
		return c
	}
	return unknownSubjectColor
}

// HexColor цвет в виде "#RRGGBB"
func HexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// lighten смешивает цвет с белым
func lighten(c color.RGBA, factor float64) color.RGBA {
	mix := func(v uint8) uint8 {
		return uint8(float64(v) + (255-float64(v))*factor)
	}
	return color.RGBA{R: mix(c.R), G: mix(c.G), B: mix(c.B), A: c.A}
}

// darkenColor затемняет цвет на указанный множитель
func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}
