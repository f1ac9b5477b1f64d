package watchface

import (
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freesans"
)

const (
	CanvasWidth  = 144
	CanvasHeight = 168
)

// Rect is a canvas rectangle. Y may be negative; rows above the canvas are clipped.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

type fieldLayout struct {
	rect Rect
	font tinyfont.Fonter
}

var (
	fontTime  tinyfont.Fonter = &freesans.Bold24pt7b
	fontSmall tinyfont.Fonter = &freesans.Regular9pt7b
	fontTemp  tinyfont.Fonter = &freesans.Regular12pt7b
)

// layouts places every field on the 144x168 canvas. Text is centered.
var layouts = [fieldCount]fieldLayout{
	FieldTime:        {rect: Rect{0, 41, 144, 70}, font: fontTime},
	FieldDate:        {rect: Rect{0, 102, 144, 20}, font: fontSmall},
	FieldBattery:     {rect: Rect{0, 150, 144, 22}, font: fontSmall},
	FieldWeek:        {rect: Rect{0, 118, 144, 22}, font: fontSmall},
	FieldBluetooth:   {rect: Rect{0, 134, 144, 20}, font: fontSmall},
	FieldAMPM:        {rect: Rect{124, 58, 28, 22}, font: fontSmall},
	FieldTemperature: {rect: Rect{0, -4, 144, 28}, font: fontTemp},
	FieldCondition:   {rect: Rect{25, 24, 94, 40}, font: fontSmall},
}

// drawOrder follows the layer stacking of the face.
var drawOrder = [...]Field{
	FieldDate, FieldTime, FieldBattery, FieldWeek,
	FieldBluetooth, FieldCondition, FieldTemperature, FieldAMPM,
}

// FieldRect returns the canvas rectangle of f.
func FieldRect(f Field) Rect {
	if f >= fieldCount {
		return Rect{}
	}
	return layouts[f].rect
}
