// Package testdata builds synthetic frames for pipeline tests. Frames
// are generated rather than embedded so tests know the exact geometry
// they should detect.
package testdata

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Skin is a BGR color well inside the default HSV skin range
// (roughly H=13, S=109, V=210 after conversion).
var Skin = color.RGBA{R: 210, G: 160, B: 120, A: 255}

// FrameWidth and FrameHeight match the capture resolution.
const (
	FrameWidth  = 640
	FrameHeight = 480
)

// NewBlankFrame returns a black BGR frame.
func NewBlankFrame() *gocv.Mat {
	m := gocv.NewMatWithSize(FrameHeight, FrameWidth, gocv.MatTypeCV8UC3)
	return &m
}

// NewSkinRectFrame returns a blank frame with a filled skin-colored
// rectangle.
func NewSkinRectFrame(rect image.Rectangle) *gocv.Mat {
	m := NewBlankFrame()
	gocv.Rectangle(m, rect, Skin, -1)
	return m
}

// NewSkinCircleFrame returns a blank frame with a filled skin-colored
// circle.
func NewSkinCircleFrame(center image.Point, radius int) *gocv.Mat {
	m := NewBlankFrame()
	gocv.Circle(m, center, radius, Skin, -1)
	return m
}
