// Package overlay draws the boundary, detection geometry, and state
// readout onto the display frame.
package overlay

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/jiggsnoway/Hand-Tracking-POC-Using-Classical-Computer-Vision/internal/proximity"
	"github.com/jiggsnoway/Hand-Tracking-POC-Using-Classical-Computer-Vision/internal/vision"
)

var (
	colorSafe     = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	colorWarning  = color.RGBA{R: 255, G: 165, B: 0, A: 255}
	colorDanger   = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	colorNone     = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	colorBoundary = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	colorInfo     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// stateColor returns the display color for a proximity state.
func stateColor(s proximity.State) color.RGBA {
	switch s {
	case proximity.StateSafe:
		return colorSafe
	case proximity.StateWarning:
		return colorWarning
	case proximity.StateDanger:
		return colorDanger
	default:
		return colorNone
	}
}

// Renderer annotates frames with the boundary line, the selected blob,
// and the current classification.
type Renderer struct {
	boundaryX int
	thickness int
	showFPS   bool
}

// NewRenderer creates a Renderer for the given boundary position.
func NewRenderer(boundaryX, thickness int, showFPS bool) *Renderer {
	if thickness <= 0 {
		thickness = 3
	}
	return &Renderer{
		boundaryX: boundaryX,
		thickness: thickness,
		showFPS:   showFPS,
	}
}

// Draw mutates frame in place: boundary line first, then the blob
// outline and centroid marker when a hand is present, then the state
// text. A DANGER frame also gets a prominent centered alert banner.
func (r *Renderer) Draw(frame *gocv.Mat, res proximity.Result, blob vision.Blob, centroid image.Point, fps float64) {
	height := frame.Rows()
	width := frame.Cols()
	c := stateColor(res.State)

	gocv.Line(frame,
		image.Pt(r.boundaryX, 0),
		image.Pt(r.boundaryX, height),
		colorBoundary, r.thickness)

	if res.State != proximity.StateNone {
		if len(blob.Points) > 0 {
			pv := gocv.NewPointsVectorFromPoints([][]image.Point{blob.Points})
			gocv.Polylines(frame, pv, true, c, 2)
			pv.Close()
		}
		gocv.Circle(frame, centroid, 7, c, -1)

		label := fmt.Sprintf("%s  dist: %dpx", res.State, res.Distance)
		gocv.PutText(frame, label, image.Pt(10, 30), gocv.FontHersheySimplex, 0.8, c, 2)
	} else {
		gocv.PutText(frame, "NO HAND", image.Pt(10, 30), gocv.FontHersheySimplex, 0.8, c, 2)
	}

	if r.showFPS {
		gocv.PutText(frame, fmt.Sprintf("FPS: %.1f", fps), image.Pt(10, 58),
			gocv.FontHersheySimplex, 0.6, colorInfo, 1)
	}

	if res.State == proximity.StateDanger {
		gocv.PutText(frame, "!! DANGER !!", image.Pt(width/2-150, height/2),
			gocv.FontHersheySimplex, 1.2, colorDanger, 3)
	}
}
