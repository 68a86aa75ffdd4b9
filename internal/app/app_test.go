package app

import (
	"image"
	"testing"

	"gocv.io/x/gocv"

	"github.com/jiggsnoway/Hand-Tracking-POC-Using-Classical-Computer-Vision/internal/config"
	"github.com/jiggsnoway/Hand-Tracking-POC-Using-Classical-Computer-Vision/internal/proximity"
	"github.com/jiggsnoway/Hand-Tracking-POC-Using-Classical-Computer-Vision/testdata"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	a := New(Config{Settings: config.Default()})
	t.Cleanup(a.Close)
	return a
}

func TestProcess_States(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	tests := []struct {
		name      string
		rect      image.Rectangle
		blank     bool
		wantState proximity.State
		wantHand  bool
	}{
		{
			name:      "rectangle far left of boundary is SAFE",
			rect:      image.Rect(20, 100, 220, 300),
			wantState: proximity.StateSafe,
			wantHand:  true,
		},
		{
			name:      "rectangle straddling boundary is DANGER",
			rect:      image.Rect(270, 150, 370, 330),
			wantState: proximity.StateDanger,
			wantHand:  true,
		},
		{
			name:      "rectangle in the warning band is WARNING",
			rect:      image.Rect(350, 150, 450, 330),
			wantState: proximity.StateWarning,
			wantHand:  true,
		},
		{
			name:      "blank frame is NONE",
			blank:     true,
			wantState: proximity.StateNone,
			wantHand:  false,
		},
		{
			name:      "sub-threshold speck is NONE",
			rect:      image.Rect(100, 100, 115, 115),
			wantState: proximity.StateNone,
			wantHand:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t)

			var frame *gocv.Mat
			if tt.blank {
				frame = testdata.NewBlankFrame()
			} else {
				frame = testdata.NewSkinRectFrame(tt.rect)
			}
			defer frame.Close()

			mask := gocv.NewMat()
			defer mask.Close()

			res := a.Process(frame, &mask)

			if res.State != tt.wantState {
				t.Errorf("State = %s, want %s", res.State, tt.wantState)
			}
			if res.HandDetected != tt.wantHand {
				t.Errorf("HandDetected = %v, want %v", res.HandDetected, tt.wantHand)
			}
			if !tt.wantHand && res.DistancePx != 0 {
				t.Errorf("DistancePx = %d, want 0 without a hand", res.DistancePx)
			}
		})
	}
}

func TestProcess_CentroidNearRectCenter(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	a := newTestApp(t)

	frame := testdata.NewSkinRectFrame(image.Rect(50, 100, 250, 300))
	defer frame.Close()

	mask := gocv.NewMat()
	defer mask.Close()

	res := a.Process(frame, &mask)

	if !res.HandDetected {
		t.Fatal("expected a detection")
	}
	// Morphology can nudge the contour by a pixel or two.
	if res.CentroidX < 147 || res.CentroidX > 153 {
		t.Errorf("CentroidX = %d, want ~150", res.CentroidX)
	}
	if res.CentroidY < 197 || res.CentroidY > 203 {
		t.Errorf("CentroidY = %d, want ~200", res.CentroidY)
	}
}

func TestProcess_Idempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	a := newTestApp(t)

	pristine := testdata.NewSkinRectFrame(image.Rect(100, 120, 280, 360))
	defer pristine.Close()

	run := func() (Result, *gocv.Mat) {
		frame := pristine.Clone()
		defer frame.Close()
		mask := gocv.NewMat()
		return a.Process(&frame, &mask), &mask
	}

	first, firstMask := run()
	defer firstMask.Close()
	second, secondMask := run()
	defer secondMask.Close()

	if first.State != second.State {
		t.Errorf("State differs between runs: %s vs %s", first.State, second.State)
	}
	if first.DistancePx != second.DistancePx {
		t.Errorf("DistancePx differs: %d vs %d", first.DistancePx, second.DistancePx)
	}
	if first.CentroidX != second.CentroidX || first.CentroidY != second.CentroidY {
		t.Errorf("centroid differs: (%d,%d) vs (%d,%d)",
			first.CentroidX, first.CentroidY, second.CentroidX, second.CentroidY)
	}
	if first.AreaPx != second.AreaPx {
		t.Errorf("AreaPx differs: %f vs %f", first.AreaPx, second.AreaPx)
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(*firstMask, *secondMask, &diff)
	if n := gocv.CountNonZero(diff); n != 0 {
		t.Errorf("masks differ in %d pixels", n)
	}
}

func TestSetEnabled(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	a := newTestApp(t)

	if !a.IsEnabled() {
		t.Error("detection should start enabled")
	}

	a.SetEnabled(false)
	if a.IsEnabled() {
		t.Error("SetEnabled(false) did not take effect")
	}
}
