package app

import "gocv.io/x/gocv"

// Display receives each annotated frame and can request loop shutdown.
type Display interface {
	// Show presents the annotated frame and the binary mask.
	Show(frame, mask gocv.Mat)
	// WantQuit reports whether the user asked to quit.
	WantQuit() bool
	// Close releases display resources.
	Close() error
}

// WindowDisplay shows the annotated feed in a GoCV window, with an
// optional second window for the raw binary mask. It must be used from
// the main goroutine; OpenCV's HighGUI is not thread safe.
type WindowDisplay struct {
	win     *gocv.Window
	maskWin *gocv.Window
	quit    bool
}

// NewWindowDisplay opens the display window(s).
func NewWindowDisplay(showMask bool) *WindowDisplay {
	d := &WindowDisplay{
		win: gocv.NewWindow("Hand Proximity"),
	}
	if showMask {
		d.maskWin = gocv.NewWindow("Skin Mask")
	}
	return d
}

// Show presents the frames and polls the keyboard. Pressing q or ESC
// requests quit.
func (d *WindowDisplay) Show(frame, mask gocv.Mat) {
	d.win.IMShow(frame)
	if d.maskWin != nil && !mask.Empty() {
		d.maskWin.IMShow(mask)
	}

	key := d.win.WaitKey(1)
	if key == 'q' || key == 27 {
		d.quit = true
	}
}

// WantQuit reports whether the user pressed a quit key.
func (d *WindowDisplay) WantQuit() bool {
	return d.quit
}

// Close closes the windows.
func (d *WindowDisplay) Close() error {
	if d.maskWin != nil {
		if err := d.maskWin.Close(); err != nil {
			return err
		}
	}
	return d.win.Close()
}
