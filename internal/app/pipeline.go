package app

import (
	"fmt"
	"image"
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/jiggsnoway/Hand-Tracking-POC-Using-Classical-Computer-Vision/internal/alert"
	"github.com/jiggsnoway/Hand-Tracking-POC-Using-Classical-Computer-Vision/internal/proximity"
	"github.com/jiggsnoway/Hand-Tracking-POC-Using-Classical-Computer-Vision/internal/vision"
)

// MaxReadFailures is the number of consecutive camera read failures
// tolerated before the loop aborts. A disconnected camera fails every
// read, and looping on invalid frames forever helps nobody.
const MaxReadFailures = 30

// Run is the main processing loop. One frame is fully processed before
// the next is requested; there is no pipelining and no inter-frame
// state in the vision stages. The loop exits when Stop is called, the
// display requests quit, or the camera fails MaxReadFailures times in
// a row.
func (a *App) Run(display Display) error {
	a.mu.RLock()
	stopCh := a.stopCh
	a.mu.RUnlock()

	mask := gocv.NewMat()
	defer mask.Close()

	failures := 0

	for {
		select {
		case <-stopCh:
			return nil
		default:
		}

		if display != nil && display.WantQuit() {
			return nil
		}

		if !a.IsEnabled() {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		frame, err := a.camera.ReadFrame()
		if err != nil {
			failures++
			if failures >= MaxReadFailures {
				return fmt.Errorf("camera unavailable after %d consecutive read failures: %w", failures, err)
			}
			log.Printf("Error reading frame: %v", err)
			time.Sleep(50 * time.Millisecond)
			continue
		}
		failures = 0

		a.meter.Tick(time.Now())
		res := a.Process(frame, &mask)

		a.recordTransition(res)
		a.publishSnapshot(res, frame)

		if display != nil {
			display.Show(*frame, mask)
		}

		frame.Close()
	}
}

// Process runs one full pipeline pass over frame: mask construction,
// blob selection, centroid estimation, classification, and overlay
// rendering. The frame is annotated in place; the binary mask is
// written to maskDst so callers can display it. Processing the same
// frame twice yields the same mask, centroid, and state.
func (a *App) Process(frame *gocv.Mat, maskDst *gocv.Mat) Result {
	a.maskBuilder.Build(*frame, maskDst)

	blob, found := vision.LargestBlob(*maskDst, a.settings.Detection.MinArea)

	var centroid image.Point
	if found {
		centroid, found = vision.Centroid(blob)
	}

	cls := a.classifier.Classify(centroid.X, found)

	res := Result{
		State:        cls.State,
		DistancePx:   cls.Distance,
		HandDetected: found,
		CentroidX:    centroid.X,
		CentroidY:    centroid.Y,
		FPS:          a.meter.FPS(),
		TimestampMs:  time.Now().UnixMilli(),
	}
	if found {
		res.AreaPx = blob.Area
	}

	a.renderer.Draw(frame, cls, blob, centroid, res.FPS)

	return res
}

// recordTransition logs and persists state changes and fires the alert
// hook on entering DANGER. Classification itself stays stateless; this
// only deduplicates the event stream.
func (a *App) recordTransition(res Result) {
	if res.State == a.lastState {
		return
	}
	prev := a.lastState
	a.lastState = res.State

	log.Printf("State changed: %s -> %s (distance %dpx)", prev, res.State, res.DistancePx)

	if a.store != nil && a.session != nil {
		_, err := a.store.Events().Record(a.session.ID, string(res.State), res.DistancePx, res.CentroidX, res.CentroidY)
		if err != nil {
			log.Printf("Failed to record event: %v", err)
		}
	}

	if res.State == proximity.StateDanger && a.alerter.Enabled() {
		event := alert.Event{
			State:       string(res.State),
			DistancePx:  res.DistancePx,
			CentroidX:   res.CentroidX,
			CentroidY:   res.CentroidY,
			TimestampMs: res.TimestampMs,
		}
		// Run off the loop goroutine so a slow command cannot stall
		// frame processing.
		go func() {
			if err := a.alerter.Run(event); err != nil {
				log.Printf("Alert command error: %v", err)
			}
		}()
	}
}

// publishSnapshot stores the latest result, and the annotated frame as
// JPEG when publishing is enabled, for the HTTP server to serve.
func (a *App) publishSnapshot(res Result, frame *gocv.Mat) {
	if !a.publishFrames {
		a.snapMu.Lock()
		a.lastResult = res
		a.snapMu.Unlock()
		return
	}

	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		log.Printf("Failed to encode snapshot: %v", err)
		return
	}
	jpeg := make([]byte, buf.Len())
	copy(jpeg, buf.GetBytes())
	buf.Close()

	a.snapMu.Lock()
	a.lastResult = res
	a.lastJPEG = jpeg
	a.snapMu.Unlock()
}
