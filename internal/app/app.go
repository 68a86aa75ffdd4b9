// Package app wires the capture, vision, classification, and overlay
// stages into the per-frame processing loop.
package app

import (
	"fmt"
	"log"
	"sync"

	"github.com/jiggsnoway/Hand-Tracking-POC-Using-Classical-Computer-Vision/internal/alert"
	"github.com/jiggsnoway/Hand-Tracking-POC-Using-Classical-Computer-Vision/internal/capture"
	"github.com/jiggsnoway/Hand-Tracking-POC-Using-Classical-Computer-Vision/internal/config"
	"github.com/jiggsnoway/Hand-Tracking-POC-Using-Classical-Computer-Vision/internal/overlay"
	"github.com/jiggsnoway/Hand-Tracking-POC-Using-Classical-Computer-Vision/internal/proximity"
	"github.com/jiggsnoway/Hand-Tracking-POC-Using-Classical-Computer-Vision/internal/store"
	"github.com/jiggsnoway/Hand-Tracking-POC-Using-Classical-Computer-Vision/internal/vision"
)

// FPSWindow is the number of frames averaged for the FPS readout.
const FPSWindow = 30

// Config holds configuration options for the application.
type Config struct {
	Settings *config.Config
	Store    *store.Store
	// Camera overrides the default camera, e.g. a MockCamera in tests.
	Camera capture.Camera
	// PublishFrames enables JPEG snapshot encoding for the HTTP server.
	PublishFrames bool
}

// Result is the outcome of one pipeline pass.
type Result struct {
	State        proximity.State `json:"state"`
	DistancePx   int             `json:"distance_px"`
	HandDetected bool            `json:"hand_detected"`
	CentroidX    int             `json:"centroid_x"`
	CentroidY    int             `json:"centroid_y"`
	AreaPx       float64         `json:"area_px"`
	FPS          float64         `json:"fps"`
	TimestampMs  int64           `json:"timestamp_ms"`
}

// App orchestrates the hand proximity detection pipeline.
type App struct {
	settings      *config.Config
	camera        capture.Camera
	maskBuilder   *vision.MaskBuilder
	classifier    *proximity.Classifier
	renderer      *overlay.Renderer
	alerter       *alert.Runner
	store         *store.Store
	session       *store.Session
	publishFrames bool

	enabled bool
	mu      sync.RWMutex
	stopCh  chan struct{}
	done    chan struct{}

	meter     *fpsMeter
	lastState proximity.State

	snapMu     sync.RWMutex
	lastResult Result
	lastJPEG   []byte
}

// New creates a new App instance with the given configuration.
func New(cfg Config) *App {
	settings := cfg.Settings
	if settings == nil {
		settings = config.Default()
	}

	camera := cfg.Camera
	if camera == nil {
		camera = capture.NewCamera(
			settings.Camera.DeviceID,
			settings.Camera.Width,
			settings.Camera.Height,
			settings.Camera.Mirror,
		)
	}

	return &App{
		settings:      settings,
		camera:        camera,
		maskBuilder:   vision.NewMaskBuilder(settings.Detection),
		classifier:    proximity.New(settings.Boundary.X, settings.Distances.Safe, settings.Distances.Warning),
		renderer:      overlay.NewRenderer(settings.Boundary.X, settings.Boundary.Thickness, settings.ShowFPS),
		alerter:       alert.NewRunner(settings.Alert.Command, settings.Alert.TimeoutMs),
		store:         cfg.Store,
		publishFrames: cfg.PublishFrames,
		enabled:       true,
		meter:         newFPSMeter(FPSWindow),
	}
}

// Open acquires the camera and starts a new session record. The camera
// is the only long-lived external resource; it stays open until Close.
func (a *App) Open() error {
	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("failed to open camera: %w", err)
	}

	a.mu.Lock()
	a.stopCh = make(chan struct{})
	a.mu.Unlock()

	if a.store != nil {
		sess, err := a.store.Sessions().Start(a.settings.Profile, a.settings.Boundary.X)
		if err != nil {
			log.Printf("Failed to start session: %v", err)
		} else {
			a.session = sess
		}
	}

	return nil
}

// Close releases the camera and every other pipeline resource. It is
// safe to call on every exit path, including after a camera error.
func (a *App) Close() {
	if a.store != nil && a.session != nil {
		if err := a.store.Sessions().End(a.session.ID); err != nil {
			log.Printf("Failed to end session: %v", err)
		}
		a.session = nil
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.maskBuilder.Close()
}

// Start opens the camera and runs the pipeline in a background
// goroutine. Used in headless mode; windowed mode calls Run directly.
func (a *App) Start() error {
	if err := a.Open(); err != nil {
		return err
	}

	a.done = make(chan struct{})
	go func() {
		defer close(a.done)
		if err := a.Run(nil); err != nil {
			log.Printf("Pipeline stopped: %v", err)
		}
	}()

	log.Println("Detection pipeline started")
	return nil
}

// Stop halts the pipeline and releases resources. It waits for the
// background loop to finish before touching shared OpenCV state.
func (a *App) Stop() {
	a.mu.Lock()
	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}
	done := a.done
	a.done = nil
	a.mu.Unlock()

	if done != nil {
		<-done
	}

	a.Close()
	log.Println("Detection pipeline stopped")
}

// SetEnabled enables or disables detection. While disabled the loop
// idles without reading frames.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// Snapshot returns the most recent pipeline result and, when frame
// publishing is enabled, the annotated frame encoded as JPEG.
func (a *App) Snapshot() (Result, []byte) {
	a.snapMu.RLock()
	defer a.snapMu.RUnlock()
	return a.lastResult, a.lastJPEG
}
