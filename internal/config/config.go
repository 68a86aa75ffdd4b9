// Package config holds the tunable parameters for the hand proximity
// warning pipeline. Every pipeline stage receives the values it needs
// explicitly; nothing reads package-level state, so alternate profiles
// can be tested without recompilation.
package config

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// Color spaces supported for skin segmentation.
const (
	ColorSpaceHSV   = "hsv"
	ColorSpaceYCrCb = "ycrcb"
)

// Camera holds video capture settings.
type Camera struct {
	DeviceID int
	Width    int
	Height   int
	// Mirror flips frames horizontally so on-screen movement matches
	// the user's movement.
	Mirror bool
}

// Detection holds skin segmentation and blob selection settings.
type Detection struct {
	ColorSpace string
	// LowerSkin and UpperSkin are the per-channel threshold bounds in
	// the selected color space (H/S/V or Y/Cr/Cb order).
	LowerSkin       [3]float64
	UpperSkin       [3]float64
	BlurKernel      int
	MorphKernel     int
	MorphIterations int
	// MinArea is the smallest contour area (in pixels squared)
	// considered a hand. Smaller blobs are treated as noise.
	MinArea float64
}

// Boundary holds the fixed virtual boundary settings.
type Boundary struct {
	X         int
	Thickness int
}

// Distances holds the classification cutoffs in pixels.
// Distance > Safe is SAFE, Warning < distance <= Safe is WARNING and
// distance <= Warning is DANGER. Both exact cutoff values fall into the
// more cautious band.
type Distances struct {
	Safe    int
	Warning int
}

// Alert holds the external alert command settings.
type Alert struct {
	// Command is executed whenever the pipeline enters DANGER. Empty
	// disables the hook.
	Command   string
	TimeoutMs int
}

// Config is the full configuration passed through the application.
type Config struct {
	Camera    Camera
	Detection Detection
	Boundary  Boundary
	Distances Distances
	Alert     Alert
	// Profile names the skin profile the detection bounds came from.
	Profile string
	// ShowMask opens a second window with the raw binary mask.
	ShowMask bool
	// ShowFPS draws the measured frame rate onto the overlay.
	ShowFPS bool
}

// Built-in skin profiles (HSV bounds).
var skinProfiles = map[string][2][3]float64{
	"default": {{0, 20, 70}, {20, 255, 255}},
	"light":   {{0, 10, 60}, {25, 255, 255}},
	"dark":    {{0, 30, 80}, {20, 200, 255}},
}

// YCrCb bounds are shared across profiles; the Cr/Cb skin cluster is
// largely independent of luminance.
var ycrcbBounds = [2][3]float64{{0, 133, 77}, {255, 173, 127}}

// Default returns the configuration matching the original POC constants.
func Default() *Config {
	bounds := skinProfiles["default"]
	return &Config{
		Camera: Camera{
			DeviceID: 0,
			Width:    640,
			Height:   480,
			Mirror:   true,
		},
		Detection: Detection{
			ColorSpace:      ColorSpaceHSV,
			LowerSkin:       bounds[0],
			UpperSkin:       bounds[1],
			BlurKernel:      5,
			MorphKernel:     5,
			MorphIterations: 2,
			MinArea:         1000,
		},
		Boundary: Boundary{
			X:         320,
			Thickness: 3,
		},
		Distances: Distances{
			Safe:    100,
			Warning: 50,
		},
		Alert: Alert{
			Command:   "",
			TimeoutMs: 5000,
		},
		Profile:  "default",
		ShowMask: true,
		ShowFPS:  true,
	}
}

// ApplyProfile replaces the detection bounds with a named built-in skin
// profile. HSV profiles switch the color space back to HSV; the special
// name "ycrcb" selects the YCrCb cluster instead.
func (c *Config) ApplyProfile(name string) error {
	if name == ColorSpaceYCrCb {
		c.Detection.ColorSpace = ColorSpaceYCrCb
		c.Detection.LowerSkin = ycrcbBounds[0]
		c.Detection.UpperSkin = ycrcbBounds[1]
		c.Profile = name
		return nil
	}

	bounds, ok := skinProfiles[name]
	if !ok {
		return fmt.Errorf("unknown skin profile %q", name)
	}
	c.Detection.ColorSpace = ColorSpaceHSV
	c.Detection.LowerSkin = bounds[0]
	c.Detection.UpperSkin = bounds[1]
	c.Profile = name
	return nil
}

// Load reads an INI file and overlays it on the receiver. Missing keys
// keep their current values, so a file only needs to name what it
// changes.
func (c *Config) Load(path string) error {
	file, err := ini.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load config file: %w", err)
	}

	cam := file.Section("camera")
	c.Camera.DeviceID = cam.Key("device").MustInt(c.Camera.DeviceID)
	c.Camera.Width = cam.Key("width").MustInt(c.Camera.Width)
	c.Camera.Height = cam.Key("height").MustInt(c.Camera.Height)
	c.Camera.Mirror = cam.Key("mirror").MustBool(c.Camera.Mirror)

	det := file.Section("detection")
	if det.HasKey("profile") {
		if err := c.ApplyProfile(det.Key("profile").String()); err != nil {
			return err
		}
	}
	if det.HasKey("color_space") {
		space := det.Key("color_space").String()
		if space != ColorSpaceHSV && space != ColorSpaceYCrCb {
			return fmt.Errorf("unknown color space %q", space)
		}
		c.Detection.ColorSpace = space
	}
	overrodeBounds := false
	for i, ch := range []string{"lower_0", "lower_1", "lower_2"} {
		if det.HasKey(ch) {
			c.Detection.LowerSkin[i] = det.Key(ch).MustFloat64(c.Detection.LowerSkin[i])
			overrodeBounds = true
		}
	}
	for i, ch := range []string{"upper_0", "upper_1", "upper_2"} {
		if det.HasKey(ch) {
			c.Detection.UpperSkin[i] = det.Key(ch).MustFloat64(c.Detection.UpperSkin[i])
			overrodeBounds = true
		}
	}
	if overrodeBounds {
		c.Profile = "custom"
	}
	c.Detection.BlurKernel = det.Key("blur_kernel").MustInt(c.Detection.BlurKernel)
	c.Detection.MorphKernel = det.Key("morph_kernel").MustInt(c.Detection.MorphKernel)
	c.Detection.MorphIterations = det.Key("morph_iterations").MustInt(c.Detection.MorphIterations)
	c.Detection.MinArea = det.Key("min_area").MustFloat64(c.Detection.MinArea)

	bnd := file.Section("boundary")
	c.Boundary.X = bnd.Key("x").MustInt(c.Boundary.X)
	c.Boundary.Thickness = bnd.Key("thickness").MustInt(c.Boundary.Thickness)

	dist := file.Section("distances")
	c.Distances.Safe = dist.Key("safe").MustInt(c.Distances.Safe)
	c.Distances.Warning = dist.Key("warning").MustInt(c.Distances.Warning)

	al := file.Section("alert")
	c.Alert.Command = al.Key("command").MustString(c.Alert.Command)
	c.Alert.TimeoutMs = al.Key("timeout_ms").MustInt(c.Alert.TimeoutMs)

	disp := file.Section("display")
	c.ShowMask = disp.Key("show_mask").MustBool(c.ShowMask)
	c.ShowFPS = disp.Key("show_fps").MustBool(c.ShowFPS)

	return c.Validate()
}

// Validate checks invariants that would otherwise surface as confusing
// OpenCV errors deep in the pipeline.
func (c *Config) Validate() error {
	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		return fmt.Errorf("invalid camera resolution %dx%d", c.Camera.Width, c.Camera.Height)
	}
	if c.Detection.BlurKernel <= 0 || c.Detection.BlurKernel%2 == 0 {
		return fmt.Errorf("blur kernel must be a positive odd number, got %d", c.Detection.BlurKernel)
	}
	if c.Detection.MorphKernel <= 0 {
		return fmt.Errorf("morph kernel must be positive, got %d", c.Detection.MorphKernel)
	}
	if c.Boundary.X < 0 || c.Boundary.X >= c.Camera.Width {
		return fmt.Errorf("boundary x=%d outside frame width %d", c.Boundary.X, c.Camera.Width)
	}
	if c.Distances.Warning <= 0 || c.Distances.Safe <= c.Distances.Warning {
		return fmt.Errorf("distance cutoffs must satisfy 0 < warning < safe, got safe=%d warning=%d",
			c.Distances.Safe, c.Distances.Warning)
	}
	return nil
}
