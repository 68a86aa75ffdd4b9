package app

import "time"

// fpsMeter computes a moving-average frame rate over a sliding window
// of frame timestamps.
type fpsMeter struct {
	samples []time.Time
	max     int
}

func newFPSMeter(windowSize int) *fpsMeter {
	if windowSize < 2 {
		windowSize = 2
	}
	return &fpsMeter{
		samples: make([]time.Time, 0, windowSize),
		max:     windowSize,
	}
}

// Tick records a frame timestamp, evicting the oldest sample when the
// window is full.
func (m *fpsMeter) Tick(now time.Time) {
	if len(m.samples) >= m.max {
		copy(m.samples, m.samples[1:])
		m.samples = m.samples[:m.max-1]
	}
	m.samples = append(m.samples, now)
}

// FPS returns the average frame rate over the current window, or 0
// when fewer than two frames have been recorded.
func (m *fpsMeter) FPS() float64 {
	if len(m.samples) < 2 {
		return 0
	}
	elapsed := m.samples[len(m.samples)-1].Sub(m.samples[0]).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(len(m.samples)-1) / elapsed
}
