package vision

import (
	"image"
	"math"
)

// Centroid computes the center of mass of a blob from its contour
// moments. The second return value is false when the blob has no usable
// area (fewer than three points, or a degenerate polygon); callers must
// treat that as "no detection", never as a coordinate.
func Centroid(b Blob) (image.Point, bool) {
	m00, m10, m01 := contourMoments(b.Points)
	if m00 < 1e-9 {
		return image.Point{}, false
	}
	return image.Pt(
		int(math.Round(m10/m00)),
		int(math.Round(m01/m00)),
	), true
}

// contourMoments computes the zeroth and first polygon moments of a
// closed contour via Green's theorem. This is the same quantity OpenCV
// computes for a contour input, so the centroid matches what
// cv::moments would report for the selected contour.
func contourMoments(pts []image.Point) (m00, m10, m01 float64) {
	n := len(pts)
	if n < 3 {
		return 0, 0, 0
	}

	for i := 0; i < n; i++ {
		p := pts[i]
		q := pts[(i+1)%n]
		cross := float64(p.X)*float64(q.Y) - float64(q.X)*float64(p.Y)
		m00 += cross
		m10 += cross * float64(p.X+q.X)
		m01 += cross * float64(p.Y+q.Y)
	}

	m00 /= 2
	m10 /= 6
	m01 /= 6

	// Orientation of the contour flips the sign of every moment; the
	// ratios are unaffected, but area comparisons need m00 >= 0.
	if m00 < 0 {
		m00, m10, m01 = -m00, -m10, -m01
	}
	return m00, m10, m01
}
