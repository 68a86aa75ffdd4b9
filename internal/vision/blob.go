package vision

import (
	"image"

	"gocv.io/x/gocv"
)

// Blob is a connected foreground region: its external boundary points
// and the enclosed area in pixels squared.
type Blob struct {
	Points []image.Point
	Area   float64
}

// BoundingRect returns the axis-aligned bounding rectangle of the blob.
func (b Blob) BoundingRect() image.Rectangle {
	if len(b.Points) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: b.Points[0], Max: b.Points[0]}
	for _, p := range b.Points[1:] {
		if p.X < r.Min.X {
			r.Min.X = p.X
		}
		if p.Y < r.Min.Y {
			r.Min.Y = p.Y
		}
		if p.X > r.Max.X {
			r.Max.X = p.X
		}
		if p.Y > r.Max.Y {
			r.Max.Y = p.Y
		}
	}
	r.Max = r.Max.Add(image.Pt(1, 1))
	return r
}

// LargestBlob extracts the external contours of a binary mask and
// returns the largest one by enclosed area. Blobs smaller than minArea
// are ignored as noise. The second return value is false when no
// qualifying blob exists; an all-background mask is a normal outcome,
// not an error.
func LargestBlob(mask gocv.Mat, minArea float64) (Blob, bool) {
	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	blobs := make([]Blob, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		c := contours.At(i)
		blobs = append(blobs, Blob{
			Points: c.ToPoints(),
			Area:   gocv.ContourArea(c),
		})
	}

	return largest(blobs, minArea)
}

// largest is a pure max-by-area reduction over an ordered sequence of
// blobs. Ties keep the earlier blob.
func largest(blobs []Blob, minArea float64) (Blob, bool) {
	var best Blob
	found := false
	for _, b := range blobs {
		if b.Area < minArea {
			continue
		}
		if !found || b.Area > best.Area {
			best = b
			found = true
		}
	}
	return best, found
}
