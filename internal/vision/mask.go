// Package vision implements the per-frame image processing stages:
// skin mask construction, blob selection, and centroid estimation.
package vision

import (
	"image"

	"gocv.io/x/gocv"

	"github.com/jiggsnoway/Hand-Tracking-POC-Using-Classical-Computer-Vision/internal/config"
)

// MaskBuilder turns a raw BGR frame into a binary skin mask.
//
// Processing steps:
// 1. Gaussian blur to suppress sensor noise
// 2. Convert to HSV (or YCrCb) color space
// 3. Per-channel in-range threshold against the skin bounds
// 4. Morphological close to fill small gaps inside the hand
// 5. Morphological open to remove speckle outside it
type MaskBuilder struct {
	conversion gocv.ColorConversionCode
	lower      gocv.Scalar
	upper      gocv.Scalar
	blurSize   image.Point
	kernel     gocv.Mat
	iterations int
}

// NewMaskBuilder creates a MaskBuilder from detection settings.
// The caller must Close the builder to release the structuring element.
func NewMaskBuilder(d config.Detection) *MaskBuilder {
	conversion := gocv.ColorBGRToHSV
	if d.ColorSpace == config.ColorSpaceYCrCb {
		conversion = gocv.ColorBGRToYCrCb
	}

	return &MaskBuilder{
		conversion: conversion,
		lower:      gocv.NewScalar(d.LowerSkin[0], d.LowerSkin[1], d.LowerSkin[2], 0),
		upper:      gocv.NewScalar(d.UpperSkin[0], d.UpperSkin[1], d.UpperSkin[2], 0),
		blurSize:   image.Pt(d.BlurKernel, d.BlurKernel),
		kernel:     gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(d.MorphKernel, d.MorphKernel)),
		iterations: d.MorphIterations,
	}
}

// Build writes the binary skin mask for frame into dst. The builder
// holds no per-frame state, so the same frame always produces the same
// mask.
func (b *MaskBuilder) Build(frame gocv.Mat, dst *gocv.Mat) {
	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(frame, &blurred, b.blurSize, 0, 0, gocv.BorderDefault)

	converted := gocv.NewMat()
	defer converted.Close()
	gocv.CvtColor(blurred, &converted, b.conversion)

	gocv.InRangeWithScalar(converted, b.lower, b.upper, dst)

	gocv.MorphologyExWithParams(*dst, dst, gocv.MorphClose, b.kernel, b.iterations, gocv.BorderConstant)
	gocv.MorphologyExWithParams(*dst, dst, gocv.MorphOpen, b.kernel, b.iterations, gocv.BorderConstant)
}

// Close releases the structuring element.
func (b *MaskBuilder) Close() {
	b.kernel.Close()
}
