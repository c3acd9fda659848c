// Package imagery downloads the picture of the day and turns it into a
// PNG sized for the screen.
package imagery

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"golang.org/x/image/draw"
)

// Fit controls how a picture is mapped onto the target resolution.
type Fit string

const (
	// FitStretch scales to exactly the target size, ignoring aspect ratio.
	FitStretch Fit = "stretch"
	// FitLetterbox keeps the aspect ratio and pads with black.
	FitLetterbox Fit = "letterbox"
)

// ParseFit parses a fit mode. The empty string means stretch.
func ParseFit(s string) (Fit, error) {
	switch Fit(strings.ToLower(strings.TrimSpace(s))) {
	case "", FitStretch:
		return FitStretch, nil
	case FitLetterbox:
		return FitLetterbox, nil
	default:
		return "", fmt.Errorf("unknown fit %q (want stretch or letterbox)", s)
	}
}

// Resize renders src onto a new width x height image.
func Resize(src image.Image, width, height int, fit Fit) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))

	if fit == FitLetterbox {
		draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
		draw.CatmullRom.Scale(dst, letterbox(src.Bounds(), dst.Bounds()), src, src.Bounds(), draw.Over, nil)
		return dst
	}

	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// letterbox returns the largest rectangle with src's aspect ratio centred
// in dst.
func letterbox(src, dst image.Rectangle) image.Rectangle {
	sw, sh := float64(src.Dx()), float64(src.Dy())
	dw, dh := float64(dst.Dx()), float64(dst.Dy())
	if sw == 0 || sh == 0 {
		return dst
	}

	scale := math.Min(dw/sw, dh/sh)
	w := int(math.Round(sw * scale))
	h := int(math.Round(sh * scale))
	x0 := dst.Min.X + (dst.Dx()-w)/2
	y0 := dst.Min.Y + (dst.Dy()-h)/2
	return image.Rect(x0, y0, x0+w, y0+h)
}
