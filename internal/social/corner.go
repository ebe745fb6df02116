package social

import (
	"image"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
)

// roundTopLeft clips the top-left corner of img to a quarter circle of the
// given radius. Only the radius x radius corner square is touched; the other
// corners stay square.
func roundTopLeft(img *image.RGBA, radius int) {
	if radius <= 0 {
		return
	}
	b := img.Bounds()
	radius = min(radius, b.Dx(), b.Dy())

	dc := gg.NewContext(2*radius, 2*radius)
	dc.DrawCircle(float64(radius), float64(radius), float64(radius))
	dc.Fill()
	mask := dc.AsMask()

	corner := image.Rect(b.Min.X, b.Min.Y, b.Min.X+radius, b.Min.Y+radius)
	patch := image.NewRGBA(image.Rect(0, 0, radius, radius))
	draw.DrawMask(patch, patch.Bounds(), img, corner.Min, mask, image.Point{}, draw.Src)
	draw.Draw(img, corner, patch, image.Point{}, draw.Src)
}
