package social

import (
	"image"

	"golang.org/x/image/draw"
)

// Card canvas size in pixels.
const (
	CardWidth  = 1200
	CardHeight = 630
)

// CardBounds is the canvas rectangle of every card.
var CardBounds = image.Rect(0, 0, CardWidth, CardHeight)

// Layer is an image placed with its top-left corner at At.
type Layer struct {
	Image image.Image
	At    image.Point
}

// PlacedBlock is a text block drawn into Box.
type PlacedBlock struct {
	Block TextBlock
	Box   image.Rectangle
}

// Composition lists everything drawn onto a card.
type Composition struct {
	Background image.Image
	// Overlays are drawn right after the background.
	Overlays []Layer
	Logo     *Layer
	Blocks   []PlacedBlock
}

// Compose alpha-composites c onto a new canvas: background, overlays, logo,
// then text blocks in order. A background of another size is stretched to the
// canvas.
func Compose(c Composition) *image.RGBA {
	canvas := image.NewRGBA(CardBounds)
	if c.Background != nil {
		if c.Background.Bounds().Size() == CardBounds.Size() {
			draw.Draw(canvas, CardBounds, c.Background, c.Background.Bounds().Min, draw.Src)
		} else {
			draw.CatmullRom.Scale(canvas, CardBounds, c.Background, c.Background.Bounds(), draw.Src, nil)
		}
	}

	for _, l := range c.Overlays {
		over(canvas, l)
	}
	if c.Logo != nil && c.Logo.Image != nil {
		over(canvas, *c.Logo)
	}
	for _, pb := range c.Blocks {
		over(canvas, Layer{Image: pb.Block.Render(pb.Box.Size()), At: pb.Box.Min})
	}
	return canvas
}

func over(dst *image.RGBA, l Layer) {
	b := l.Image.Bounds()
	r := image.Rectangle{Min: l.At, Max: l.At.Add(b.Size())}
	draw.Draw(dst, r, l.Image, b.Min, draw.Over)
}

// scaleToWidth resizes img to width, keeping its aspect ratio.
func scaleToWidth(img image.Image, width int) image.Image {
	b := img.Bounds()
	if width <= 0 || b.Dx() == 0 || b.Dx() == width {
		return img
	}
	height := max(1, (b.Dy()*width+b.Dx()/2)/b.Dx())
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// cover scales img so it fills size completely and crops the overflow evenly
// on both sides.
func cover(img image.Image, size image.Point) *image.RGBA {
	dst := image.NewRGBA(image.Rectangle{Max: size})
	b := img.Bounds()
	if b.Empty() {
		return dst
	}
	s := max(float64(size.X)/float64(b.Dx()), float64(size.Y)/float64(b.Dy()))
	w := int(float64(b.Dx())*s + 0.5)
	h := int(float64(b.Dy())*s + 0.5)
	off := image.Pt((size.X-w)/2, (size.Y-h)/2)
	draw.CatmullRom.Scale(dst, image.Rect(off.X, off.Y, off.X+w, off.Y+h), img, b, draw.Src, nil)
	return dst
}
