package social

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// TextBlock is wrapped text ready to be drawn into a box.
type TextBlock struct {
	Lines   []string
	Face    font.Face
	Color   color.Color
	Spacing int
	// Offset is the text whose ink top sets the line offset. Empty means the
	// last line.
	Offset string
}

// NewTextBlock wraps text to the width of size and keeps at most maxLines
// lines. The line offset comes from the last candidate the wrap measured.
func NewTextBlock(text string, size image.Point, face font.Face, maxLines int, c color.Color, spacing int) TextBlock {
	lines, last := wrap(text, size.X, FaceMeasurer{Face: face}, maxLines)
	return TextBlock{
		Lines:   lines,
		Face:    face,
		Color:   c,
		Spacing: spacing,
		Offset:  last,
	}
}

// Render draws the block into a transparent image of the given size. Ink
// outside the box is clipped.
//
// The ink offset is the gap between the ascent and the ink top of Offset.
// The first line starts Spacing/2 above that gap so the visible text sits at
// the box edge. Each following line advances by the line height plus
// Spacing, less the same ink offset.
func (b TextBlock) Render(size image.Point) *image.RGBA {
	img := image.NewRGBA(image.Rectangle{Max: size})
	if len(b.Lines) == 0 || b.Face == nil {
		return img
	}

	ref := b.Offset
	if ref == "" {
		ref = b.Lines[len(b.Lines)-1]
	}
	yoffset := topOffset(b.Face, ref)
	ascent := b.Face.Metrics().Ascent.Ceil()
	step := lineHeight(b.Face) + b.Spacing - yoffset

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(b.Color),
		Face: b.Face,
	}
	y := b.Spacing/2 - yoffset
	for _, line := range b.Lines {
		d.Dot = fixed.P(0, y+ascent)
		d.DrawString(line)
		y += step
	}
	return img
}
