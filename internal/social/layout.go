package social

import (
	"image"
	"image/color"
	"math"
)

// Layout names reported in logs and metrics.
const (
	LayoutDefault = "default"
	LayoutHeader  = "header"
)

// PageContext holds the inputs of one card. Rendering is a pure function of
// it and the loaded Assets.
type PageContext struct {
	SiteName    string
	Title       string
	Description string
	// HeaderImagePath is a file path; empty selects the default layout.
	HeaderImagePath string
}

// TextCardRenderer renders a card for a page.
type TextCardRenderer interface {
	Layout() string
	Render(a *Assets, pc PageContext) (*image.RGBA, error)
}

// RendererFor selects the header layout when pc names a header image and the
// default layout otherwise.
func RendererFor(pc PageContext) TextCardRenderer {
	if pc.HeaderImagePath != "" {
		return HeaderRenderer{}
	}
	return DefaultRenderer{}
}

// scale converts design points to pixels.
func scale(x float64) float64 {
	return math.Round(x * 24 / 28)
}

type textStyle struct {
	weight   Weight
	size     float64
	box      image.Rectangle
	maxLines int
	spacing  int
}

func box(x, y, w, h int) image.Rectangle {
	return image.Rect(x, y, x+w, y+h)
}

var (
	logoAt   = image.Pt(68, 56)
	siteName = textStyle{SemiBold, scale(36), box(172, 72, 826, 48), 1, 20}

	defaultTitle       = textStyle{SemiBold, scale(92), box(64, 172, 826, 328), 3, 30}
	defaultDescription = textStyle{Regular, scale(28), box(68, 536, 640, 80), 2, 14}

	headerTitle       = textStyle{SemiBold, scale(64), box(64, 172, 540, 300), 4, 24}
	headerDescription = textStyle{Regular, scale(28), box(68, 536, 540, 80), 2, 14}
	headerBox         = box(640, 220, 560, 410)
	headerRadius      = 32
)

func (s textStyle) block(a *Assets, text string, c color.Color) (PlacedBlock, error) {
	face, err := a.Fonts.Face(s.weight, s.size)
	if err != nil {
		return PlacedBlock{}, err
	}
	return PlacedBlock{
		Block: NewTextBlock(text, s.box.Size(), face, s.maxLines, c, s.spacing),
		Box:   s.box,
	}, nil
}

// DefaultRenderer draws site name, title and description over the background.
type DefaultRenderer struct{}

// Layout implements TextCardRenderer.
func (DefaultRenderer) Layout() string { return LayoutDefault }

// Render implements TextCardRenderer.
func (r DefaultRenderer) Render(a *Assets, pc PageContext) (*image.RGBA, error) {
	c, err := r.compose(a, pc, defaultTitle, defaultDescription)
	if err != nil {
		return nil, err
	}
	return Compose(c), nil
}

// compose builds the shared background, logo and site name plus the title and
// description blocks placed per the given styles.
func (DefaultRenderer) compose(a *Assets, pc PageContext, title, desc textStyle) (Composition, error) {
	c := Composition{Background: a.Background}
	if a.Logo != nil {
		c.Logo = &Layer{Image: a.Logo, At: logoAt}
	}
	for _, t := range []struct {
		style textStyle
		text  string
		color color.Color
	}{
		{siteName, pc.SiteName, a.TextColor},
		{title, pc.Title, a.TextColor},
		{desc, pc.Description, a.DescColor},
	} {
		b, err := t.style.block(a, t.text, t.color)
		if err != nil {
			return Composition{}, err
		}
		c.Blocks = append(c.Blocks, b)
	}
	return c, nil
}

// HeaderRenderer is the default layout with the page's header image at the
// bottom right and narrower text columns.
type HeaderRenderer struct {
	base DefaultRenderer
}

// Layout implements TextCardRenderer.
func (HeaderRenderer) Layout() string { return LayoutHeader }

// Render implements TextCardRenderer.
func (r HeaderRenderer) Render(a *Assets, pc PageContext) (*image.RGBA, error) {
	src, err := loadImage(pc.HeaderImagePath, 0)
	if err != nil {
		return nil, err
	}
	header := cover(src, headerBox.Size())
	roundTopLeft(header, headerRadius)

	c, err := r.base.compose(a, pc, headerTitle, headerDescription)
	if err != nil {
		return nil, err
	}
	c.Overlays = append(c.Overlays, Layer{Image: header, At: headerBox.Min})
	return Compose(c), nil
}
