package social

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"git.home.luguber.info/inful/docplugins/internal/foundation/errors"
)

// Weight selects a font variant.
type Weight int

const (
	Regular Weight = iota
	SemiBold
)

func (w Weight) String() string {
	if w == SemiBold {
		return "semibold"
	}
	return "regular"
}

// Fonts holds the parsed font files. Parsed fonts are safe for concurrent
// use; faces are not, so every render creates its own.
type Fonts struct {
	regular  *opentype.Font
	semibold *opentype.Font
}

// LoadFonts parses the given TTF/OTF files. An empty path selects the embedded
// Go Regular or Go Medium font.
func LoadFonts(regularPath, semiboldPath string) (*Fonts, error) {
	regular, err := parseFont(regularPath, goregular.TTF)
	if err != nil {
		return nil, err
	}
	semibold, err := parseFont(semiboldPath, gomedium.TTF)
	if err != nil {
		return nil, err
	}
	return &Fonts{regular: regular, semibold: semibold}, nil
}

func parseFont(path string, fallback []byte) (*opentype.Font, error) {
	data := fallback
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "read font").
				Fatal().WithContext("path", path).Build()
		}
		data = b
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "parse font").
			Fatal().WithContext("path", path).Build()
	}
	return f, nil
}

// Face returns a new face for w at size pixels.
func (f *Fonts) Face(w Weight, size float64) (font.Face, error) {
	src := f.regular
	if w == SemiBold {
		src = f.semibold
	}
	face, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s face at %.0fpx: %w", w, size, err)
	}
	return face, nil
}

// Measurer reports the pixel width of a string as rendered from x=0.
type Measurer interface {
	Measure(s string) int
}

// FaceMeasurer measures strings with a font face. The width is the right edge
// of the ink bounding box, so trailing spaces do not count.
type FaceMeasurer struct {
	Face font.Face
}

// Measure implements Measurer.
func (m FaceMeasurer) Measure(s string) int {
	bounds, _ := font.BoundString(m.Face, s)
	return bounds.Max.X.Ceil()
}

// topOffset returns how far the ink of s starts below the ascender line.
func topOffset(face font.Face, s string) int {
	bounds, _ := font.BoundString(face, s)
	if bounds.Empty() {
		return 0
	}
	off := (face.Metrics().Ascent + bounds.Min.Y).Round()
	return max(off, 0)
}

// lineHeight is the ascent plus descent of face in whole pixels.
func lineHeight(face font.Face) int {
	m := face.Metrics()
	return (m.Ascent + m.Descent).Ceil()
}
