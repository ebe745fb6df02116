package social

import (
	"bytes"
	stderrors "errors"
	"image"
	"image/color"
	_ "image/jpeg" // decoder registration
	_ "image/png"  // decoder registration
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // decoder registration

	"git.home.luguber.info/inful/docplugins/internal/foundation/errors"
)

// LogoWidth is the width logos are scaled to.
const LogoWidth = 72

// AssetOptions locates the shared card resources. Paths are absolute or
// relative to the working directory.
type AssetOptions struct {
	Background      string
	BackgroundColor color.Color
	Logo            string
	RegularFont     string
	SemiBoldFont    string
	TextColor       color.Color
	DescColor       color.Color
}

// Assets are the resources shared by every render. They are read-only once
// loaded.
type Assets struct {
	Fonts      *Fonts
	Background image.Image
	Logo       image.Image
	TextColor  color.Color
	DescColor  color.Color
}

// LoadAssets loads fonts, background and logo. A missing background file
// falls back to a solid BackgroundColor canvas; a missing logo file is an error.
func LoadAssets(opts AssetOptions) (*Assets, error) {
	fonts, err := LoadFonts(opts.RegularFont, opts.SemiBoldFont)
	if err != nil {
		return nil, err
	}

	bg, err := loadBackground(opts.Background, opts.BackgroundColor)
	if err != nil {
		return nil, err
	}

	var logo image.Image
	if opts.Logo != "" {
		logo, err = loadImage(opts.Logo, LogoWidth)
		if err != nil {
			return nil, err
		}
	}

	a := &Assets{
		Fonts:      fonts,
		Background: bg,
		Logo:       logo,
		TextColor:  opts.TextColor,
		DescColor:  opts.DescColor,
	}
	if a.TextColor == nil {
		a.TextColor = color.Black
	}
	if a.DescColor == nil {
		a.DescColor = color.NRGBA{R: 0x52, G: 0x52, B: 0x6b, A: 0xff}
	}
	return a, nil
}

// NewAssetLoader returns a function that loads the assets on first call and
// hands the same result to every later caller.
func NewAssetLoader(opts AssetOptions) func() (*Assets, error) {
	return sync.OnceValues(func() (*Assets, error) {
		return LoadAssets(opts)
	})
}

func loadBackground(path string, fill color.Color) (image.Image, error) {
	if path != "" {
		img, err := loadImage(path, 0)
		if err == nil {
			canvas := image.NewRGBA(CardBounds)
			if img.Bounds().Size() == CardBounds.Size() {
				draw.Draw(canvas, CardBounds, img, img.Bounds().Min, draw.Src)
			} else {
				draw.CatmullRom.Scale(canvas, CardBounds, img, img.Bounds(), draw.Src, nil)
			}
			return canvas, nil
		}
		if !stderrors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	if fill == nil {
		fill = color.White
	}
	canvas := image.NewRGBA(CardBounds)
	draw.Draw(canvas, CardBounds, image.NewUniform(fill), image.Point{}, draw.Src)
	return canvas, nil
}

// loadImage decodes a PNG, JPEG, WebP or SVG file. A positive width scales
// the result to that width; SVG files are rasterised directly at it.
func loadImage(path string, width int) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "read image").
			Fatal().WithContext("path", path).Build()
	}

	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return rasterizeSVG(data, width, path)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.RenderError("decode image").
			WithCause(err).WithContext("path", path).Build()
	}
	return scaleToWidth(img, width), nil
}

func rasterizeSVG(data []byte, width int, path string) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, errors.RenderError("parse svg").
			WithCause(err).WithContext("path", path).Build()
	}

	vw, vh := icon.ViewBox.W, icon.ViewBox.H
	if vw <= 0 || vh <= 0 {
		vw, vh = LogoWidth, LogoWidth
	}
	w := int(vw + 0.5)
	if width > 0 {
		w = width
	}
	h := max(1, int(float64(w)*vh/vw+0.5))

	icon.SetTarget(0, 0, float64(w), float64(h))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)
	return img, nil
}
