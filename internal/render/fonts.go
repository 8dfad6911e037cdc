package render

import (
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontStyle стиль шрифта
type FontStyle string

const (
	FontStyleDefault FontStyle = ""
	FontStyleMedium  FontStyle = "medium"
	FontStyleBold    FontStyle = "bold"
)

var (
	fontsMu     sync.Mutex
	cachedFonts = make(map[FontStyle]*opentype.Font)
)

func fontData(style FontStyle) []byte {
	switch style {
	case FontStyleMedium:
		return gomedium.TTF
	case FontStyleBold:
		return gobold.TTF
	default:
		return goregular.TTF
	}
}

func parsedFont(style FontStyle) (*opentype.Font, error) {
	fontsMu.Lock()
	defer fontsMu.Unlock()

	if f, ok := cachedFonts[style]; ok {
		return f, nil
	}
	f, err := opentype.Parse(fontData(style))
	if err != nil {
		return nil, err
	}
	cachedFonts[style] = f
	return f, nil
}

// loadFont ставит шрифт нужного стиля или basicfont, если разобрать шрифт не удалось
func loadFont(dc *gg.Context, size float64, style FontStyle) {
	f, err := parsedFont(style)
	if err != nil {
		dc.SetFontFace(basicfont.Face7x13)
		return
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		dc.SetFontFace(basicfont.Face7x13)
		return
	}
	dc.SetFontFace(face)
}
