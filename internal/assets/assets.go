// Package assets holds the static catalogs of the wallpaper maker: embedded
// fonts, preset output sizes, gradient palettes and the prompt list.
package assets

import (
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultFamily is used when a font family is empty or unknown.
const DefaultFamily = "sans"

type fontFamily struct {
	regular []byte
	medium  []byte
	bold    []byte
}

var fontFamilies = map[string]fontFamily{
	"sans":   {regular: goregular.TTF, medium: gomedium.TTF, bold: gobold.TTF},
	"italic": {regular: goitalic.TTF, medium: goitalic.TTF, bold: gobolditalic.TTF},
	"mono":   {regular: gomono.TTF, medium: gomono.TTF, bold: gomonobold.TTF},
}

// FontTTF returns the embedded font for family at the given CSS-style
// weight (400 regular, 500 medium, 700+ bold). The boolean is false when the
// family was unknown and the default family was used.
func FontTTF(family string, weight int) ([]byte, bool) {
	fam, ok := fontFamilies[strings.ToLower(strings.TrimSpace(family))]
	if !ok {
		fam = fontFamilies[DefaultFamily]
	}
	switch {
	case weight >= 650:
		return fam.bold, ok
	case weight >= 500:
		return fam.medium, ok
	default:
		return fam.regular, ok
	}
}

// FontFamilies lists the embedded family names.
func FontFamilies() []string {
	names := make([]string, 0, len(fontFamilies))
	for name := range fontFamilies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
