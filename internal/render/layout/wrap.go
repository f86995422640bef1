// Package layout holds the surface-agnostic geometry of a wallpaper: word
// wrapping against a caller-supplied measure and the fit/cover rectangles used
// when placing images.
package layout

import "strings"

// MeasureFunc returns the rendered width of s at the active font, in the
// same unit as the maximum width passed to Wrap.
type MeasureFunc func(s string) float64

// Block is a wrapped text block.
type Block struct {
	Lines  []string
	Height float64
}

// Wrap breaks text into lines no wider than maxWidth. Explicit newlines are
// kept as forced breaks. A word wider than maxWidth gets a line of its own
// and is never split. Empty input yields a single empty line.
func Wrap(text string, maxWidth, lineHeight float64, measure MeasureFunc) Block {
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		paragraph = strings.TrimSuffix(paragraph, "\r")
		line := ""
		for _, word := range strings.Fields(paragraph) {
			if line == "" {
				line = word
				continue
			}
			candidate := line + " " + word
			if measure(candidate) > maxWidth {
				lines = append(lines, line)
				line = word
				continue
			}
			line = candidate
		}
		lines = append(lines, line)
	}
	return Block{Lines: lines, Height: float64(len(lines)) * lineHeight}
}
