package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// speciesPalette maps PokeAPI color names to card backgrounds.
var speciesPalette = map[string]string{
	"black":  "#2C2C2C",
	"blue":   "#6BA8FF",
	"brown":  "#B97A57",
	"gray":   "#B0B0B0",
	"green":  "#7AD19A",
	"pink":   "#F2A7C4",
	"purple": "#A58BD4",
	"red":    "#FF7A7A",
	"white":  "#F5F5F5",
	"yellow": "#FFE58A",
}

const (
	defaultCardHex = "#E0E0E0"
	lightTextHex   = "#FFFFFF"
	darkTextHex    = "#1F1F1F"

	// luminanceThreshold splits light text from dark text.
	luminanceThreshold = 0.45
)

// cardHex returns the background for a species color name. Unknown or
// missing names get a neutral light gray.
func cardHex(colorName string) string {
	if hex, ok := speciesPalette[strings.ToLower(strings.TrimSpace(colorName))]; ok {
		return hex
	}
	return defaultCardHex
}

// relativeLuminance is the WCAG luminance of c in [0, 1].
func relativeLuminance(c colorful.Color) float64 {
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// readableTextHex picks white text on dark backgrounds and near-black on
// light ones. Unparseable input is treated as light.
func readableTextHex(bgHex string) string {
	c, err := colorful.Hex(bgHex)
	if err != nil {
		return darkTextHex
	}
	if relativeLuminance(c) < luminanceThreshold {
		return lightTextHex
	}
	return darkTextHex
}

// cardStyle is CardStyle colored for one species.
func cardStyle(colorName string) lipgloss.Style {
	bg := cardHex(colorName)
	return CardStyle.
		Background(lipgloss.Color(bg)).
		Foreground(lipgloss.Color(readableTextHex(bg)))
}
