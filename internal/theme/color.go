package theme

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var white = colorful.Color{R: 1, G: 1, B: 1}

// Lighten mixes hex toward white by amount (clamped to [0,1]) in sRGB space,
// so each channel becomes c + (1-c)*amount. The result is lower-case #rrggbb.
func Lighten(hex string, amount float64) (string, error) {
	c, err := parseHex(hex)
	if err != nil {
		return "", err
	}
	return c.BlendRgb(white, clamp01(amount)).Clamped().Hex(), nil
}

func parseHex(s string) (colorful.Color, error) {
	s = strings.TrimSpace(s)
	if len(s) == 4 && s[0] == '#' {
		s = "#" + strings.Repeat(s[1:2], 2) + strings.Repeat(s[2:3], 2) + strings.Repeat(s[3:4], 2)
	}
	c, err := colorful.Hex(strings.ToLower(s))
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return c, nil
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
