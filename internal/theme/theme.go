// Package theme holds the site's static palette and the presentation math
// derived from it: shade lookups, hover lightening, breakpoints and the
// generated stylesheet.
package theme

import (
	"fmt"
	"sort"
)

// RampSize is the number of shades in every color ramp.
const RampSize = 10

// Ramp is ordered lightest (0) to darkest (9).
type Ramp [RampSize]string

type Theme struct {
	Colors       map[string]Ramp
	PrimaryColor string
	// PrimaryShade is the ramp index used for filled, interactive surfaces.
	PrimaryShade int
	White        string
	Black        string
	// HoverLighten is the amount Lighten mixes the filled color toward white
	// for hover and active states.
	HoverLighten float64
	Breakpoints  Breakpoints
}

const KellyGreen = "kelly-green"

// Default is the blog theme: a single kelly-green ramp used as primary.
func Default() Theme {
	return Theme{
		Colors: map[string]Ramp{
			KellyGreen: {"#E8F5E9", "#C8E6C9", "#A5D6A7", "#66BB6A", "#4DB6AC", "#4CAF50", "#43A047", "#388E3C", "#2E7D32", "#1B5E20"},
		},
		PrimaryColor: KellyGreen,
		PrimaryShade: 6,
		White:        "#FFFFFF",
		Black:        "#000000",
		HoverLighten: 0.1,
		Breakpoints:  DefaultBreakpoints(),
	}
}

func (t Theme) Validate() error {
	ramp, ok := t.Colors[t.PrimaryColor]
	if !ok {
		return fmt.Errorf("theme: primary color %q has no ramp", t.PrimaryColor)
	}
	if t.PrimaryShade < 0 || t.PrimaryShade >= RampSize {
		return fmt.Errorf("theme: primary shade %d out of range", t.PrimaryShade)
	}
	for i, c := range ramp {
		if _, err := parseHex(c); err != nil {
			return fmt.Errorf("theme: %s[%d]: %w", t.PrimaryColor, i, err)
		}
	}
	return nil
}

// Shade returns color name at index i; "" if either is unknown.
func (t Theme) Shade(name string, i int) string {
	ramp, ok := t.Colors[name]
	if !ok || i < 0 || i >= RampSize {
		return ""
	}
	return ramp[i]
}

// Filled is the background of filled primary surfaces (the header bar).
func (t Theme) Filled() string {
	return t.Shade(t.PrimaryColor, t.PrimaryShade)
}

// Hover is Filled lightened by HoverLighten.
func (t Theme) Hover() string {
	c, err := Lighten(t.Filled(), t.HoverLighten)
	if err != nil {
		return t.Filled()
	}
	return c
}

// ColorNames lists ramp names in a stable order.
func (t Theme) ColorNames() []string {
	names := make([]string, 0, len(t.Colors))
	for n := range t.Colors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
