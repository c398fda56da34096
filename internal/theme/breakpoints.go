package theme

import "fmt"

type Breakpoint string

const (
	XS Breakpoint = "xs"
	SM Breakpoint = "sm"
	MD Breakpoint = "md"
	LG Breakpoint = "lg"
	XL Breakpoint = "xl"
)

// Ordered lists the breakpoints from narrowest to widest.
var Ordered = []Breakpoint{XS, SM, MD, LG, XL}

// Breakpoints maps a breakpoint to its lower edge in px.
type Breakpoints map[Breakpoint]float64

func DefaultBreakpoints() Breakpoints {
	return Breakpoints{XS: 576, SM: 768, MD: 992, LG: 1200, XL: 1408}
}

// CollapseAt is where the header switches between the tab strip (at or above)
// and the burger control (below).
const CollapseAt = SM

// SmallerThan is a media query matching widths strictly below bp.
func (b Breakpoints) SmallerThan(bp Breakpoint) string {
	return fmt.Sprintf("@media (max-width: %gpx)", b[bp]-0.1)
}

// LargerThan is a media query matching widths at or above bp.
func (b Breakpoints) LargerThan(bp Breakpoint) string {
	return fmt.Sprintf("@media (min-width: %gpx)", b[bp])
}

// Element is a header part whose visibility depends on the viewport.
type Element int

const (
	UserTrigger Element = iota
	Burger
	Tabs
)

func (e Element) String() string {
	switch e {
	case UserTrigger:
		return "user"
	case Burger:
		return "burger"
	case Tabs:
		return "tabs"
	}
	return fmt.Sprintf("Element(%d)", int(e))
}

// HeaderElements lists every viewport-dependent header part.
func HeaderElements() []Element {
	out := make([]Element, 0, len(headerVisibility))
	for _, hv := range headerVisibility {
		out = append(out, hv.el)
	}
	return out
}

type visibility struct {
	selector string
	edge     Breakpoint
	// below: shown only below edge. Otherwise shown only at or above it.
	below bool
}

var headerVisibility = []struct {
	el Element
	v  visibility
}{
	{UserTrigger, visibility{selector: ".user", edge: XS}},
	{Burger, visibility{selector: ".burger, .burger-drawer", edge: CollapseAt, below: true}},
	{Tabs, visibility{selector: ".tabs", edge: CollapseAt}},
}

func visibilityOf(e Element) visibility {
	for _, hv := range headerVisibility {
		if hv.el == e {
			return hv.v
		}
	}
	panic(fmt.Sprintf("theme: unknown header element %d", e))
}

// Visible reports whether e shows at the given viewport width.
func (b Breakpoints) Visible(e Element, widthPx float64) bool {
	v := visibilityOf(e)
	if v.below {
		return widthPx < b[v.edge]
	}
	return widthPx >= b[v.edge]
}

// hideRule is the CSS that hides e wherever Visible reports false.
func (b Breakpoints) hideRule(e Element) string {
	v := visibilityOf(e)
	query := b.SmallerThan(v.edge)
	if v.below {
		query = b.LargerThan(v.edge)
	}
	return fmt.Sprintf("%s {\n  %s { display: none; }\n}\n", query, v.selector)
}
