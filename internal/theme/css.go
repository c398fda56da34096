package theme

import (
	"fmt"
	"strings"
)

// CSS renders the theme as custom properties plus the header rules that
// depend on the palette and breakpoints.
func (t Theme) CSS() string {
	var sb strings.Builder
	bp := t.Breakpoints

	sb.WriteString(":root {\n")
	for _, name := range t.ColorNames() {
		for i, c := range t.Colors[name] {
			fmt.Fprintf(&sb, "  --blog-color-%s-%d: %s;\n", name, i, c)
		}
	}
	fmt.Fprintf(&sb, "  --blog-primary: %s;\n", t.Filled())
	fmt.Fprintf(&sb, "  --blog-primary-hover: %s;\n", t.Hover())
	fmt.Fprintf(&sb, "  --blog-white: %s;\n", t.White)
	fmt.Fprintf(&sb, "  --blog-black: %s;\n", t.Black)
	sb.WriteString("}\n\n")

	sb.WriteString(`.header {
  padding-top: 10px;
  background-color: var(--blog-primary);
  border-bottom: 1px solid var(--blog-primary);
  margin-bottom: 60px;
}
.main-section { padding-bottom: 10px; }
.brand { color: var(--blog-white); font-weight: 500; font-size: 1.25rem; }

.user {
  color: var(--blog-white);
  padding: 8px 10px;
  border-radius: 4px;
  transition: background-color 100ms ease;
}
.user:hover, .user-active { background-color: var(--blog-primary-hover); }

.tab {
  font-weight: 500;
  height: 38px;
  color: var(--blog-white);
  background-color: transparent;
  border-color: var(--blog-primary);
}
.tab a { color: var(--blog-white); text-decoration: none; }
.tab:hover { background-color: var(--blog-primary-hover); }
.tab[data-active] {
  background-color: var(--blog-primary-hover);
  border-color: var(--blog-primary);
}
.tabs-list { border-bottom: 0 !important; }
`)
	sb.WriteString("\n")
	for _, hv := range headerVisibility {
		sb.WriteString(bp.hideRule(hv.el))
	}
	return sb.String()
}
