package resources

import "embed"

// FS exposes the static resource files served under /static/.
//
//go:embed site.css favicon.svg
var FS embed.FS
