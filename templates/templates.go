// Package templates holds the HTML pages rendered by the controllers.
package templates

import "embed"

// FS contains layout.html and every page template
//
//go:embed *.html
var FS embed.FS
