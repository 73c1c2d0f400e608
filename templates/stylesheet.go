package templates

import "strings"

// safeStylesheet keeps user-supplied CSS from closing the surrounding style
// element early.
func safeStylesheet(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
