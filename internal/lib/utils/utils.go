// Package utils contains small helper functions used across the project.
//
// These are generic helpers that don't belong to a specific domain.
package utils

import "strings"

// htmlEscaper replaces the five characters that can break out of HTML text
// or a quoted attribute. The entities are fixed: &#039; (not &#39;) and
// &quot; (not &#34;).
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML escapes user-supplied text before it is interpolated into
// generated HTML. Every interpolation site in the outbound emails goes
// through it.
func EscapeHTML(unsafe string) string {
	if unsafe == "" {
		return ""
	}
	return htmlEscaper.Replace(unsafe)
}
