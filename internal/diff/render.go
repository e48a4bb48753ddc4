package diff

import (
	"fmt"
	"strings"
)

// Render produces a plain-text presentation of a diff using the
// level hints: score-level entries flush left, everything else
// indented. Renderers for other surfaces (HTML, terminal color)
// should derive from the Entry fields the same way rather than
// re-parsing this text.
func Render(entries []Entry) string {
	if len(entries) == 0 {
		return "No changes."
	}
	var b strings.Builder
	for _, e := range entries {
		indent := ""
		if e.Level != LevelScore {
			indent = "  "
		}
		fmt.Fprintf(&b, "%s- %s\n", indent, e.Description)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
