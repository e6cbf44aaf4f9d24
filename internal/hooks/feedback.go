// ABOUTME: Human-readable status lines posted back into the session after bash actions
// ABOUTME: Output is truncated per stream by grapheme cluster, not by byte

package hooks

import (
	"fmt"
	"strings"
	"time"

	"github.com/rivo/uniseg"
)

// feedbackLimit caps stdout and stderr in a status line, in characters.
const feedbackLimit = 500

const ellipsis = "…"

// statusLine renders the outcome of a bash action.
func statusLine(command string, res BashResult, blocked bool) string {
	icon := "✅"
	switch {
	case blocked:
		icon = "🚫"
	case res.TimedOut:
		icon = "⏱️"
	case res.ExitCode != 0:
		icon = "❌"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s Hook `%s` exited with code %d in %s",
		icon, command, res.ExitCode, res.Duration.Round(time.Millisecond))
	if blocked {
		b.WriteString(" (blocked)")
	}
	if out := strings.TrimSpace(res.Stdout); out != "" {
		fmt.Fprintf(&b, "\n\nstdout:\n%s", truncateGraphemes(out, feedbackLimit))
	}
	if errOut := strings.TrimSpace(res.Stderr); errOut != "" {
		fmt.Fprintf(&b, "\n\nstderr:\n%s", truncateGraphemes(errOut, feedbackLimit))
	}
	return b.String()
}

// truncateGraphemes keeps the first limit user-perceived characters of s.
func truncateGraphemes(s string, limit int) string {
	g := uniseg.NewGraphemes(s)
	n := 0
	for g.Next() {
		if n == limit {
			from, _ := g.Positions()
			return s[:from] + ellipsis
		}
		n++
	}
	return s
}
