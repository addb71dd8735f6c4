package ast

import "strings"

// SummaryLines is the maximum number of lines Summary keeps.
const SummaryLines = 6

// Summary renders n for diagnostics, eliding the middle of long bodies.
// A trailing closing brace is preserved.
func Summary(n Node) string {
	if n == nil {
		return "<nil>"
	}
	t := n.Text()
	lines := strings.Split(t, "\n")
	if len(lines) <= SummaryLines {
		return t
	}
	if lines[len(lines)-1] == "}" {
		kept := append(lines[:SummaryLines-2:SummaryLines-2], "    ...", "}")
		return strings.Join(kept, "\n")
	}
	kept := append(lines[:SummaryLines-1:SummaryLines-1], "    ...")
	return strings.Join(kept, "\n")
}
