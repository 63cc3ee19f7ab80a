package encode

import (
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
	"github.com/signadot/ctree/tree"
)

// TextDiff compares two encodings line by line. Removed lines are prefixed
// "-", added lines "+" and common lines " ". colors may be nil.
func TextDiff(from, to string, colors *Colors) string {
	diffCfg := diffpatch.New()
	a, b, lines := diffCfg.DiffLinesToChars(from, to)
	diffs := diffCfg.DiffCharsToLines(diffCfg.DiffMain(a, b, false), lines)
	var sb strings.Builder
	for _, d := range diffs {
		prefix, attr := " ", ColorAttr(-1)
		switch d.Type {
		case diffpatch.DiffInsert:
			prefix, attr = "+", InsertColor
		case diffpatch.DiffDelete:
			prefix, attr = "-", DeleteColor
		}
		for _, ln := range splitLines(d.Text) {
			ln = prefix + ln
			if colors != nil && attr >= 0 {
				ln = colors.Color(tree.StringType, attr, ln)
			}
			sb.WriteString(ln + "\n")
		}
	}
	return sb.String()
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
