package parser

import (
	"slices"
	"strings"
	"unicode"
)

// TagMarker starts every docket entry.
const TagMarker = "@"

// Line is one logical tag line: a tag and all of its continuation text.
type Line struct {
	Text string
	// Number is the source line the tag starts on.
	Number int
}

func (l Line) isTag() bool { return strings.HasPrefix(l.Text, TagMarker) }

// Split turns the text of one comment (delimiters already removed) into
// logical tag lines. first is the source line number of the comment's
// first line. Lines are trimmed of whitespace and leading '*' markers and
// blank lines are dropped. Every line that does not start with '@' is
// folded into the nearest tag line above it; text above the first tag is
// discarded. A comment without any tag line yields nil.
func Split(text string, first int) []Line {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	lines := make([]Line, 0, len(raw))
	for i, l := range raw {
		l = strings.TrimLeftFunc(l, func(r rune) bool { return r == '*' || unicode.IsSpace(r) })
		l = strings.TrimRightFunc(l, unicode.IsSpace)
		if l != "" {
			lines = append(lines, Line{Text: l, Number: first + i})
		}
	}

	// Ordinary commentary. Checked before folding touches anything.
	if !slices.ContainsFunc(lines, Line.isTag) {
		return nil
	}

	// Bottom-up so runs of continuation lines arrive at their tag in
	// reading order.
	for i := len(lines) - 1; i >= 0; i-- {
		if lines[i].isTag() {
			continue
		}
		if i > 0 {
			lines[i-1].Text += " " + lines[i].Text
		}
		lines[i].Text = ""
	}

	return slices.DeleteFunc(lines, func(l Line) bool { return l.Text == "" })
}
