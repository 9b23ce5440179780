package parser

import (
	"slices"
	"strings"
	"unicode"
)

// Tag names, matched case-sensitively as a prefix of a line.
const (
	TagModule      = "@module"
	TagClass       = "@class"
	TagSignature   = "@signature"
	TagAdded       = "@added"
	TagStatus      = "@status"
	TagUpdated     = "@updated"
	TagUpdates     = "@updates"
	TagAuthor      = "@author"
	TagAuthors     = "@authors"
	TagCopyright   = "@copyright"
	TagDescription = "@description"
	TagParam       = "@param"
	TagReturns     = "@returns"
	TagReturn      = "@return"
	TagThrows      = "@throws"
	TagSee         = "@see"
)

// byLength holds the known tag names, longest first, so that "@authors"
// is tried before "@author".
var byLength = func() []string {
	names := make([]string, 0, len(handlers))
	for name := range handlers {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		if n := len(b) - len(a); n != 0 {
			return n
		}
		return strings.Compare(a, b)
	})
	return names
}()

// matchTag finds the longest tag name line starts with and returns the
// rest of the line, trimmed, as its arguments. The name does not have to
// be followed by a space: "@authorAda" is @author with "Ada".
func matchTag(line string) (tag, args string, ok bool) {
	for _, name := range byLength {
		if rest, found := strings.CutPrefix(line, name); found {
			return name, strings.TrimSpace(rest), true
		}
	}
	return "", "", false
}

// nextField pops the first whitespace-delimited token off s. The remainder
// is returned trimmed but otherwise untouched, so free text keeps its
// spacing.
func nextField(s string) (field, rest string) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}
