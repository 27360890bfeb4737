package pipeline

import (
	"regexp"
	"sort"
	"strings"
)

// replaceAllSubmatchFunc is regexp.ReplaceAllStringFunc with the submatches
// of each match passed to repl. groups[0] is the whole match; a group that
// did not participate is "".
func replaceAllSubmatchFunc(re *regexp.Regexp, s string, repl func(groups []string) string) string {
	locs := re.FindAllStringSubmatchIndex(s, -1)
	if len(locs) == 0 {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))
	last := 0
	for _, loc := range locs {
		sb.WriteString(s[last:loc[0]])
		groups := make([]string, len(loc)/2)
		for i := range groups {
			if loc[2*i] >= 0 {
				groups[i] = s[loc[2*i]:loc[2*i+1]]
			}
		}
		sb.WriteString(repl(groups))
		last = loc[1]
	}
	sb.WriteString(s[last:])
	return sb.String()
}

// replaceAttributeValue rewrites every name="value" (either quote style) to
// name="replacement". value is matched literally, and so is its
// "&amp;"-encoded form, since parsed attribute values are entity-decoded
// while the text still carries the entity. Returns the rewritten text and
// the number of attributes replaced.
//
// Values come from the document and may hold any bytes, invalid UTF-8
// included, so they are never compiled into a pattern.
func replaceAttributeValue(s, name, value, replacement string) (string, int) {
	forms := []string{value}
	if encoded := strings.ReplaceAll(value, "&", "&amp;"); encoded != value {
		forms = append(forms, encoded)
	}

	out := name + `="` + replacement + `"`
	total := 0
	for _, form := range forms {
		for _, quote := range []string{`"`, `'`} {
			old := name + "=" + quote + form + quote
			if old == out {
				continue
			}
			n := strings.Count(s, old)
			if n == 0 {
				continue
			}
			s = strings.ReplaceAll(s, old, out)
			total += n
		}
	}
	return s, total
}

// tagSpans records where each occurrence of an opening and a closing
// marker ends in a lower-cased text, in ascending order.
type tagSpans struct {
	openEnds  []int
	closeEnds []int
}

func newTagSpans(lower, open, closing string) tagSpans {
	return tagSpans{
		openEnds:  markerEnds(lower, open),
		closeEnds: markerEnds(lower, closing),
	}
}

func markerEnds(s, marker string) []int {
	var ends []int
	offset := 0
	for {
		i := strings.Index(s[offset:], marker)
		if i < 0 {
			return ends
		}
		offset += i + len(marker)
		ends = append(ends, offset)
	}
}

// inside reports whether the prefix s[:pos] leaves the element open: its
// last complete opening marker comes after its last complete closing one.
func (t tagSpans) inside(pos int) bool {
	return lastEndWithin(t.openEnds, pos) > lastEndWithin(t.closeEnds, pos)
}

func lastEndWithin(ends []int, pos int) int {
	i := sort.SearchInts(ends, pos+1)
	if i == 0 {
		return -1
	}
	return ends[i-1]
}
