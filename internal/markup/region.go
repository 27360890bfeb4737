package markup

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// headPlaceholder stands in for the excised head region while a pass
// rewrites the body. It is a comment so that no pass treats it as text.
const headPlaceholder = "<!-- mailscrub:head -->"

// Region is a markup string split into its head region and everything else.
// Passes that must not touch the head rewrite Body and call Join.
type Region struct {
	// Body is the markup with the head region replaced by a placeholder.
	Body string

	// head is the excised head region, or "" if there was none.
	head string

	// placeholder marks where head goes back. It never occurs in the
	// original markup.
	placeholder string
}

// SplitHead excises the first literal head region of markup.
// When markup has no head region, Body is markup unchanged.
func SplitHead(markup string) Region {
	loc := headPattern.FindStringIndex(markup)
	if loc == nil {
		return Region{Body: markup}
	}
	placeholder := uniquePlaceholder(markup)
	return Region{
		Body:        markup[:loc[0]] + placeholder + markup[loc[1]:],
		head:        markup[loc[0]:loc[1]],
		placeholder: placeholder,
	}
}

// uniquePlaceholder returns headPlaceholder, extended until the markup does
// not already contain it.
func uniquePlaceholder(markup string) string {
	placeholder := headPlaceholder
	for i := 1; strings.Contains(markup, placeholder); i++ {
		placeholder = "<!-- mailscrub:head:" + strconv.Itoa(i) + " -->"
	}
	return placeholder
}

// Head returns the excised head region.
func (r Region) Head() string {
	return r.head
}

// Join merges the head region back into a rewritten body.
// If the placeholder was lost, the head is put in front of the body.
func (r Region) Join(body string) string {
	if r.head == "" {
		return body
	}
	if !strings.Contains(body, r.placeholder) {
		return r.head + body
	}
	return strings.Replace(body, r.placeholder, r.head, 1)
}

// TagAttributes tokenizes a single raw start tag such as `<img src="a">`
// and returns its attributes with lower-case keys and decoded values.
// The first occurrence of a duplicated attribute wins, as in the parser.
// Anything that is not a start tag yields an empty map.
func TagAttributes(tag string) map[string]string {
	attrs := make(map[string]string)

	z := html.NewTokenizer(strings.NewReader(tag))
	tt := z.Next()
	if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
		return attrs
	}

	_, hasAttr := z.TagName()
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		k := string(key)
		if _, seen := attrs[k]; !seen {
			attrs[k] = string(val)
		}
	}

	return attrs
}
