package markup

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// headPattern matches the first literal head region of a document.
// Only a bare <head> opening tag is recognized, matching how templates are
// written in practice.
var headPattern = regexp.MustCompile(`(?i)<head>[\s\S]*?</head>`)

// Document is an immutable structural view over a markup string.
type Document struct {
	// markup is the exact text the document was parsed from.
	markup string

	// doc is the parsed tree. It is never mutated after Parse.
	doc *goquery.Document
}

// Link is the projection of an <a> element.
type Link struct {
	// Href is the decoded href attribute value.
	Href string

	// HasHref is false when the element has no href attribute at all.
	HasHref bool

	// Text is the full text content of the element.
	Text string

	// InHead is true when the element is a descendant of <head>.
	InHead bool
}

// Image is the projection of an <img> element.
type Image struct {
	Src    string
	HasSrc bool
	Width  string
	Height string
	Style  string
	Alt    string
}

// StyledElement is an element carrying a style attribute.
type StyledElement struct {
	// Tag is the lower-case element name.
	Tag string

	// Style is the raw style attribute value.
	Style string
}

// Parse builds a Document from markup. It never fails; malformed markup is
// parsed best-effort.
func Parse(markup string) *Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		// Only a failing reader can make the parser error out.
		doc = goquery.NewDocumentFromNode(&html.Node{Type: html.DocumentNode})
	}
	return &Document{markup: markup, doc: doc}
}

// Markup returns the text the document was parsed from.
func (d *Document) Markup() string {
	return d.markup
}

// Links returns every anchor element in document order.
func (d *Document) Links() []Link {
	links := make([]Link, 0)
	d.doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		links = append(links, Link{
			Href:    href,
			HasHref: ok,
			Text:    s.Text(),
			InHead:  s.ParentsFiltered("head").Length() > 0,
		})
	})
	return links
}

// Images returns every image element in document order.
func (d *Document) Images() []Image {
	images := make([]Image, 0)
	d.doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		images = append(images, Image{
			Src:    src,
			HasSrc: ok,
			Width:  s.AttrOr("width", ""),
			Height: s.AttrOr("height", ""),
			Style:  s.AttrOr("style", ""),
			Alt:    s.AttrOr("alt", ""),
		})
	})
	return images
}

// ElementsWithStyleAttribute returns every element that has a style
// attribute, including an empty one.
func (d *Document) ElementsWithStyleAttribute() []StyledElement {
	elements := make([]StyledElement, 0)
	d.doc.Find("[style]").Each(func(_ int, s *goquery.Selection) {
		elements = append(elements, StyledElement{
			Tag:   goquery.NodeName(s),
			Style: s.AttrOr("style", ""),
		})
	})
	return elements
}

// Comments returns the data of every comment node below the root <html>
// element. Comments outside the root element (before the doctype or after
// the closing html tag) are not part of the rendered document and are not
// returned.
func (d *Document) Comments() []string {
	comments := make([]string, 0)
	root := d.rootElement()
	if root == nil {
		return comments
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.CommentNode {
			comments = append(comments, n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return comments
}

// Head returns the first literal <head>…</head> region of the markup, or ""
// when the markup has none.
func (d *Document) Head() string {
	return headPattern.FindString(d.markup)
}

// rootElement returns the document's root element (normally <html>).
func (d *Document) rootElement() *html.Node {
	if len(d.doc.Nodes) == 0 {
		return nil
	}
	for c := d.doc.Nodes[0].FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}
