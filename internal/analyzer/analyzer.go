package analyzer

import (
	"strings"

	"github.com/nao1215/mailscrub/internal/classify"
	"github.com/nao1215/mailscrub/internal/markup"
	"github.com/nao1215/mailscrub/internal/model"
)

// Analyze parses markup once and returns its counts.
// Empty markup yields zero counts.
func Analyze(markupText string) model.AnalysisCounts {
	if markupText == "" {
		return model.AnalysisCounts{}
	}
	return AnalyzeDocument(markup.Parse(markupText))
}

// AnalyzeDocument counts the links, images and comments of a parsed document.
//
// Every link and image is classified exactly once. Links without an href are
// skipped. Elements with a CSS background image are not images in the tree
// sense but are counted alongside content images.
func AnalyzeDocument(doc *markup.Document) model.AnalysisCounts {
	var counts model.AnalysisCounts

	for _, link := range doc.Links() {
		if !link.HasHref || link.Href == "" {
			continue
		}
		counts.AddLink(classify.Link(link.Href, link.Text))
	}

	for _, img := range doc.Images() {
		counts.AddImage(classify.Image(classify.FromMarkup(img)))
	}

	counts.ContentImages += countBackgroundImages(doc)
	counts.CommentNodes = len(doc.Comments())

	return counts
}

// countBackgroundImages counts elements whose style mentions a background
// and carries either a background-image declaration or a url() reference.
func countBackgroundImages(doc *markup.Document) int {
	n := 0
	for _, el := range doc.ElementsWithStyleAttribute() {
		if !strings.Contains(el.Style, "background") {
			continue
		}
		if strings.Contains(el.Style, "url(") || strings.Contains(el.Style, "background-image") {
			n++
		}
	}
	return n
}
