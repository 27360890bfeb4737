package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/nao1215/mailscrub/internal/classify"
	"github.com/nao1215/mailscrub/internal/markup"
	"github.com/nao1215/mailscrub/internal/model"
)

// LinkRedirectStep points classified links at their configured targets.
//
// Every link in the body is classified from its href and visible text.
// When its category has a target, every href attribute in the body whose
// value equals the link's href is rewritten to href="target". Links in the
// head region are never rewritten.
type LinkRedirectStep struct {
	logger *slog.Logger
}

// NewLinkRedirectStep creates a new link redirect step.
func NewLinkRedirectStep(logger *slog.Logger) *LinkRedirectStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &LinkRedirectStep{logger: logger}
}

// Name returns the step name.
func (s *LinkRedirectStep) Name() string {
	return "link_redirect"
}

// Do rewrites the hrefs of classified links.
func (s *LinkRedirectStep) Do(_ context.Context, job *model.Job) error {
	if !job.Targets.HasLinkTargets() {
		return nil
	}

	doc := markup.Parse(job.Markup)
	region := markup.SplitHead(job.Markup)
	body := region.Body

	done := make(map[string]bool)
	for _, link := range doc.Links() {
		if link.InHead || link.Href == "" || done[link.Href] {
			continue
		}
		category := classify.Link(link.Href, link.Text)
		target := job.Targets.ForLink(category)
		if target == "" {
			continue
		}
		done[link.Href] = true

		var n int
		body, n = replaceAttributeValue(body, "href", link.Href, target)
		s.logger.Debug("redirected link",
			"category", category.String(),
			"href", link.Href,
			"target", target,
			"occurrences", n,
		)
	}

	job.Markup = region.Join(body)
	return nil
}

var bodyClosePattern = regexp.MustCompile(`(?i)</body>`)

// OpenTrackingStep points tracking pixels at the opens target.
//
// Every tracking pixel with a source has that source rewritten throughout
// the document. If no such pixel exists, exactly one hidden 1x1 pixel is
// injected before the first closing body tag, or at the end of the
// document when there is none.
type OpenTrackingStep struct {
	logger *slog.Logger
}

// NewOpenTrackingStep creates a new open tracking step.
func NewOpenTrackingStep(logger *slog.Logger) *OpenTrackingStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenTrackingStep{logger: logger}
}

// Name returns the step name.
func (s *OpenTrackingStep) Name() string {
	return "open_tracking"
}

// Do rewrites or injects the open tracking pixel.
func (s *OpenTrackingStep) Do(_ context.Context, job *model.Job) error {
	opens := job.Targets.Opens
	if opens == "" {
		return nil
	}

	doc := markup.Parse(job.Markup)
	found := false
	for _, img := range doc.Images() {
		if img.Src == "" {
			continue
		}
		if classify.Image(classify.FromMarkup(img)) != model.ImageTrackingPixel {
			continue
		}
		found = true

		var n int
		job.Markup, n = replaceAttributeValue(job.Markup, "src", img.Src, opens)
		s.logger.Debug("redirected tracking pixel", "src", img.Src, "target", opens, "occurrences", n)
	}

	if found {
		return nil
	}

	pixel := trackingPixel(opens)
	if loc := bodyClosePattern.FindStringIndex(job.Markup); loc != nil {
		job.Markup = job.Markup[:loc[0]] + pixel + job.Markup[loc[0]:]
	} else {
		job.Markup += pixel
	}
	s.logger.Debug("injected tracking pixel", "target", opens)
	return nil
}

func trackingPixel(src string) string {
	return fmt.Sprintf(`<img src="%s" alt="" width="1" height="1" style="display:none; width:1px; height:1px;">`, src)
}
