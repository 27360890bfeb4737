package pipeline

import (
	"context"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/nao1215/mailscrub/internal/classify"
	"github.com/nao1215/mailscrub/internal/markup"
	"github.com/nao1215/mailscrub/internal/model"
)

// Patterns shared by the cleanup passes. Matching is heuristic: anything
// these do not recognize is left alone.
var (
	hrefAttrPattern    = regexp.MustCompile(`(?i)href=["']([^"']*)["']`)
	srcAttrPattern     = regexp.MustCompile(`(?i)src=["']([^"']*)["']`)
	altAttrPattern     = regexp.MustCompile(`(?i)alt=["'][^"']*["']`)
	cssURLPattern      = regexp.MustCompile(`(?i)url\(['"]?[^'")\s]+['"]?\)`)
	bgImageDeclPattern = regexp.MustCompile(`(?i)background-image\s*:\s*[^;]+;`)

	imgTagPattern         = regexp.MustCompile(`(?i)<img\s[^>]*>`)
	styleDoublePattern    = regexp.MustCompile(`(?i)style="([^"]*)"`)
	styleSinglePattern    = regexp.MustCompile(`(?i)style='([^']*)'`)
	textRunPattern        = regexp.MustCompile(`>([^<>]*)<`)
	commentPattern        = regexp.MustCompile(`<!--[\s\S]*?-->`)
	commentURLPattern     = regexp.MustCompile(`https?://[^\s'"]+`)
	commentWWWPattern     = regexp.MustCompile(`www\.[^\s'"]+`)
	commentCSSURLPattern  = regexp.MustCompile(`url\(['"]?[^'")\s]+['"]?\)`)
	bgColorDeclPattern    = regexp.MustCompile(`(?i)background-color\s*:\s*[^;]+;`)
	bgColorAttrPattern    = regexp.MustCompile(`(?i)bgcolor\s*=\s*["'][^"']*["']`)
	borderDeclPattern     = regexp.MustCompile(`(?i)border\s*:\s*[^;]+;`)
	borderSideDeclPattern = map[string]*regexp.Regexp{}
)

const hiddenDeclaration = "display: none !important;"

var borderSides = []string{"top", "right", "bottom", "left"}

func init() {
	for _, side := range borderSides {
		borderSideDeclPattern[side] = regexp.MustCompile(`(?i)border-` + side + `(?:-[a-z]+)?\s*:\s*[^;]+;`)
	}
}

// StripAttributesStep blanks link, image and background references in the
// body. Hrefs equal to a configured link target survive. When an opens
// target is set, sources equal to it survive and tracking sources are
// pointed at it.
type StripAttributesStep struct {
	logger *slog.Logger
}

// NewStripAttributesStep creates a new strip attributes step.
func NewStripAttributesStep(logger *slog.Logger) *StripAttributesStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &StripAttributesStep{logger: logger}
}

// Name returns the step name.
func (s *StripAttributesStep) Name() string {
	return "strip_attributes"
}

// Do strips attributes when the flag is set.
func (s *StripAttributesStep) Do(_ context.Context, job *model.Job) error {
	if !job.Flags.StripAttributes {
		return nil
	}

	region := markup.SplitHead(job.Markup)
	body := region.Body
	keep := job.Targets.LinkTargets()
	opens := job.Targets.Opens

	body = replaceAllSubmatchFunc(hrefAttrPattern, body, func(groups []string) string {
		if slices.Contains(keep, groups[1]) {
			return groups[0]
		}
		return `href=""`
	})

	body = replaceAllSubmatchFunc(srcAttrPattern, body, func(groups []string) string {
		src := groups[1]
		switch {
		case opens == "":
			return `src=""`
		case src == opens:
			return groups[0]
		case classify.IsTrackingSource(src):
			return `src="` + opens + `"`
		default:
			return `src=""`
		}
	})

	body = altAttrPattern.ReplaceAllLiteralString(body, `alt=""`)
	body = cssURLPattern.ReplaceAllLiteralString(body, `url("")`)
	body = bgImageDeclPattern.ReplaceAllLiteralString(body, "background-image: none;")

	job.Markup = region.Join(body)
	return nil
}

// HideImagesStep adds "display: none !important;" to every image tag that
// is not a tracking pixel. Tags that already carry it are left as they are.
type HideImagesStep struct {
	logger *slog.Logger
}

// NewHideImagesStep creates a new hide images step.
func NewHideImagesStep(logger *slog.Logger) *HideImagesStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &HideImagesStep{logger: logger}
}

// Name returns the step name.
func (s *HideImagesStep) Name() string {
	return "hide_images"
}

// Do hides content images when the flag is set.
func (s *HideImagesStep) Do(_ context.Context, job *model.Job) error {
	if !job.Flags.HideImages {
		return nil
	}

	hidden := 0
	job.Markup = imgTagPattern.ReplaceAllStringFunc(job.Markup, func(tag string) string {
		attrs := markup.TagAttributes(tag)
		if classify.Image(classify.FromTag(attrs)) == model.ImageTrackingPixel {
			return tag
		}
		if strings.Contains(strings.ToLower(attrs["style"]), hiddenDeclaration) {
			return tag
		}
		hidden++
		return hideTag(tag)
	})

	s.logger.Debug("hid images", "count", hidden)
	return nil
}

// hideTag prepends the hidden declaration to the tag's style attribute, or
// adds a style attribute right after "<img" when there is none.
func hideTag(tag string) string {
	for _, pattern := range []*regexp.Regexp{styleDoublePattern, styleSinglePattern} {
		loc := pattern.FindStringSubmatchIndex(tag)
		if loc == nil {
			continue
		}
		return tag[:loc[2]] + hiddenDeclaration + " " + tag[loc[2]:]
	}
	return tag[:4] + ` style="` + hiddenDeclaration + `"` + tag[4:]
}

// StripVisibleTextStep empties every text run between two tags in the
// body, except inside script and style elements and comments. Conditional
// comments such as <!--[if mso]>...<![endif]--> keep their content.
type StripVisibleTextStep struct {
	logger *slog.Logger
}

// NewStripVisibleTextStep creates a new strip visible text step.
func NewStripVisibleTextStep(logger *slog.Logger) *StripVisibleTextStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &StripVisibleTextStep{logger: logger}
}

// Name returns the step name.
func (s *StripVisibleTextStep) Name() string {
	return "strip_visible_text"
}

// Do strips text runs when the flag is set.
//
// Whether a run sits inside script or style is decided from the text up to
// and including the run's opening ">", by comparing the last "<script"
// against the last "</script>" (and likewise for style and "<!--").
func (s *StripVisibleTextStep) Do(_ context.Context, job *model.Job) error {
	if !job.Flags.StripVisibleText {
		return nil
	}

	region := markup.SplitHead(job.Markup)
	body := region.Body
	lower := strings.ToLower(body)
	scripts := newTagSpans(lower, "<script", "</script>")
	styles := newTagSpans(lower, "<style", "</style>")
	comments := newTagSpans(body, "<!--", "-->")

	var sb strings.Builder
	sb.Grow(len(body))
	last := 0
	for _, loc := range textRunPattern.FindAllStringIndex(body, -1) {
		contextEnd := loc[0] + 1
		sb.WriteString(body[last:loc[0]])
		if scripts.inside(contextEnd) || styles.inside(contextEnd) || comments.inside(contextEnd) {
			sb.WriteString(body[loc[0]:loc[1]])
		} else {
			sb.WriteString("><")
		}
		last = loc[1]
	}
	sb.WriteString(body[last:])

	job.Markup = region.Join(sb.String())
	return nil
}

// ScrubCommentsStep removes URLs from the interior of every comment.
type ScrubCommentsStep struct {
	logger *slog.Logger
}

// NewScrubCommentsStep creates a new scrub comments step.
func NewScrubCommentsStep(logger *slog.Logger) *ScrubCommentsStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScrubCommentsStep{logger: logger}
}

// Name returns the step name.
func (s *ScrubCommentsStep) Name() string {
	return "scrub_comments"
}

// Do scrubs comments when the flag is set. The comment delimiters are
// never touched.
func (s *ScrubCommentsStep) Do(_ context.Context, job *model.Job) error {
	if !job.Flags.ScrubComments {
		return nil
	}

	job.Markup = commentPattern.ReplaceAllStringFunc(job.Markup, func(comment string) string {
		interior := comment[len("<!--") : len(comment)-len("-->")]
		interior = commentURLPattern.ReplaceAllLiteralString(interior, "")
		interior = commentWWWPattern.ReplaceAllLiteralString(interior, "")
		interior = commentCSSURLPattern.ReplaceAllLiteralString(interior, `url("")`)
		return "<!--" + interior + "-->"
	})
	return nil
}

// StripInlineStylesStep neutralizes background colors and borders in the
// whole document, head styles included.
type StripInlineStylesStep struct {
	logger *slog.Logger
}

// NewStripInlineStylesStep creates a new strip inline styles step.
func NewStripInlineStylesStep(logger *slog.Logger) *StripInlineStylesStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &StripInlineStylesStep{logger: logger}
}

// Name returns the step name.
func (s *StripInlineStylesStep) Name() string {
	return "strip_inline_styles"
}

// Do strips styles when the flag is set.
func (s *StripInlineStylesStep) Do(_ context.Context, job *model.Job) error {
	if !job.Flags.StripInlineStyles {
		return nil
	}

	m := job.Markup
	m = bgColorDeclPattern.ReplaceAllLiteralString(m, "background-color: transparent;")
	m = bgColorAttrPattern.ReplaceAllLiteralString(m, `bgcolor="transparent"`)
	m = borderDeclPattern.ReplaceAllLiteralString(m, "border: 0;")
	for _, side := range borderSides {
		m = borderSideDeclPattern[side].ReplaceAllLiteralString(m, "border-"+side+": 0;")
	}
	job.Markup = m
	return nil
}
