package model

// CleanupFlags toggles the destructive cleanup passes.
// Every flag is independent; the zero value disables all of them.
type CleanupFlags struct {
	// StripAttributes blanks href, src and alt values and CSS url()
	// references in the body, preserving configured targets.
	StripAttributes bool `yaml:"stripAttributes,omitempty" json:"strip_attributes"`

	// HideImages adds "display: none !important;" to every non-pixel image.
	HideImages bool `yaml:"hideImages,omitempty" json:"hide_images"`

	// StripVisibleText erases text between tags outside script and style.
	StripVisibleText bool `yaml:"stripVisibleText,omitempty" json:"strip_visible_text"`

	// ScrubComments removes URLs from comment text.
	ScrubComments bool `yaml:"scrubComments,omitempty" json:"scrub_comments"`

	// StripInlineStyles neutralizes background colors and borders.
	StripInlineStyles bool `yaml:"stripInlineStyles,omitempty" json:"strip_inline_styles"`
}

// Enabled returns the names of the enabled flags, for logging.
func (f CleanupFlags) Enabled() []string {
	names := make([]string, 0, 5)
	if f.StripAttributes {
		names = append(names, "strip-attributes")
	}
	if f.HideImages {
		names = append(names, "hide-images")
	}
	if f.StripVisibleText {
		names = append(names, "strip-text")
	}
	if f.ScrubComments {
		names = append(names, "scrub-comments")
	}
	if f.StripInlineStyles {
		names = append(names, "strip-styles")
	}
	return names
}

// Merge returns the logical OR of f and other.
func (f CleanupFlags) Merge(other CleanupFlags) CleanupFlags {
	return CleanupFlags{
		StripAttributes:   f.StripAttributes || other.StripAttributes,
		HideImages:        f.HideImages || other.HideImages,
		StripVisibleText:  f.StripVisibleText || other.StripVisibleText,
		ScrubComments:     f.ScrubComments || other.ScrubComments,
		StripInlineStyles: f.StripInlineStyles || other.StripInlineStyles,
	}
}
