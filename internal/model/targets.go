package model

// RedirectTargets holds the replacement URLs for each rewritable category.
// An empty field means "do not rewrite this category".
//
// Targets are inserted verbatim into attribute values, so later passes can
// recognize them textually (see config.ErrInvalidTarget for the characters
// that are rejected before a target reaches the pipeline).
type RedirectTargets struct {
	// Click replaces the href of every click-tracking link.
	Click string `yaml:"click,omitempty" json:"click,omitempty"`

	// OptOut replaces the href of every opt-out link.
	OptOut string `yaml:"optOut,omitempty" json:"opt_out,omitempty"`

	// Unsubscribe replaces the href of every unsubscribe link.
	Unsubscribe string `yaml:"unsubscribe,omitempty" json:"unsubscribe,omitempty"`

	// Opens replaces the source of every tracking pixel, or is injected as a
	// new pixel when the document has none.
	Opens string `yaml:"opens,omitempty" json:"opens,omitempty"`
}

// HasLinkTargets reports whether any link category has a target.
func (t RedirectTargets) HasLinkTargets() bool {
	return t.Click != "" || t.OptOut != "" || t.Unsubscribe != ""
}

// LinkTargets returns the configured link targets in click, opt-out,
// unsubscribe order. Unset targets are omitted.
func (t RedirectTargets) LinkTargets() []string {
	targets := make([]string, 0, 3)
	for _, v := range []string{t.Click, t.OptOut, t.Unsubscribe} {
		if v != "" {
			targets = append(targets, v)
		}
	}
	return targets
}

// ForLink returns the target configured for the given link category,
// or "" when the category has none.
func (t RedirectTargets) ForLink(c LinkCategory) string {
	switch c {
	case LinkClick:
		return t.Click
	case LinkOptOut:
		return t.OptOut
	case LinkUnsubscribe:
		return t.Unsubscribe
	default:
		return ""
	}
}

// Merge returns t with every empty field filled from fallback.
func (t RedirectTargets) Merge(fallback RedirectTargets) RedirectTargets {
	result := t
	if result.Click == "" {
		result.Click = fallback.Click
	}
	if result.OptOut == "" {
		result.OptOut = fallback.OptOut
	}
	if result.Unsubscribe == "" {
		result.Unsubscribe = fallback.Unsubscribe
	}
	if result.Opens == "" {
		result.Opens = fallback.Opens
	}
	return result
}
