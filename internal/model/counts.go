package model

// AnalysisCounts holds descriptive counts of a markup document.
// All values are derived in a single analysis pass and never updated
// incrementally.
type AnalysisCounts struct {
	// ClickLinks is the number of links classified as click tracking.
	ClickLinks int `json:"click_links"`

	// OptOutLinks is the number of opt-out links.
	OptOutLinks int `json:"opt_out_links"`

	// UnsubLinks is the number of unsubscribe links.
	UnsubLinks int `json:"unsub_links"`

	// ContentImages counts visible images plus elements carrying a CSS
	// background image.
	ContentImages int `json:"content_images"`

	// TrackingPixels is the number of images classified as tracking pixels.
	TrackingPixels int `json:"tracking_pixels"`

	// CommentNodes is the number of comment nodes in the document tree.
	CommentNodes int `json:"comment_nodes"`
}

// Total returns the sum of all counts.
func (c AnalysisCounts) Total() int {
	return c.ClickLinks + c.OptOutLinks + c.UnsubLinks +
		c.ContentImages + c.TrackingPixels + c.CommentNodes
}

// IsZero reports whether every count is zero.
func (c AnalysisCounts) IsZero() bool {
	return c == AnalysisCounts{}
}

// AddLink increments the counter for the given link category.
// Unclassified links are not counted.
func (c *AnalysisCounts) AddLink(category LinkCategory) {
	switch category {
	case LinkClick:
		c.ClickLinks++
	case LinkOptOut:
		c.OptOutLinks++
	case LinkUnsubscribe:
		c.UnsubLinks++
	case LinkUnclassified:
	}
}

// AddImage increments the counter for the given image category.
func (c *AnalysisCounts) AddImage(category ImageCategory) {
	switch category {
	case ImageTrackingPixel:
		c.TrackingPixels++
	case ImageContent:
		c.ContentImages++
	}
}
