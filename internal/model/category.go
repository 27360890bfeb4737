package model

// LinkCategory is the derived purpose of an anchor element.
// Exactly one category applies to every link; it is never stored on the
// document, only computed from the link's href and visible text.
//
// Design decision: We use iota-based constants rather than string constants
// so the zero value is the safe default (Unclassified, never rewritten).
// The String() method provides human-readable output when needed.
type LinkCategory int

const (
	// LinkUnclassified is an ordinary link, or one without an href.
	// Unclassified links are never rewritten.
	LinkUnclassified LinkCategory = iota

	// LinkClick is an outbound link that records engagement before
	// redirecting to content.
	LinkClick

	// LinkOptOut reduces future messaging.
	LinkOptOut

	// LinkUnsubscribe stops future messaging.
	LinkUnsubscribe
)

// String returns a human-readable representation of the link category.
func (c LinkCategory) String() string {
	switch c {
	case LinkUnclassified:
		return "unclassified"
	case LinkClick:
		return "click"
	case LinkOptOut:
		return "opt-out"
	case LinkUnsubscribe:
		return "unsubscribe"
	default:
		return "unknown"
	}
}

// ImageCategory is the derived purpose of an image element.
type ImageCategory int

const (
	// ImageContent is an ordinary, visible image.
	ImageContent ImageCategory = iota

	// ImageTrackingPixel is a near-invisible image used to detect whether
	// and when a message was opened.
	ImageTrackingPixel
)

// String returns a human-readable representation of the image category.
func (c ImageCategory) String() string {
	switch c {
	case ImageContent:
		return "content"
	case ImageTrackingPixel:
		return "tracking-pixel"
	default:
		return "unknown"
	}
}
