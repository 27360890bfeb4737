package classify

import (
	"github.com/nao1215/mailscrub/internal/markup"
	"github.com/nao1215/mailscrub/internal/model"
)

// ImageAttributes are the observed attributes of an image.
type ImageAttributes struct {
	Width  string
	Height string
	Style  string
	Src    string
}

// hiddenStyles are inline style fragments that make an image invisible.
// They are matched literally, without whitespace normalization.
var hiddenStyles = []string{"display:none", "visibility:hidden", "opacity:0"}

// trackingSourceSignals are source URL fragments typical of open trackers.
var trackingSourceSignals = []string{"/track", "/open", "/pixel", "beacon"}

// Image classifies an image as a tracking pixel or content.
func Image(attrs ImageAttributes) model.ImageCategory {
	if isPixelDimension(attrs.Width) || isPixelDimension(attrs.Height) ||
		containsAny(attrs.Style, hiddenStyles) ||
		IsTrackingSource(attrs.Src) {
		return model.ImageTrackingPixel
	}
	return model.ImageContent
}

// IsTrackingSource reports whether an image source URL looks like an open
// tracker. It is also used on its own when stripping attributes, where only
// the raw source value is available.
func IsTrackingSource(src string) bool {
	return containsAny(src, trackingSourceSignals)
}

// FromMarkup converts a parsed image into classifier input.
func FromMarkup(img markup.Image) ImageAttributes {
	return ImageAttributes{
		Width:  img.Width,
		Height: img.Height,
		Style:  img.Style,
		Src:    img.Src,
	}
}

// FromTag converts tokenized start-tag attributes into classifier input.
func FromTag(attrs map[string]string) ImageAttributes {
	return ImageAttributes{
		Width:  attrs["width"],
		Height: attrs["height"],
		Style:  attrs["style"],
		Src:    attrs["src"],
	}
}

// isPixelDimension reports a declared dimension of exactly "0" or "1".
func isPixelDimension(v string) bool {
	return v == "0" || v == "1"
}
