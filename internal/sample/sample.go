// Package sample provides a representative marketing newsletter used by the
// init command and by tests.
package sample

import _ "embed"

// Newsletter is a small marketing email with two click links, one opt-out
// link, one unsubscribe link, a content image, a CSS background image, a
// hidden tracking pixel, two comments and a stylesheet link in head.
//
//go:embed newsletter.html
var Newsletter string
