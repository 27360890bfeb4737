// Package markup provides a read-only structural view over an HTML string.
//
// # Architecture
//
// A Document wraps the markup it was parsed from and exposes tree queries
// (links, images, styled elements, comments) plus the literal head region.
// The tree is derived once at Parse time and never mutated. Callers that
// rewrite the markup text must call Parse again on the new text; no query
// result stays valid across a text mutation.
//
// Design decision: We use goquery on top of golang.org/x/net/html rather than
// regex for the structural queries because:
//  1. The HTML5 parser handles the malformed markup common in email templates
//  2. Selector queries keep each projection to a single line
//  3. Text content and ancestry (is this anchor inside <head>?) come for free
//
// The literal helpers (Head, SplitHead, TagAttributes) operate on the raw
// text instead, because the transform passes rewrite text, not nodes.
//
// # Failure behavior
//
// Parse never fails. Unrecognizable elements are simply absent from query
// results.
package markup
