// Package analyzer computes descriptive counts of a markup document.
//
// Analyze is pure: it parses a fresh markup.Document on every call and shares
// no state between calls, so callers may invoke it on every input change and
// from any number of goroutines. Coalescing bursts of calls (debouncing) is
// the caller's concern; see the watch package.
package analyzer
