// Package classify decides what a link or image "is".
//
// Classification is a set of cascading boolean rules, not a scoring system.
// Link rules are evaluated top-down and the first match wins:
//
//	Click > OptOut > Unsubscribe > Unclassified
//
// This precedence is a contract. A link that carries both click and opt-out
// signals is a click link, and changing the order changes which target it is
// redirected to.
//
// Image classification is disjunctive: one weak signal (a 1px dimension, a
// hiding style, a tracking-looking source) is enough to call an image a
// tracking pixel.
//
// All functions are pure and total.
package classify
