// Package pipeline rewrites markup through an ordered set of passes.
//
// The transform is modeled as a Pipeline of Steps executed in a fixed order:
//
//  1. link_redirect        click/opt-out/unsubscribe hrefs → configured targets
//  2. open_tracking        tracking pixel sources → opens target, or inject one
//  3. strip_attributes     blank href/src/alt and CSS url() in the body
//  4. hide_images          add "display: none !important;" to non-pixel images
//  5. strip_visible_text   blank text between tags outside script/style
//  6. scrub_comments       remove URLs from comments
//  7. strip_inline_styles  neutralize background colors and borders
//
// Design decision: We use a pipeline pattern instead of direct function calls
// because:
// 1. Every pass is independently toggleable and must never skip later passes
// 2. It provides consistent logging across passes
// 3. The order is a visible, testable value (StepNames)
//
// Passes rewrite the raw markup text, not a tree. A pass that needs structure
// (link classification, image classification) parses a fresh markup.Document
// from the current intermediate text. Nothing structural is cached across a
// text mutation, so later passes never act on stale results.
//
// All passes are total functions over arbitrary strings. A heuristic miss
// (an href with unusual quoting, a tag the pattern does not recognize) is a
// silent no-op. The only failure is ErrEmptyInput, reported before any pass
// runs.
//
// The BatchProcessor applies one configuration to many documents
// concurrently using errgroup.
package pipeline
