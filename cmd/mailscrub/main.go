// Package main provides the entry point for the mailscrub CLI.
//
// mailscrub neutralizes the tracking machinery of marketing email. It
// classifies links and images in an HTML message, redirects click, opt-out
// and unsubscribe links and the open tracking pixel to destinations you
// choose, and can strip the remaining identifying content.
//
// Usage:
//
//	mailscrub analyze newsletter.html
//	mailscrub apply --click https://safe.example/c newsletter.html
//	mailscrub undo
//
// See --help for all available options.
package main

// main is the entry point for mailscrub.
func main() {
	Execute()
}
