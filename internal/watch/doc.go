// Package watch re-analyzes an HTML file whenever it changes on disk.
//
// Editors often save by writing a temporary file and renaming it over the
// original, which drops a watch placed on the file itself. The Watcher
// therefore watches the file's directory and filters events by name.
//
// Bursts of events (one save can emit several writes) are collapsed by a
// Debouncer: analysis runs once the file has been quiet for the debounce
// delay, 250ms by default.
package watch
