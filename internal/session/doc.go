// Package session keeps the state around repeated apply runs.
//
// Two forms are provided:
//   - Session: an in-memory, mutex-serialized holder of the last input, the
//     last output and a single undo slot. Library callers own one.
//   - Store: a SQLite database (via modernc.org/sqlite) holding named
//     sessions and a history of runs, so that separate CLI invocations can
//     undo and reset.
//
// The undo slot holds the output shown before the most recent apply, or
// that apply's input when nothing had been output yet. Undo restores it and
// keeps it, so undoing twice yields the same document.
//
// Design decision: We use SQLite rather than a flat state file because:
// 1. Session updates are atomic through a transaction
// 2. The run history is queryable by session
// 3. CGO-free modernc.org/sqlite keeps cross-compilation easy
//
// Documents are not stored in the run history. Runs record SHA3-256 digests
// of input and output so a document can be matched to a run without
// keeping a second copy of it.
package session
