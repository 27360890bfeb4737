// Package model defines the core data structures used throughout mailscrub.
//
// This package contains the following main types:
//   - LinkCategory / ImageCategory: derived classification results
//   - RedirectTargets: where each link category and the open pixel are sent
//   - CleanupFlags: the independent destructive cleanup toggles
//   - AnalysisCounts: descriptive counts of a markup document
//   - Job: the unit of work a transform pipeline mutates
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The classifier, analyzer, pipeline, session store and report
// writers all share these types, so centralizing them prevents import cycles.
//
// Configuration records are plain values passed as parameters. Nothing in this
// package holds process-wide state.
package model
