package model

// Job is the unit of work a transform pipeline mutates.
// A Job is created for a single apply call and never shared between runs;
// each step reads Markup, rewrites it, and stores the result back.
type Job struct {
	// Markup is the current intermediate markup text.
	Markup string

	// Targets are the redirect targets for this run.
	Targets RedirectTargets

	// Flags are the cleanup toggles for this run.
	Flags CleanupFlags

	// PerformedSteps lists the names of the steps that ran, in order.
	PerformedSteps []string
}

// NewJob creates a Job for the given input and configuration.
func NewJob(markup string, targets RedirectTargets, flags CleanupFlags) *Job {
	return &Job{
		Markup:         markup,
		Targets:        targets,
		Flags:          flags,
		PerformedSteps: make([]string, 0, 7),
	}
}
