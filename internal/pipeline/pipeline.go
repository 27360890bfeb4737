package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/mailscrub/internal/model"
)

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, each receiving the job as left by the
// previous step.
//
// Design decision: We use an interface rather than function types because:
// 1. It allows steps to carry a logger
// 2. It provides a Name() method for logging and debugging
// 3. Tests can substitute recording steps
type Step interface {
	// Do executes the step, rewriting job.Markup in place.
	// The built-in steps never return an error.
	Do(ctx context.Context, job *model.Job) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline and its default steps.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options and no steps.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// DefaultPipeline creates a pipeline with the seven transform passes in
// their fixed order.
func DefaultPipeline(opts ...Option) *Pipeline {
	p := New(opts...)
	p.AddSteps(
		NewLinkRedirectStep(p.logger),
		NewOpenTrackingStep(p.logger),
		NewStripAttributesStep(p.logger),
		NewHideImagesStep(p.logger),
		NewStripVisibleTextStep(p.logger),
		NewScrubCommentsStep(p.logger),
		NewStripInlineStylesStep(p.logger),
	)
	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence.
//
// Design decision: The context is checked once, before the first step, and
// never between steps. A run either fails before it starts (empty input,
// cancelled context) or runs to completion, so a caller never observes a
// half-transformed document.
func (p *Pipeline) Execute(ctx context.Context, job *model.Job) error {
	if job.Markup == "" {
		return ErrEmptyInput
	}
	if err := ctx.Err(); err != nil {
		p.logger.Warn("pipeline cancelled before start", "reason", err)
		return err
	}

	p.logger.Debug("starting transform",
		"bytes", len(job.Markup),
		"click_target", job.Targets.Click,
		"opt_out_target", job.Targets.OptOut,
		"unsubscribe_target", job.Targets.Unsubscribe,
		"opens_target", job.Targets.Opens,
		"cleanup", job.Flags.Enabled(),
	)

	for _, step := range p.steps {
		before := len(job.Markup)

		if err := step.Do(ctx, job); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"error", err,
			)
			return err
		}

		p.logger.Debug("step completed",
			"step", step.Name(),
			"bytes_before", before,
			"bytes_after", len(job.Markup),
		)

		job.PerformedSteps = append(job.PerformedSteps, step.Name())
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
