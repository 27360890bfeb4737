package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"testing"

	"github.com/nao1215/mailscrub/internal/model"
)

// mockStep is a test helper that implements the Step interface.
type mockStep struct {
	name      string
	doFunc    func(ctx context.Context, job *model.Job) error
	callCount int
}

// Do implements Step.Do.
func (m *mockStep) Do(ctx context.Context, job *model.Job) error {
	m.callCount++
	if m.doFunc != nil {
		return m.doFunc(ctx, job)
	}
	return nil
}

// Name implements Step.Name.
func (m *mockStep) Name() string {
	return m.name
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestPipelineNew tests the Pipeline constructor.
func TestPipelineNew(t *testing.T) {
	t.Parallel()

	t.Run("creates pipeline with default settings", func(t *testing.T) {
		t.Parallel()

		p := New()

		if p == nil {
			t.Fatal("expected non-nil pipeline")
		}
		if p.StepCount() != 0 {
			t.Errorf("expected 0 steps, got %d", p.StepCount())
		}
	})
}

// TestDefaultPipeline tests the fixed pass order.
func TestDefaultPipeline(t *testing.T) {
	t.Parallel()

	p := DefaultPipeline(WithLogger(quietLogger()))

	want := []string{
		"link_redirect",
		"open_tracking",
		"strip_attributes",
		"hide_images",
		"strip_visible_text",
		"scrub_comments",
		"strip_inline_styles",
	}
	if got := p.StepNames(); !slices.Equal(got, want) {
		t.Errorf("StepNames() = %v, want %v", got, want)
	}
}

// TestPipelineExecute tests step execution.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("executes steps in order", func(t *testing.T) {
		t.Parallel()

		var order []string
		p := New(WithLogger(quietLogger()))
		for _, name := range []string{"first", "second", "third"} {
			p.AddStep(&mockStep{
				name: name,
				doFunc: func(_ context.Context, job *model.Job) error {
					order = append(order, name)
					job.Markup += name
					return nil
				},
			})
		}

		job := model.NewJob("<p>", model.RedirectTargets{}, model.CleanupFlags{})
		if err := p.Execute(context.Background(), job); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !slices.Equal(order, []string{"first", "second", "third"}) {
			t.Errorf("unexpected order: %v", order)
		}
		if job.Markup != "<p>firstsecondthird" {
			t.Errorf("unexpected markup: %q", job.Markup)
		}
		if !slices.Equal(job.PerformedSteps, order) {
			t.Errorf("PerformedSteps = %v", job.PerformedSteps)
		}
	})

	t.Run("rejects empty input before any step", func(t *testing.T) {
		t.Parallel()

		step := &mockStep{name: "never"}
		p := New(WithLogger(quietLogger()))
		p.AddStep(step)

		err := p.Execute(context.Background(), model.NewJob("", model.RedirectTargets{}, model.CleanupFlags{}))

		if !errors.Is(err, ErrEmptyInput) {
			t.Errorf("expected ErrEmptyInput, got %v", err)
		}
		if step.callCount != 0 {
			t.Errorf("expected step not to run, ran %d times", step.callCount)
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		expectedErr := errors.New("step failed")
		failing := &mockStep{name: "failing", doFunc: func(context.Context, *model.Job) error { return expectedErr }}
		after := &mockStep{name: "after"}

		p := New(WithLogger(quietLogger()))
		p.AddSteps(failing, after)

		err := p.Execute(context.Background(), model.NewJob("x", model.RedirectTargets{}, model.CleanupFlags{}))

		if !errors.Is(err, expectedErr) {
			t.Errorf("expected %v, got %v", expectedErr, err)
		}
		if after.callCount != 0 {
			t.Error("expected second step not to run")
		}
	})

	t.Run("cancelled context fails before start", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		step := &mockStep{name: "never"}
		p := New(WithLogger(quietLogger()))
		p.AddStep(step)

		err := p.Execute(ctx, model.NewJob("x", model.RedirectTargets{}, model.CleanupFlags{}))

		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if step.callCount != 0 {
			t.Error("expected step not to run")
		}
	})

	t.Run("does not interrupt a started run", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		first := &mockStep{name: "cancels", doFunc: func(context.Context, *model.Job) error {
			cancel()
			return nil
		}}
		second := &mockStep{name: "still-runs"}

		p := New(WithLogger(quietLogger()))
		p.AddSteps(first, second)

		if err := p.Execute(ctx, model.NewJob("x", model.RedirectTargets{}, model.CleanupFlags{})); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if second.callCount != 1 {
			t.Error("expected second step to run after cancellation")
		}
	})
}
