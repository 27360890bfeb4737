package pipeline

import (
	"context"

	"github.com/nao1215/mailscrub/internal/model"
)

// Apply rewrites markup with the default pipeline and returns the result.
// It returns ErrEmptyInput, without running any pass, when markup is empty.
func Apply(markup string, targets model.RedirectTargets, flags model.CleanupFlags, opts ...Option) (string, error) {
	job := model.NewJob(markup, targets, flags)
	if err := DefaultPipeline(opts...).Execute(context.Background(), job); err != nil {
		return "", err
	}
	return job.Markup, nil
}
