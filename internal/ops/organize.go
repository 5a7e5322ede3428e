package ops

import (
	"context"

	"github.com/hpungsan/turbobar/internal/capture"
)

// OrganizeInput contains parameters for the Organize operation.
type OrganizeInput struct {
	Draft capture.Draft
}

// OrganizeOutput contains the classified capture.
type OrganizeOutput struct {
	Result capture.Result `json:"result"`
}

// Organize classifies a draft without writing anything.
func Organize(ctx context.Context, env *Env, input OrganizeInput) (*OrganizeOutput, error) {
	if err := validateDraft(input.Draft); err != nil {
		return nil, err
	}

	result, err := env.Organizer.Classify(ctx, capture.SanitizeDraft(input.Draft))
	if err != nil {
		return nil, err
	}
	return &OrganizeOutput{Result: *result}, nil
}
