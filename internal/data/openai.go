package data

import (
	"context"
	"fmt"

	"github.com/coparenthq/feishu-moderator/internal/biz/repo"
	"github.com/coparenthq/feishu-moderator/internal/metrics"
	"github.com/coparenthq/feishu-moderator/llm"
)

// openaiRepo adapts the llm client to the classifier port
type openaiRepo struct {
	client *llm.Client
}

// NewOpenAIRepo creates a classifier repository backed by an OpenAI-compatible
// judge. Swapping providers means swapping this constructor; the pipeline,
// prompt, and decision logic stay untouched.
func NewOpenAIRepo(client *llm.Client) repo.ClassifierRepo {
	if client == nil {
		return nil
	}
	return &openaiRepo{client: client}
}

// ClassifyRaw asks the judge to evaluate one message
func (r *openaiRepo) ClassifyRaw(ctx context.Context, systemPrompt, text string) (string, error) {
	raw, err := r.client.Complete(ctx, systemPrompt, fmt.Sprintf("Evaluate this message: %s", text))
	if err != nil {
		kind := string(llm.ClassifyError(err))
		metrics.ClassifierErrorsTotal.WithLabelValues(kind).Inc()
		return "", &repo.ClassifierError{Kind: kind, Err: err}
	}
	return raw, nil
}
