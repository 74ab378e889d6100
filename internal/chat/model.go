package chat

import (
	"context"
	"errors"

	"portfolio_advisor/internal/models"
	"portfolio_advisor/internal/tools"
)

// ErrModelCall marks a failure of the model collaborator itself. Unlike tool
// failures it is fatal to the turn: the conversation rolls back and the error
// surfaces to the caller, not to the model.
var ErrModelCall = errors.New("model call failed")

// ModelResponse is what one completion yields: free text and zero or more
// tool-call requests, in the order the model issued them.
type ModelResponse struct {
	Text      string
	ToolCalls []models.ToolCall
}

// ModelCaller is the language-model collaborator. It maps the conversation
// so far, plus the available tool declarations, to a response. It must apply
// its own timeout and return an error rather than hang.
type ModelCaller interface {
	Complete(ctx context.Context, history []models.Message, toolset []*tools.Spec) (*ModelResponse, error)
}
