package chat

import (
	"context"
	"fmt"
	"log"
	"sync"

	"portfolio_advisor/internal/models"
	"portfolio_advisor/internal/tools"
)

// State tracks where a conversation is inside a turn. Terminal per turn is
// StateIdle; the mutex guarantees callers only ever observe StateIdle.
type State string

const (
	StateIdle          State = "idle"
	StateAwaitingModel State = "awaiting_model"
	StateAwaitingTools State = "awaiting_tools"
)

// Conversation owns one chat's append-only message history and its active
// portfolio. One mutex serializes turns: two HandleTurn calls on the same
// conversation never interleave, which keeps tool results aligned with the
// tool calls that produced them. Independent conversations share nothing.
type Conversation struct {
	mu        sync.Mutex
	model     ModelCaller
	registry  *tools.Registry
	messages  []models.Message
	portfolio models.Portfolio
	state     State
}

// New returns an empty conversation.
func New(model ModelCaller, registry *tools.Registry) *Conversation {
	return &Conversation{model: model, registry: registry, state: StateIdle}
}

// HandleTurn runs one full request/tool-call/response cycle and returns the
// assistant's reply text.
//
// If the user text describes holdings ("10 AAPL and 5 MSFT"), the active
// portfolio is replaced wholesale first: the spoken value is authoritative,
// never merged. Tool failures are folded into the history as data; a model
// failure rolls the history back to just after the user message and is
// returned to the caller.
func (c *Conversation) HandleTurn(ctx context.Context, text string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer func() { c.state = StateIdle }()

	if extracted := models.ParsePortfolio(text); extracted != nil {
		c.portfolio = extracted
		log.Printf("portfolio replaced from message: %s", extracted)
	}

	c.messages = append(c.messages, models.UserMessage(text))
	mark := len(c.messages)

	c.state = StateAwaitingModel
	resp, err := c.model.Complete(ctx, c.snapshot(), c.registry.Specs())
	if err != nil {
		c.messages = c.messages[:mark]
		return "", fmt.Errorf("%w: %v", ErrModelCall, err)
	}

	// Simple Q&A turn: no tools requested.
	if len(resp.ToolCalls) == 0 {
		c.messages = append(c.messages, models.AssistantMessage(resp.Text, nil))
		return resp.Text, nil
	}

	c.messages = append(c.messages, models.AssistantMessage(resp.Text, resp.ToolCalls))

	// Resolve each request in the order received, appending every result
	// before dispatching the next. The history stays prefix-consistent even
	// if a later tool fails.
	c.state = StateAwaitingTools
	for _, call := range resp.ToolCalls {
		content := c.registry.Dispatch(ctx, call.Name, call.Args, c.portfolio)
		c.messages = append(c.messages, models.ToolResult(call.ID, content))
	}

	c.state = StateAwaitingModel
	final, err := c.model.Complete(ctx, c.snapshot(), c.registry.Specs())
	if err != nil {
		c.messages = c.messages[:mark]
		return "", fmt.Errorf("%w: %v", ErrModelCall, err)
	}

	c.messages = append(c.messages, models.AssistantMessage(final.Text, final.ToolCalls))
	return final.Text, nil
}

// SeedPortfolio installs a starting portfolio and opens the conversation
// with a message stating it, so the model knows the holdings up front.
func (c *Conversation) SeedPortfolio(p models.Portfolio) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(p) == 0 {
		return
	}
	c.portfolio = p.Clone()
	c.messages = append(c.messages, models.UserMessage(fmt.Sprintf("My portfolio is %s", p)))
}

// SetPortfolio replaces the active portfolio wholesale. Tools read the
// portfolio; only these explicit conversation operations write it.
func (c *Conversation) SetPortfolio(p models.Portfolio) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.portfolio = p.Clone()
}

// Portfolio returns a copy of the active portfolio.
func (c *Conversation) Portfolio() models.Portfolio {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.portfolio.Clone()
}

// History returns a copy of the message sequence.
func (c *Conversation) History() []models.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// State reports the current turn phase.
func (c *Conversation) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == "" {
		return StateIdle
	}
	return c.state
}

// Reset clears the message sequence and the portfolio atomically: both
// clear under the same lock, or neither does.
func (c *Conversation) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = nil
	c.portfolio = nil
	c.state = StateIdle
}

// snapshot copies the history so collaborators never see later appends.
// Callers must hold the mutex.
func (c *Conversation) snapshot() []models.Message {
	out := make([]models.Message, len(c.messages))
	copy(out, c.messages)
	return out
}
