package gemini

import (
	"context"
	"fmt"

	"portfolio_advisor/internal/chat"
	"portfolio_advisor/internal/models"
	"portfolio_advisor/internal/tools"

	"github.com/google/uuid"
	"google.golang.org/genai"
)

const systemPrompt = `You are a stock portfolio assistant. Answer questions
about the user's equity holdings using the available tools for any price,
risk, diversification or rebalancing figure instead of guessing numbers.
When a tool reports a failure, explain it to the user in plain language.`

// Client implements chat.ModelCaller on the Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

var _ chat.ModelCaller = (*Client)(nil)

// NewClient dials the Gemini API. The model name comes from configuration
// (GEMINI_MODEL), the key from GEMINI_API_KEY.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{client: c, model: model}, nil
}

// Complete maps the conversation and tool declarations onto one Gemini
// generation and extracts text plus ordered tool calls from the reply.
func (c *Client) Complete(ctx context.Context, history []models.Message, toolset []*tools.Spec) (*chat.ModelResponse, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
	}
	if len(toolset) > 0 {
		config.Tools = []*genai.Tool{{FunctionDeclarations: declarations(toolset)}}
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, toContents(history), config)
	if err != nil {
		return nil, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no candidates in model response")
	}

	out := &chat.ModelResponse{}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Thought {
			continue
		}
		if part.Text != "" {
			out.Text += part.Text
		}
		if part.FunctionCall != nil {
			id := part.FunctionCall.ID
			if id == "" {
				// Gemini may omit call ids; results still need a stable one.
				id = uuid.NewString()
			}
			out.ToolCalls = append(out.ToolCalls, models.ToolCall{
				ID:   id,
				Name: part.FunctionCall.Name,
				Args: part.FunctionCall.Args,
			})
		}
	}
	return out, nil
}

// toContents converts the neutral message history into Gemini contents.
// Tool results need the originating function name, which lives on the
// preceding assistant message, so calls are tracked while walking.
func toContents(history []models.Message) []*genai.Content {
	callNames := make(map[string]string)
	contents := make([]*genai.Content, 0, len(history))

	for _, msg := range history {
		switch msg.Role {
		case models.RoleUser:
			contents = append(contents, &genai.Content{
				Role:  genai.RoleUser,
				Parts: []*genai.Part{{Text: msg.Text}},
			})

		case models.RoleAssistant:
			parts := make([]*genai.Part, 0, 1+len(msg.ToolCalls))
			if msg.Text != "" {
				parts = append(parts, &genai.Part{Text: msg.Text})
			}
			for _, call := range msg.ToolCalls {
				callNames[call.ID] = call.Name
				parts = append(parts, &genai.Part{FunctionCall: &genai.FunctionCall{
					ID:   call.ID,
					Name: call.Name,
					Args: call.Args,
				}})
			}
			if len(parts) == 0 {
				continue
			}
			contents = append(contents, &genai.Content{Role: genai.RoleModel, Parts: parts})

		case models.RoleTool:
			contents = append(contents, &genai.Content{
				Role: genai.RoleUser,
				Parts: []*genai.Part{{FunctionResponse: &genai.FunctionResponse{
					ID:       msg.CallID,
					Name:     callNames[msg.CallID],
					Response: map[string]any{"content": msg.Text},
				}}},
			})
		}
	}
	return contents
}

// declarations converts tool specs into Gemini function declarations.
func declarations(toolset []*tools.Spec) []*genai.FunctionDeclaration {
	out := make([]*genai.FunctionDeclaration, 0, len(toolset))
	for _, spec := range toolset {
		properties := make(map[string]*genai.Schema, len(spec.Params))
		var required []string
		for _, p := range spec.Params {
			properties[p.Name] = paramSchema(p)
			if p.Required {
				required = append(required, p.Name)
			}
		}
		out = append(out, &genai.FunctionDeclaration{
			Name:        spec.Name,
			Description: spec.Description,
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: properties,
				Required:   required,
			},
		})
	}
	return out
}

func paramSchema(p tools.Param) *genai.Schema {
	switch p.Kind {
	case tools.KindTickerList:
		return &genai.Schema{
			Type:        genai.TypeArray,
			Description: p.Description,
			Items:       &genai.Schema{Type: genai.TypeString},
		}
	case tools.KindPortfolio:
		return &genai.Schema{
			Type:        genai.TypeObject,
			Description: p.Description,
		}
	default:
		return &genai.Schema{
			Type:        genai.TypeString,
			Description: p.Description,
		}
	}
}
