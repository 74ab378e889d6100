package models

// Role identifies who produced a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is a structured function invocation requested by the model.
// Arguments come straight from the model and are untrusted until the
// registry validates them.
type ToolCall struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// Message is one entry in a conversation's append-only history.
//
// User messages carry Text only. Assistant messages carry Text and the
// ordered tool calls the model requested. Tool messages carry the serialized
// result and the CallID of the request they answer.
type Message struct {
	Role      Role       `json:"role"`
	Text      string     `json:"text,omitempty"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	CallID    string     `json:"call_id,omitempty"`
}

// UserMessage builds a user turn.
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Text: text}
}

// AssistantMessage builds an assistant turn, preserving tool-call order.
func AssistantMessage(text string, calls []ToolCall) Message {
	return Message{Role: RoleAssistant, Text: text, ToolCalls: calls}
}

// ToolResult builds the reply to a single tool call.
func ToolResult(callID, content string) Message {
	return Message{Role: RoleTool, CallID: callID, Text: content}
}
