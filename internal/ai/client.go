// Package ai abstracts the chat-completion providers the dialogue uses for
// natural-language date inference and structured extraction.
package ai

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a chat exchange.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a provider-neutral chat completion request. Model is a hint;
// providers fall back to their configured default when it is empty.
type Request struct {
	Model       string
	Messages    []Message
	Temperature float32
	MaxTokens   int32
}

// Response carries the raw model output. The dialogue treats Text as opaque;
// the extraction path additionally expects it to parse as JSON.
type Response struct {
	Text       string
	StopReason string
}

// Client is implemented by each chat provider.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}
