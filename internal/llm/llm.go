// Copyright 2026 The Scouteval Authors
// SPDX-License-Identifier: MIT

// Package llm provides a provider-agnostic LLM client interface, an Anthropic
// implementation, and the structured-output call used by the generators.
package llm

import "context"

// Provider abstracts an LLM API behind a single synchronous completion method.
type Provider interface {
	// Complete sends a conversation to the LLM and returns the reply.
	// Implementations must respect context cancellation and deadlines.
	Complete(ctx context.Context, req Request) (*Response, error)
}

// Role tags a chat message with its speaker.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single role-tagged chat turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UserMessage is shorthand for a user turn.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// Request describes a single completion request.
type Request struct {
	// Messages is the ordered conversation. System messages anywhere in the
	// list are folded into the provider's system instruction.
	Messages []Message

	// Prompt is appended as a final user message when set. It exists for
	// single-turn callers that do not build a Messages list.
	Prompt string

	// Model overrides the provider's default model. If empty, the provider
	// uses its configured default.
	Model string

	// MaxTokens limits the response length. If zero, the provider uses its
	// own default.
	MaxTokens int

	// Temperature controls randomness. If nil, the provider uses its default.
	Temperature *float64

	// SystemPrompt sets the system instruction for the completion.
	SystemPrompt string
}

// Conversation returns the request's messages with Prompt appended as a user
// turn when present.
func (r Request) Conversation() []Message {
	out := make([]Message, 0, len(r.Messages)+1)
	out = append(out, r.Messages...)
	if r.Prompt != "" {
		out = append(out, UserMessage(r.Prompt))
	}
	return out
}

// Response holds the result of a completion call.
type Response struct {
	// Content is the text returned by the model.
	Content string

	// Model is the model that actually served the request (may differ from
	// the requested model if the provider remapped it).
	Model string

	// Usage reports token consumption.
	Usage Usage
}

// Usage tracks input and output token counts for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}
