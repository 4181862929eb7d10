// Copyright 2026 The Scouteval Authors
// SPDX-License-Identifier: MIT

// Package chat wraps an llm.Provider as the football scouting assistant.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/davetashner/scouteval/internal/llm"
)

// SystemPrompt is prepended to every conversation that does not already
// open with a system message.
const SystemPrompt = `
### Role ###
You're a helpful football scouting analyst.
### Instructions ###
Provide detailed specifications about players based on the user query.
Your responses should be concise, informative, and relevant to the query.
### output ###
Your output should be in markdown format, structured with headings and bullet points where appropriate.
`

// ErrEmptyReply is returned when the model answers with only whitespace.
var ErrEmptyReply = errors.New("chat: empty reply")

// Agent holds the provider and per-request settings for scouting replies.
type Agent struct {
	provider  llm.Provider
	model     string
	maxTokens int
}

// Option configures an Agent.
type Option func(*Agent)

// WithModel sets the model requested on every call.
func WithModel(model string) Option {
	return func(a *Agent) { a.model = model }
}

// WithMaxTokens caps the reply length.
func WithMaxTokens(n int) Option {
	return func(a *Agent) { a.maxTokens = n }
}

// New returns an Agent backed by provider.
func New(provider llm.Provider, opts ...Option) *Agent {
	a := &Agent{provider: provider}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Reply sends history to the model and returns the history with the
// assistant's trimmed reply appended. A system prompt is prepended when the
// history is empty or does not start with one. The input slice is not
// modified.
func (a *Agent) Reply(ctx context.Context, history []llm.Message) ([]llm.Message, error) {
	msgs := make([]llm.Message, 0, len(history)+2)
	if len(history) == 0 || history[0].Role != llm.RoleSystem {
		msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: SystemPrompt})
	}
	msgs = append(msgs, history...)

	resp, err := a.provider.Complete(ctx, llm.Request{
		Messages:  msgs,
		Model:     a.model,
		MaxTokens: a.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("chat: %w", err)
	}

	content := strings.TrimSpace(resp.Content)
	if content == "" {
		return nil, ErrEmptyReply
	}
	return append(msgs, llm.Message{Role: llm.RoleAssistant, Content: content}), nil
}

// Ask is a single-turn Reply that returns only the assistant's text.
func (a *Agent) Ask(ctx context.Context, text string) (string, error) {
	msgs, err := a.Reply(ctx, []llm.Message{llm.UserMessage(text)})
	if err != nil {
		return "", err
	}
	return msgs[len(msgs)-1].Content, nil
}
