// Copyright 2026 The Scouteval Authors
// SPDX-License-Identifier: MIT

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
)

// DefaultRetryDelay is the pause between the first and second attempt of a
// structured call.
const DefaultRetryDelay = time.Second

// structuredAttempts is the total number of tries: the first call plus one retry.
const structuredAttempts = 2

var validate = validator.New(validator.WithRequiredStructEnabled())

// StructuredOptions tunes a single CallStructured invocation.
type StructuredOptions struct {
	Model       string
	MaxTokens   int
	Temperature *float64

	// RetryDelay overrides DefaultRetryDelay. Negative means no pause.
	RetryDelay time.Duration
}

func (o StructuredOptions) retryDelay() time.Duration {
	switch {
	case o.RetryDelay < 0:
		return 0
	case o.RetryDelay == 0:
		return DefaultRetryDelay
	default:
		return o.RetryDelay
	}
}

// SchemaFor returns the JSON Schema of T, inlined, as indented text.
func SchemaFor[T any]() (string, error) {
	r := &jsonschema.Reflector{DoNotReference: true}
	schema := r.Reflect(new(T))
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", fmt.Errorf("llm: marshal schema: %w", err)
	}
	return string(data), nil
}

// CallStructured sends messages to p and decodes the reply into T. The reply
// must be JSON matching T's schema and pass T's validate tags. Any failure is
// retried exactly once after a short pause; the second failure is returned
// as a *TransportError or *ValidationError.
func CallStructured[T any](ctx context.Context, p Provider, messages []Message, opts StructuredOptions) (*T, error) {
	schema, err := SchemaFor[T]()
	if err != nil {
		return nil, err
	}

	req := Request{
		Messages:     messages,
		Model:        opts.Model,
		MaxTokens:    opts.MaxTokens,
		Temperature:  opts.Temperature,
		SystemPrompt: structuredSystemPrompt(schema),
	}

	var lastErr error
	for attempt := 1; attempt <= structuredAttempts; attempt++ {
		if attempt > 1 {
			slog.Debug("retrying structured call", "attempt", attempt, "error", lastErr)
			if err := sleepCtx(ctx, opts.retryDelay()); err != nil {
				return nil, &TransportError{Err: err}
			}
		}

		out, err := attemptStructured[T](ctx, p, req)
		if err == nil {
			return out, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func attemptStructured[T any](ctx context.Context, p Provider, req Request) (*T, error) {
	resp, err := p.Complete(ctx, req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	return DecodeStructured[T](resp.Content)
}

// DecodeStructured parses a model reply into T and validates it.
func DecodeStructured[T any](content string) (*T, error) {
	var body string
	if isObjectShaped[T]() {
		body = ExtractJSONObject(content)
	} else {
		body = ExtractJSON(content)
	}
	if body == "" {
		return nil, &ValidationError{Reason: "empty response", Content: content}
	}

	var out T
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return nil, &ValidationError{Reason: "reply is not valid JSON for the requested shape", Content: content, Err: err}
	}
	if err := validate.Struct(&out); err != nil {
		return nil, &ValidationError{Reason: "reply does not satisfy the requested shape", Content: content, Err: err}
	}
	return &out, nil
}

// ExtractJSON trims whitespace and Markdown code fences around a JSON reply
// and drops any prose before the first brace or after the last one.
func ExtractJSON(content string) string {
	content = stripFences(content)
	start := strings.IndexAny(content, "{[")
	end := strings.LastIndexAny(content, "}]")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}

// ExtractJSONObject is ExtractJSON for replies that must hold a JSON object.
// It cuts from the first '{' to the last '}', so bracketed prose such as
// "Note [1]:" before the object is skipped. Without a '{' it falls back to
// ExtractJSON.
func ExtractJSONObject(content string) string {
	content = stripFences(content)
	start := strings.IndexByte(content, '{')
	end := strings.LastIndexByte(content, '}')
	if start < 0 || end <= start {
		return ExtractJSON(content)
	}
	return content[start : end+1]
}

func isObjectShaped[T any]() bool {
	rt := reflect.TypeFor[T]()
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	return rt.Kind() == reflect.Struct || rt.Kind() == reflect.Map
}

func stripFences(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		lines := strings.Split(content, "\n")
		var jsonLines []string
		inBlock := false
		for _, line := range lines {
			if strings.HasPrefix(strings.TrimSpace(line), "```") {
				inBlock = !inBlock
				continue
			}
			if inBlock {
				jsonLines = append(jsonLines, line)
			}
		}
		content = strings.TrimSpace(strings.Join(jsonLines, "\n"))
	}
	return content
}

func structuredSystemPrompt(schema string) string {
	return "Respond with a single JSON object that conforms to this JSON Schema. " +
		"Output JSON only, with no commentary or code fences.\n\nJSON Schema:\n" + schema
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
