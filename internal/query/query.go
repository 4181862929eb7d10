// Copyright 2026 The Scouteval Authors
// SPDX-License-Identifier: MIT

// Package query defines the core domain types for synthetic test queries.
package query

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// IDPrefix starts every generated query id.
const IDPrefix = "SYN"

var validate = validator.New()

// DimensionTuple is one (country, player skills, scenario) combination used to
// seed a batch of synthetic queries. Equality is plain value equality across
// all three fields; no case or whitespace folding is applied.
type DimensionTuple struct {
	Country      string `json:"Country" validate:"required" jsonschema:"description=Player nationality, e.g. Argentina"`
	PlayerSkills string `json:"PlayerSkills" validate:"required" jsonschema:"description=Skill focus or player comparison, e.g. A player similar to Messi"`
	Scenario     string `json:"Scenario" validate:"required" jsonschema:"description=How well-formed the query is: exact match, ambiguous request, or shouldn't be handled"`
}

// GeneratedQuery is a synthetic user query together with the tuple that
// produced it.
type GeneratedQuery struct {
	ID    string
	Text  string
	Tuple DimensionTuple

	// Keep marks the query as realistic and retained for analysis.
	Keep bool

	// Notes holds free-form filtering notes.
	Notes string
}

// New returns a query with the default keep flag and empty notes.
func New(id, text string, tuple DimensionTuple) GeneratedQuery {
	return GeneratedQuery{ID: id, Text: text, Tuple: tuple, Keep: true}
}

// FormatID renders the n-th id, e.g. FormatID(7) == "SYN007".
func FormatID(n int) string {
	return fmt.Sprintf("%s%03d", IDPrefix, n)
}

// MarshalTuple renders t as compact JSON. Characters such as & < > are
// written as-is, not HTML-escaped.
func MarshalTuple(t DimensionTuple) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(t); err != nil {
		return "", fmt.Errorf("marshal dimension tuple: %w", err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// ParseTuple parses the compact JSON form produced by MarshalTuple. All three
// fields must be present and non-empty.
func ParseTuple(s string) (DimensionTuple, error) {
	var t DimensionTuple
	if err := json.Unmarshal([]byte(s), &t); err != nil {
		return DimensionTuple{}, fmt.Errorf("parse dimension tuple: %w", err)
	}
	if err := validate.Struct(t); err != nil {
		return DimensionTuple{}, fmt.Errorf("parse dimension tuple: %w", err)
	}
	return t, nil
}
