// Copyright 2026 The Scouteval Authors
// SPDX-License-Identifier: MIT

package synth

import (
	"encoding/json"
	"fmt"

	"github.com/davetashner/scouteval/internal/query"
)

// buildTuplePrompt asks for n (country, player skills, scenario) combinations.
// Every concurrent batch shares this exact prompt.
func buildTuplePrompt(n int) string {
	return fmt.Sprintf(`Generate %[1]d random combinations of (country, player skills, scenario) for a football scouting assistant.
The dimensions are:
Country: the player's nationality. Possible values: Argentina, Brazil, Spain, Venezuela...
Player skills: specific skills for each player, including comparisons with other current or past players. Possible values: A player similar to Messi, A player with good awareness, Strong defensive players in offside-trap systems
Scenario: how well-formed or challenging the query is.
Possible values:
- exact match (clearly specified and feasible),
- ambiguous request (unclear or underspecified),
- shouldn't be handled (invalid or out-of-scope).

Return the combinations in the "tuples" array, one object per combination.
Avoid duplicates. Vary values across dimensions. The goal is to create a diverse set of queries for our assistant.

Generate %[1]d unique dimension tuples following these patterns. Remember to maintain balanced diversity across all dimensions.`, n)
}

// buildQueryPrompt asks for n user-style queries for one tuple. Surface-form
// variation (case, typos, spacing, emojis) is part of the requested output.
func buildQueryPrompt(t query.DimensionTuple, n int) (string, error) {
	tupleJSON, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal tuple for prompt: %w", err)
	}
	return fmt.Sprintf(`Generate %[1]d realistic football scouting queries based on the following dimension tuple:
%[2]s

The queries should:
1. Sound like real users asking for scouting players
2. Naturally incorporate all the dimension values
3. Vary in style and detail level
4. Be realistic and practical
5. Include natural variations in typing style, such as:
   - Some queries in all lowercase
   - Some with random capitalization
   - Some with common typos
   - Some with missing punctuation
   - Some with extra spaces or missing spaces
   - Some with emojis or text speak

Generate %[1]d unique queries that match the given dimensions, varying the text style naturally.`, n, tupleJSON), nil
}
