package opencoding

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/davetashner/scouteval/internal/query"
)

// filterCostLimit bounds evaluation work for a single row.
const filterCostLimit = 100000

// Filter is a compiled CEL expression selecting which rows to label.
// Expressions see the variables id, query, country, skills, scenario
// (strings) and keep (bool), for example:
//
//	country == "Spain" && query.contains("messi")
type Filter struct {
	expr string
	prog cel.Program
}

// NewFilter compiles expr. The expression must evaluate to a bool.
func NewFilter(expr string) (*Filter, error) {
	env, err := cel.NewEnv(
		cel.Variable("id", cel.StringType),
		cel.Variable("query", cel.StringType),
		cel.Variable("country", cel.StringType),
		cel.Variable("skills", cel.StringType),
		cel.Variable("scenario", cel.StringType),
		cel.Variable("keep", cel.BoolType),
	)
	if err != nil {
		return nil, fmt.Errorf("create filter environment: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile filter: %w", issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("filter must evaluate to bool, got %s", ast.OutputType())
	}

	prog, err := env.Program(ast, cel.CostLimit(filterCostLimit))
	if err != nil {
		return nil, fmt.Errorf("build filter program: %w", err)
	}
	return &Filter{expr: expr, prog: prog}, nil
}

// String returns the source expression.
func (f *Filter) String() string { return f.expr }

// Match reports whether q satisfies the filter.
func (f *Filter) Match(q query.GeneratedQuery) (bool, error) {
	out, _, err := f.prog.Eval(map[string]any{
		"id":       q.ID,
		"query":    q.Text,
		"country":  q.Tuple.Country,
		"skills":   q.Tuple.PlayerSkills,
		"scenario": q.Tuple.Scenario,
		"keep":     q.Keep,
	})
	if err != nil {
		return false, fmt.Errorf("evaluate filter on %s: %w", q.ID, err)
	}
	matched, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("filter returned %T, want bool", out.Value())
	}
	return matched, nil
}

// Select returns the rows to label, in input order. Rows marked not kept are
// dropped unless includeDropped is set. A nil filter matches every row.
func Select(rows []query.GeneratedQuery, f *Filter, includeDropped bool) ([]query.GeneratedQuery, error) {
	out := make([]query.GeneratedQuery, 0, len(rows))
	for _, q := range rows {
		if !q.Keep && !includeDropped {
			continue
		}
		if f != nil {
			ok, err := f.Match(q)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		out = append(out, q)
	}
	return out, nil
}
