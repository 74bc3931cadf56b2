package service

import (
	"encoding/json"
	"fmt"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"
)

// JMESPathEvaluator abstracts JMESPath operations for testability.
type JMESPathEvaluator interface {
	Validate(expr string) error
	Evaluate(expr string, data any) (any, error)
}

type jmespathLibEvaluator struct{}

func (jmespathLibEvaluator) Validate(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return nil
	}
	_, err := jmespath.Compile(expr)
	return err
}

func (jmespathLibEvaluator) Evaluate(expr string, data any) (any, error) {
	return jmespath.Search(expr, data)
}

// Query projects API results with a JMESPath expression.
type Query struct {
	eval JMESPathEvaluator
}

// NewQuery returns a Query backed by eval, or by go-jmespath when eval is nil.
func NewQuery(eval JMESPathEvaluator) *Query {
	if eval == nil {
		eval = jmespathLibEvaluator{}
	}
	return &Query{eval: eval}
}

// Apply evaluates expr against v. Typed values are first converted to their JSON
// shape so expressions use the wire field names. An empty expr returns v unchanged.
func (q *Query) Apply(expr string, v any) (any, error) {
	if strings.TrimSpace(expr) == "" {
		return v, nil
	}
	if err := q.eval.Validate(expr); err != nil {
		return nil, fmt.Errorf("invalid query %q: %w", expr, err)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode query input: %w", err)
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode query input: %w", err)
	}
	out, err := q.eval.Evaluate(expr, data)
	if err != nil {
		return nil, fmt.Errorf("evaluate query %q: %w", expr, err)
	}
	return out, nil
}
