package dice

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/coc-keeper/internal/errors"
)

// TermResult is a rolled term
type TermResult struct {
	Term     Term
	Rolls    []int
	Subtotal int
}

// Result is an evaluated expression. Diagnostic is set, and Total is zero,
// when the notation could not be used.
type Result struct {
	Notation   string
	Total      int
	Terms      []TermResult
	Breakdown  string
	Diagnostic string
}

// OK reports whether the notation was rolled
func (r *Result) OK() bool {
	return r.Diagnostic == ""
}

// Config holds the dependencies for an Evaluator
type Config struct {
	// Roller draws every die. Defaults to dice.DefaultRoller.
	Roller dice.Roller
}

// Evaluator rolls notation and percentile dice
type Evaluator struct {
	roller dice.Roller
}

// NewEvaluator creates an evaluator
func NewEvaluator(cfg *Config) *Evaluator {
	roller := dice.DefaultRoller
	if cfg != nil && cfg.Roller != nil {
		roller = cfg.Roller
	}
	return &Evaluator{roller: roller}
}

// Roll parses and rolls notation, returning parse failures as errors
func (e *Evaluator) Roll(notation string) (*Result, error) {
	expr, err := Parse(notation)
	if err != nil {
		return nil, err
	}
	return e.RollExpression(expr)
}

// Evaluate parses and rolls notation. Parse failures become a zero total with
// a diagnostic; only roller failures are returned as errors.
func (e *Evaluator) Evaluate(notation string) (*Result, error) {
	expr, err := Parse(notation)
	if err != nil {
		if !errors.IsInvalidArgument(err) {
			return nil, err
		}
		return &Result{Notation: notation, Diagnostic: errors.GetMessage(err)}, nil
	}
	return e.RollExpression(expr)
}

// RollExpression rolls an already parsed expression. Each die is an
// independent draw.
func (e *Evaluator) RollExpression(expr *Expression) (*Result, error) {
	res := &Result{Notation: expr.Source, Terms: make([]TermResult, 0, len(expr.Terms))}
	parts := make([]string, 0, len(expr.Terms))

	for _, term := range expr.Terms {
		tr := TermResult{Term: term}
		if term.IsDice() {
			rolls, err := e.roller.RollN(term.Count, term.Sides)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to roll %s", term)
			}
			sum := 0
			for _, r := range rolls {
				sum += r
			}
			tr.Rolls = rolls
			tr.Subtotal = term.Sign * sum
			parts = append(parts, fmt.Sprintf("%s: [%s]", term, joinInts(rolls)))
		} else {
			tr.Subtotal = term.Sign * term.Constant
			parts = append(parts, term.String())
		}
		res.Total += tr.Subtotal
		res.Terms = append(res.Terms, tr)
	}

	res.Breakdown = fmt.Sprintf("%s = %d", strings.Join(parts, " + "), res.Total)
	return res, nil
}

// Sum rolls count dice of size sides and returns the total
func (e *Evaluator) Sum(count, sides int) (int, error) {
	rolls, err := e.roller.RollN(count, sides)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to roll %dd%d", count, sides)
	}
	total := 0
	for _, r := range rolls {
		total += r
	}
	return total, nil
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
