// Package dice parses CoC dice notation and rolls it through an rpg-toolkit
// dice.Roller.
package dice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/KirkDiggler/coc-keeper/internal/errors"
)

const (
	// MaxCount is the largest die count a single term may ask for
	MaxCount = 100
	// MaxSides is the largest die a single term may ask for
	MaxSides = 10000

	msgEmpty       = "无效的骰子表达式"
	msgTooLarge    = "骰子数量或面数过大"
	msgUnparseable = "无法解析: %s"
)

var termPattern = regexp.MustCompile(`([+-]?)(?:(\d*)d(\d+)|(\d+))`)

// Term is one signed piece of an expression: either NdM or a constant.
type Term struct {
	Sign     int
	Count    int
	Sides    int
	Constant int
}

// IsDice reports whether the term rolls dice
func (t Term) IsDice() bool {
	return t.Sides > 0
}

// String renders the term the way it appears in a breakdown
func (t Term) String() string {
	if !t.IsDice() {
		return strconv.Itoa(t.Sign * t.Constant)
	}
	if t.Sign < 0 {
		return fmt.Sprintf("-%dd%d", t.Count, t.Sides)
	}
	return fmt.Sprintf("%dd%d", t.Count, t.Sides)
}

// Expression is parsed notation. It is never persisted.
type Expression struct {
	Source string
	Terms  []Term
}

// Bounds returns the smallest and largest totals the expression can produce
func (e *Expression) Bounds() (lo, hi int) {
	for _, t := range e.Terms {
		if !t.IsDice() {
			lo += t.Sign * t.Constant
			hi += t.Sign * t.Constant
			continue
		}
		if t.Sign < 0 {
			lo -= t.Count * t.Sides
			hi -= t.Count
		} else {
			lo += t.Count
			hi += t.Count * t.Sides
		}
	}
	return lo, hi
}

// Parse turns notation such as "3d6+2-1d4" into an Expression. Whitespace
// and case are ignored. Any oversized term rejects the whole expression.
// An omitted count means one die, but an explicit zero count or zero sides
// ("0d6", "1d0") is rejected as unparseable rather than read as 1.
func Parse(notation string) (*Expression, error) {
	src := strings.ToLower(strings.Join(strings.Fields(notation), ""))
	if src == "" {
		return nil, errors.InvalidArgument(msgEmpty)
	}

	matches := termPattern.FindAllStringSubmatch(src, -1)
	if len(matches) == 0 {
		return nil, errors.InvalidArgumentf(msgUnparseable, src)
	}

	expr := &Expression{Source: src, Terms: make([]Term, 0, len(matches))}
	for _, m := range matches {
		term := Term{Sign: 1}
		if m[1] == "-" {
			term.Sign = -1
		}

		if m[3] != "" {
			count := 1
			if m[2] != "" {
				n, err := strconv.Atoi(m[2])
				if err != nil || n > MaxCount {
					return nil, errors.InvalidArgument(msgTooLarge)
				}
				if n == 0 {
					return nil, errors.InvalidArgumentf(msgUnparseable, src)
				}
				count = n
			}
			sides, err := strconv.Atoi(m[3])
			if err != nil || sides > MaxSides {
				return nil, errors.InvalidArgument(msgTooLarge)
			}
			if sides == 0 {
				return nil, errors.InvalidArgumentf(msgUnparseable, src)
			}
			term.Count = count
			term.Sides = sides
		} else {
			n, err := strconv.Atoi(m[4])
			if err != nil {
				return nil, errors.InvalidArgument(msgTooLarge)
			}
			term.Constant = n
		}

		expr.Terms = append(expr.Terms, term)
	}

	return expr, nil
}
