package dice

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/coc-keeper/internal/errors"
)

// Percentile is a d100 built from one units draw and one or more tens draws
type Percentile struct {
	Value int
	// Tens holds every tens candidate drawn, as 0..90
	Tens []int
	// Chosen is the tens candidate that was kept
	Chosen int
	Units  int
	// Net is bonus minus penalty
	Net int
}

// Modified reports whether bonus or penalty dice were involved
func (p *Percentile) Modified() bool {
	return p.Net != 0
}

// Breakdown describes the draws, e.g. "十位: [30,70] (奖励骰x1) 选择: 30 个位: 4 = 34"
func (p *Percentile) Breakdown() string {
	tens := make([]string, len(p.Tens))
	for i, t := range p.Tens {
		tens[i] = fmt.Sprint(t)
	}

	parts := []string{fmt.Sprintf("十位: [%s]", strings.Join(tens, ","))}
	switch {
	case p.Net > 0:
		parts = append(parts, fmt.Sprintf("(奖励骰x%d)", p.Net))
	case p.Net < 0:
		parts = append(parts, fmt.Sprintf("(惩罚骰x%d)", -p.Net))
	}
	parts = append(parts,
		fmt.Sprintf("选择: %d", p.Chosen),
		fmt.Sprintf("个位: %d", p.Units),
		fmt.Sprintf("= %d", p.Value),
	)
	return strings.Join(parts, " ")
}

// Percentile rolls a d100 in [1,100]. With net = bonus - penalty it draws
// 1+|net| tens candidates and keeps the lowest under bonus, the highest
// otherwise. A 00 tens with a 0 units reads as 100.
func (e *Evaluator) Percentile(bonus, penalty int) (*Percentile, error) {
	if bonus < 0 || penalty < 0 {
		return nil, errors.InvalidArgument("奖励骰与惩罚骰数量不能为负")
	}

	units, err := e.roller.Roll(10)
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll units die")
	}

	net := bonus - penalty
	extra := net
	if extra < 0 {
		extra = -extra
	}

	p := &Percentile{Units: units - 1, Net: net, Tens: make([]int, 0, 1+extra)}
	for i := 0; i <= extra; i++ {
		face, err := e.roller.Roll(10)
		if err != nil {
			return nil, errors.Wrap(err, "failed to roll tens die")
		}
		tens := (face - 1) * 10
		p.Tens = append(p.Tens, tens)

		switch {
		case i == 0:
			p.Chosen = tens
		case net > 0 && tens < p.Chosen:
			p.Chosen = tens
		case net <= 0 && tens > p.Chosen:
			p.Chosen = tens
		}
	}

	p.Value = p.Chosen + p.Units
	if p.Value == 0 {
		p.Value = 100
	}
	return p, nil
}
