package rules

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/coc-keeper/internal/entities"
	"github.com/KirkDiggler/coc-keeper/internal/errors"
)

// Generation limits
const (
	MinGenerate = 1
	MaxGenerate = 10
)

// ClampGenerateCount keeps count within [MinGenerate, MaxGenerate]
func ClampGenerateCount(count int) int {
	return min(MaxGenerate, max(MinGenerate, count))
}

// Generate rolls count investigators. STR CON DEX APP POW are 3d6×5,
// SIZ INT EDU are (2d6+6)×5 and luck is its own 3d6×5.
func (e *Engine) Generate(count int) ([]entities.AttributeSet, error) {
	count = ClampGenerateCount(count)

	sets := make([]entities.AttributeSet, 0, count)
	for i := 0; i < count; i++ {
		set, err := e.generateOne()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to generate set %d", i+1)
		}
		sets = append(sets, set)
	}
	return sets, nil
}

func (e *Engine) generateOne() (entities.AttributeSet, error) {
	var set entities.AttributeSet

	threeD6 := []*int{&set.STR, &set.CON, &set.DEX, &set.APP, &set.POW}
	for _, v := range threeD6 {
		n, err := e.eval.Sum(3, 6)
		if err != nil {
			return set, err
		}
		*v = n * 5
	}

	twoD6Plus6 := []*int{&set.SIZ, &set.INT, &set.EDU}
	for _, v := range twoD6Plus6 {
		n, err := e.eval.Sum(2, 6)
		if err != nil {
			return set, err
		}
		*v = (n + 6) * 5
	}

	luck, err := e.eval.Sum(3, 6)
	if err != nil {
		return set, err
	}
	set.LUCK = luck * 5

	return set, nil
}

// FormatAttributeSet renders one set. index 0 means an unnumbered header.
func FormatAttributeSet(set entities.AttributeSet, index int) string {
	header := "📋 调查员属性"
	if index > 0 {
		header = fmt.Sprintf("📋 第%d组属性", index)
	}

	lines := []string{header}
	for _, a := range entities.Attributes {
		lines = append(lines, fmt.Sprintf("  %s: %d", a.Label(), set.Get(a.Code)))
	}
	lines = append(lines,
		fmt.Sprintf("  %s(%s): %d", entities.LuckName, entities.AttrLUCK, set.LUCK),
		fmt.Sprintf("  总计(不含幸运): %d", set.Total()),
	)
	return strings.Join(lines, "\n")
}

// FormatAttributeSets renders a generation, numbering sets when there are
// several.
func FormatAttributeSets(sets []entities.AttributeSet) string {
	blocks := make([]string, len(sets))
	for i, set := range sets {
		idx := 0
		if len(sets) > 1 {
			idx = i + 1
		}
		blocks[i] = FormatAttributeSet(set, idx)
	}
	return strings.Join(blocks, "\n\n")
}
