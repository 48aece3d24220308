// Package rules implements the Call of Cthulhu 7e resolution rules on top of
// the dice evaluator.
package rules

// Tier is the success level of a percentile check. Values are ranks, lowest
// first.
type Tier int

// Tiers from worst to best
const (
	TierFumble Tier = iota
	TierFailure
	TierRegular
	TierHard
	TierExtreme
	TierCritical
)

var tierLabels = map[Tier]string{
	TierFumble:   "大失败",
	TierFailure:  "失败",
	TierRegular:  "成功",
	TierHard:     "困难成功",
	TierExtreme:  "极难成功",
	TierCritical: "大成功",
}

var tierKeys = map[Tier]string{
	TierFumble:   "fumble",
	TierFailure:  "failure",
	TierRegular:  "regular",
	TierHard:     "hard",
	TierExtreme:  "extreme",
	TierCritical: "critical",
}

// String returns the label players see
func (t Tier) String() string {
	if l, ok := tierLabels[t]; ok {
		return l
	}
	return "未知"
}

// Key is a stable ASCII name for metrics and logs
func (t Tier) Key() string {
	if k, ok := tierKeys[t]; ok {
		return k
	}
	return "unknown"
}

// Rank orders tiers for comparison
func (t Tier) Rank() int {
	return int(t)
}

// Succeeded reports a regular success or better
func (t Tier) Succeeded() bool {
	return t >= TierRegular
}

// Classify resolves roll against target. A 1 is always critical and a 100
// always fumbles; below 50 the fumble range starts at 96.
func Classify(roll, target int) Tier {
	switch {
	case roll == 1:
		return TierCritical
	case roll == 100:
		return TierFumble
	case target < 50 && roll >= 96:
		return TierFumble
	case roll <= target/5:
		return TierExtreme
	case roll <= target/2:
		return TierHard
	case roll <= target:
		return TierRegular
	default:
		return TierFailure
	}
}

// Thresholds returns the hard and extreme targets shown with a check
func Thresholds(target int) (hard, extreme int) {
	return target / 2, target / 5
}
