package command

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// Usage hints shown for malformed arguments
const (
	UsageCheck        = "格式: .rc 技能名 目标值 [b/p[数量]]\n或已保存技能: .rc 技能名 [b/p]"
	UsageSanity       = "格式: .sc SAN值 成功损失/失败损失\n例: .sc 55 1d3/1d10"
	UsageOpposed      = "格式: .rop 技能1 值1 vs 技能2 值2"
	UsageCombat       = "格式: .%s 技能值 [b/p[数量]]"
	UsageDamage       = "格式: .dmg 表达式 (如 1d3+1d4)"
	UsageSetStats     = "格式: .st 技能名 值\n或批量: .st 名1 值1 名2 值2 ..."
	UsageLuck         = "用法: .luck set 值 / .luck spend 数量 技能名 技能值"
	UsageLuckSpend    = "格式: .luck spend 数量 技能名 技能值"
	UsageKeeperCheck  = "格式: .kp rc 技能名 目标值 [b/p[数量]]"
	UsageKeeperNPC    = "格式: .kp npc 怪物名 技能名 [值]\n或: .kp npc list"
	UsageKeeperSanity = "格式: .kp sc SAN值 成功损失/失败损失\n例: .kp sc 55 1d3/1d10"
	UsageKeeperAI     = "用法: .kp ai start [团本] / .kp ai stop / .kp ai clear / .kp ai status"
)

// MaxModifierDice caps bonus or penalty dice on one check
const MaxModifierDice = 10

var (
	gluedRoll      = regexp.MustCompile(`^\.r([d\d].*)$`)
	checkFull      = regexp.MustCompile(`(?i)^(\S+)\s+(\d+)\s*(?:(b|p)(\d*))?$`)
	checkByName    = regexp.MustCompile(`(?i)^(\S+)\s*(?:(b|p)(\d*))?$`)
	sanityFull     = regexp.MustCompile(`^(\d+)\s+(\S+)/(\S+)$`)
	sanityNoTarget = regexp.MustCompile(`^(\S+)/(\S+)$`)
	opposedArgs    = regexp.MustCompile(`(?i)^(\S+)\s+(\d+)\s+vs\s+(\S+)\s+(\d+)$`)
	combatArgs     = regexp.MustCompile(`(?i)^(\d+)\s*(?:(b|p)(\d*))?$`)
	modifierToken  = regexp.MustCompile(`(?i)^(b|p)(\d*)$`)
	digitsOnly     = regexp.MustCompile(`^\d+$`)
)

// Parse reads one chat line. Full-width forms are folded first so that
// "．ｒｃ　侦查　６０" parses like ".rc 侦查 60".
func Parse(text string) (Command, error) {
	raw := strings.TrimSpace(text)
	folded := strings.TrimSpace(width.Fold.String(raw))
	if !strings.HasPrefix(folded, ".") {
		return nil, ErrNotCommand
	}

	fields := strings.Fields(folded)
	keyword := strings.ToLower(fields[0])
	args := strings.Join(fields[1:], " ")

	if m := gluedRoll.FindStringSubmatch(keyword); m != nil && keyword != ".rd" {
		return Roll{Expr: strings.TrimSpace(m[1] + " " + args)}, nil
	}

	switch keyword {
	case ".r", ".rd", ".roll":
		return Roll{Expr: args}, nil
	case ".rc":
		return parseCheck(args)
	case ".sc", ".san":
		return parseSanity(args)
	case ".rop":
		return parseOpposed(args)
	case ".fight":
		return parseCombat(CombatFight, args)
	case ".fire":
		return parseCombat(CombatFire, args)
	case ".dodge":
		return parseCombat(CombatDodge, args)
	case ".dmg":
		if args == "" {
			return nil, usage("dmg", UsageDamage)
		}
		return Damage{Expr: args}, nil
	case ".coc":
		return Generate{Count: parseCount(args)}, nil
	case ".save":
		index := 1
		if digitsOnly.MatchString(args) {
			index = atoiSaturating(args)
		}
		return Save{Index: index}, nil
	case ".st":
		return parseSetStats(fields[1:])
	case ".show":
		return Show{}, nil
	case ".luck":
		return parseLuck(fields[1:])
	case ".template":
		return Template{}, nil
	case ".help":
		return Help{Topic: strings.ToLower(args)}, nil
	case ".kp":
		return parseKeeper(fields[1:], restAfterFields(raw, 3))
	}

	return nil, ErrUnknownCommand
}

func usage(keyword, text string) *UsageError {
	return &UsageError{Keyword: keyword, Usage: text}
}

func keeperUsage(keyword, text string) *UsageError {
	return &UsageError{Keyword: keyword, Usage: text, KeeperOnly: true}
}

func parseCheck(args string) (Command, error) {
	if m := checkFull.FindStringSubmatch(args); m != nil {
		target, ok := atoi(m[2])
		mod, modOK := parseModifier(m[3], m[4])
		if !ok || !modOK {
			return nil, usage("rc", UsageCheck)
		}
		return Check{Skill: m[1], Target: target, HasTarget: true, Modifier: mod}, nil
	}

	if m := checkByName.FindStringSubmatch(args); m != nil {
		mod, ok := parseModifier(m[2], m[3])
		if !ok {
			return nil, usage("rc", UsageCheck)
		}
		return Check{Skill: m[1], Modifier: mod}, nil
	}

	return nil, usage("rc", UsageCheck)
}

func parseSanity(args string) (Command, error) {
	if m := sanityFull.FindStringSubmatch(args); m != nil {
		capacity, ok := atoi(m[1])
		if !ok {
			return nil, usage("sc", UsageSanity)
		}
		return Sanity{Capacity: capacity, HasCapacity: true, SuccessLoss: m[2], FailureLoss: m[3]}, nil
	}
	if m := sanityNoTarget.FindStringSubmatch(args); m != nil {
		return Sanity{SuccessLoss: m[1], FailureLoss: m[2]}, nil
	}
	return nil, usage("sc", UsageSanity)
}

func parseOpposed(args string) (Command, error) {
	m := opposedArgs.FindStringSubmatch(args)
	if m == nil {
		return nil, usage("rop", UsageOpposed)
	}
	t1, ok1 := atoi(m[2])
	t2, ok2 := atoi(m[4])
	if !ok1 || !ok2 {
		return nil, usage("rop", UsageOpposed)
	}
	return Opposed{Name1: m[1], Target1: t1, Name2: m[3], Target2: t2}, nil
}

func parseCombat(kind CombatKind, args string) (Command, error) {
	hint := fmt.Sprintf(UsageCombat, kind)
	m := combatArgs.FindStringSubmatch(args)
	if m == nil {
		return nil, usage(string(kind), hint)
	}
	target, ok := atoi(m[1])
	mod, modOK := parseModifier(m[2], m[3])
	if !ok || !modOK {
		return nil, usage(string(kind), hint)
	}
	return Combat{Kind: kind, Target: target, Modifier: mod}, nil
}

func parseSetStats(tokens []string) (Command, error) {
	if len(tokens) < 2 || len(tokens)%2 != 0 {
		return nil, usage("st", UsageSetStats)
	}
	pairs := make([]StatPair, 0, len(tokens)/2)
	for i := 0; i < len(tokens); i += 2 {
		pairs = append(pairs, StatPair{Name: tokens[i], Value: tokens[i+1]})
	}
	return SetStats{Pairs: pairs}, nil
}

func parseLuck(tokens []string) (Command, error) {
	if len(tokens) == 0 {
		return Luck{Action: LuckStatus}, nil
	}

	switch strings.ToLower(tokens[0]) {
	case "set":
		if len(tokens) >= 2 && digitsOnly.MatchString(tokens[1]) {
			if v, ok := atoi(tokens[1]); ok {
				return Luck{Action: LuckSet, Value: v}, nil
			}
		}
	case "spend":
		if len(tokens) >= 4 {
			amount, ok1 := atoi(tokens[1])
			target, ok2 := atoi(tokens[3])
			if !ok1 || !ok2 || !digitsOnly.MatchString(tokens[1]) || !digitsOnly.MatchString(tokens[3]) {
				return nil, usage("luck", UsageLuckSpend)
			}
			return Luck{Action: LuckSpend, Amount: amount, Skill: tokens[2], Target: target}, nil
		}
	}

	return nil, usage("luck", UsageLuck)
}

func parseKeeper(tokens []string, briefing string) (Command, error) {
	if len(tokens) == 0 {
		return KeeperStatus{}, nil
	}

	rest := strings.Join(tokens[1:], " ")
	switch strings.ToLower(tokens[0]) {
	case "claim":
		return KeeperClaim{}, nil
	case "resign":
		return KeeperResign{}, nil
	case "ai":
		return parseKeeperAI(tokens[1:], briefing)
	case "rc":
		m := checkFull.FindStringSubmatch(rest)
		if m == nil {
			return nil, keeperUsage("kp rc", UsageKeeperCheck)
		}
		target, ok := atoi(m[2])
		mod, modOK := parseModifier(m[3], m[4])
		if !ok || !modOK {
			return nil, keeperUsage("kp rc", UsageKeeperCheck)
		}
		return KeeperSecretCheck{Skill: m[1], Target: target, Modifier: mod}, nil
	case "npc":
		return parseKeeperNPC(tokens[1:])
	case "sc":
		m := sanityFull.FindStringSubmatch(rest)
		if m == nil {
			return nil, keeperUsage("kp sc", UsageKeeperSanity)
		}
		capacity, ok := atoi(m[1])
		if !ok {
			return nil, keeperUsage("kp sc", UsageKeeperSanity)
		}
		return KeeperSanity{Capacity: capacity, SuccessLoss: m[2], FailureLoss: m[3]}, nil
	}

	return KeeperStatus{}, nil
}

func parseKeeperAI(tokens []string, briefing string) (Command, error) {
	if len(tokens) == 0 {
		return KeeperAI{Action: AIStatus}, nil
	}

	switch strings.ToLower(tokens[0]) {
	case "status":
		return KeeperAI{Action: AIStatus}, nil
	case "start", "load":
		return KeeperAI{Action: AIStart, Briefing: briefing}, nil
	case "stop":
		return KeeperAI{Action: AIStop}, nil
	case "clear":
		return KeeperAI{Action: AIClear}, nil
	}
	return nil, keeperUsage("kp ai", UsageKeeperAI)
}

func parseKeeperNPC(tokens []string) (Command, error) {
	if len(tokens) == 0 {
		return nil, keeperUsage("kp npc", UsageKeeperNPC)
	}
	if strings.EqualFold(tokens[0], "list") {
		return KeeperNPC{List: true}, nil
	}

	npc := KeeperNPC{Monster: tokens[0]}
	if len(tokens) == 1 {
		return npc, nil
	}

	npc.Skill = tokens[1]
	modIdx := 2
	if len(tokens) > 2 && digitsOnly.MatchString(tokens[2]) {
		target, ok := atoi(tokens[2])
		if !ok {
			return nil, keeperUsage("kp npc", UsageKeeperNPC)
		}
		npc.Target = target
		npc.HasTarget = true
		modIdx = 3
	}

	// an unreadable modifier token is ignored rather than rejected
	if len(tokens) > modIdx {
		if m := modifierToken.FindStringSubmatch(tokens[modIdx]); m != nil {
			if mod, ok := parseModifier(m[1], m[2]); ok {
				npc.Modifier = mod
			}
		}
	}
	return npc, nil
}

// parseModifier reads "b", "b2", "p3". An empty kind means no modifier; an
// empty count means one die.
func parseModifier(kind, count string) (Modifier, bool) {
	if kind == "" {
		return Modifier{}, true
	}
	n := 1
	if count != "" {
		v, ok := atoi(count)
		if !ok || v > MaxModifierDice {
			return Modifier{}, false
		}
		n = v
	}
	if strings.EqualFold(kind, "b") {
		return Modifier{Bonus: n}, true
	}
	return Modifier{Penalty: n}, true
}

func parseCount(args string) int {
	if !digitsOnly.MatchString(args) {
		return 1
	}
	return atoiSaturating(args)
}

func atoi(s string) (int, bool) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

// atoiSaturating reads a digit string, mapping overflow to MaxInt
func atoiSaturating(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return math.MaxInt
	}
	return v
}

// restAfterFields returns raw text after skipping n whitespace separated
// fields, with the original spacing and width kept.
func restAfterFields(raw string, n int) string {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)
	for i := 0; i < n && s != ""; i++ {
		end := strings.IndexFunc(s, unicode.IsSpace)
		if end < 0 {
			return ""
		}
		s = strings.TrimLeftFunc(s[end:], unicode.IsSpace)
	}
	return strings.TrimSpace(s)
}
