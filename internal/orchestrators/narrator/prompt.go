package narrator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/KirkDiggler/coc-keeper/internal/rules"
)

const preamble = `你是克苏鲁的呼唤7.0（CoC 7e）的守秘人（KP）。你正在主持一场沉浸式的恐怖跑团游戏。

【叙述风格】
- 用生动、充满氛围感的中文描述场景、NPC行为和环境细节
- 保持CoC特有的恐怖、悬疑、未知感
- 不要替玩家做决定，等待玩家行动后再推进剧情
- 每次回复控制在200字以内，节奏紧凑

【骰子检定】
当玩家行动需要技能检定时，在回复末尾单独一行写：
[检定: 技能名 目标值]
例：[检定: 侦查 60] 或 [检定: 图书馆使用 70]
可同时写多个。骰子结果由系统自动提供，你根据结果叙述后果。

【禁止事项】
- 不输出思考过程或推理过程
- 不超过200字
- 不自行推进玩家未确认的行动`

const (
	kickoffPrompt = "游戏开始。请描述开场场景，引导调查员们进入故事。"
	// Notice is shown once when a turn is abandoned
	Notice = "⚠️ AI守秘人暂时无法响应，请稍后再试"
)

var (
	thinkBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)
	directive  = regexp.MustCompile(`\[检定[：:]\s*(\S+)\s+(\d+)\]`)
)

// Directive is a check the model asked for
type Directive struct {
	Skill  string
	Target int
}

// SystemPrompt is the preamble plus the scenario briefing, if any
func SystemPrompt(briefing string) string {
	if briefing == "" {
		return preamble
	}
	return preamble + "\n\n【本次团本】\n" + briefing
}

// StripThinking removes reasoning blocks
func StripThinking(text string) string {
	return strings.TrimSpace(thinkBlock.ReplaceAllString(text, ""))
}

// ParseDirectives lists check requests in the order they appear
func ParseDirectives(text string) []Directive {
	var out []Directive
	for _, m := range directive.FindAllStringSubmatch(text, -1) {
		target, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		out = append(out, Directive{Skill: m[1], Target: target})
	}
	return out
}

// StripDirectives removes check requests from visible text
func StripDirectives(text string) string {
	return strings.TrimSpace(directive.ReplaceAllString(text, ""))
}

func userTurn(name, text string) string {
	return name + ": " + text
}

func rollFeedback(name string, res *rules.CheckResult) string {
	return fmt.Sprintf("【检定结果】%s 进行 %s 检定 (目标值: %d)，d100 = %d，结果: %s。请根据结果继续叙述。",
		name, res.Skill, res.Target, res.Roll, res.Tier)
}
