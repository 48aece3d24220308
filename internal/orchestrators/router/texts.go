package router

import "strings"

const (
	templateFull = `【CoC 7.0 人物卡录入模板】
复制下方指令，将数字 0 改为实际属性值，在群里 @我 发送：

.st 力量 0 体质 0 体型 0 敏捷 0 外貌 0 智力 0 意志 0 教育 0 幸运 0 SAN 0 侦查 0 图书馆使用 0 话术 0 聆听 0 急救 0 闪避 0 格斗 0 射击 0 心理学 0

━━ 投骰参考 ━━
力量/体质/敏捷/外貌/意志: 3d6×5
体型/智力/教育: (2d6+6)×5
幸运: 3d6×5 (单独投)
SAN初始值 = 意志(POW)值`

	templateSkillsOnly = `【CoC 7.0 技能录入模板】
检测到已用 .coc 保存了基础属性，只需补充技能即可：

.st 侦查 0 图书馆使用 0 话术 0 聆听 0 急救 0 闪避 0 格斗 0 射击 0 心理学 0

将 0 改为实际技能点，在群里 @我 发送即可`

	templateSent = "已私信发送人物卡模板，填好后在群里 @我 发送 .st 指令批量录入"

	divider = "━━━━━━━━━━━━━━━━"
)

const (
	aiCommands  = ".kp ai stop — 停止 | .kp ai clear — 清除历史"
	aiRunning   = "🤖 AI守秘人运行中\n" + aiCommands
	aiIdle      = "🤖 AI守秘人未启动\n.kp ai start [团本简介] — 启动"
	aiStarted   = "🤖 %sAI守秘人已启动！\n玩家直接发消息即可与KP互动\n" + aiCommands
	aiBriefed   = "已加载团本，"
	aiStopped   = "🤖 AI守秘人已停止"
	aiCleared   = "🤖 对话历史已清除，从下一条消息重新开始"
	kpClaimed   = "👁 %s 成为本场KP"
	kpResigned  = "👁 KP已卸任"
	kpSecretHdr = "🔒 [秘密检定结果]\n"
	kpSecretPub = "🔒 KP 进行了秘密检定"
)

var keeperStatusBody = strings.Join([]string{
	".kp claim — 认领KP",
	".kp resign — 放弃KP",
	"【KP专属】",
	".kp rc 技能 值 [b/p] — 秘密检定 (私信结果)",
	".kp npc list — 预设怪物列表",
	".kp npc 怪物名 — 查看怪物数据",
	".kp npc 怪物名 技能 [值] [b/p] — NPC检定",
	".kp sc SAN值 成功损失/失败损失 — NPC理智检定",
}, "\n")

const sanityHelp = "🧠 理智检定 .sc\n.sc 当前SAN 成功损失/失败损失\n.sc 55 1d3/1d10"

var helpTopics = map[string]string{
	"r":        "🎲 掷骰指令 .r\n.r 1d100 / .r 3d6 / .rd6 / .r 1d8+2",
	"rc":       "🎲 技能检定 .rc\n.rc 技能名 目标值 [b/p[数量]]\n.rc 侦查 60 b2\n已存技能: .rc 侦查 (自动读取人物卡)",
	"sc":       sanityHelp,
	"san":      sanityHelp,
	"coc":      "📋 生成角色 .coc\n.coc / .coc 5 — 生成属性\n.save / .save 2 — 确认保存到人物卡",
	"st":       "📝 设置技能 .st\n.st 侦查 60 — 单条保存\n.st 侦查 60 聆听 40 — 批量保存",
	"template": "📨 人物卡模板 .template\n私信发送空白模板，填好后在群里 @我 用 .st 批量录入",
	"show":     "📋 查看人物卡 .show",
	"rop":      "⚔️ 对抗检定 .rop\n.rop 力量 60 vs 力量 45",
	"luck":     "🍀 幸运消耗 .luck\n.luck set 值 — 设置幸运值\n.luck spend 数量 技能名 技能值",
	"kp":       "👁 KP功能 .kp\n.kp claim/resign — 认领/放弃\n.kp rc 技能 值 — 秘密检定\n.kp npc NPC名 技能 值 — NPC检定\n.kp sc SAN值 成功/失败 — NPC理智检定",
}

var helpIndex = strings.Join([]string{
	"🎲 CoC 7.0 骰娘 指令列表",
	divider,
	".r [表达式] / .rdN — 掷骰",
	".rc 技能 [目标值] [b/p] — 技能检定",
	".sc SAN值 成功/失败 — 理智检定",
	".rop 名1 值1 vs 名2 值2 — 对抗检定",
	".fight/.fire/.dodge 值 — 战斗检定",
	".dmg 表达式 — 伤害骰",
	".coc [数量] → .save [n] — 生成并保存人物卡",
	".st 技能 值 [技能 值 ...] — 录入技能(支持批量)",
	".template — 私信发送空白人物卡模板",
	".kp — KP功能（认领/秘密检定/NPC）",
	".show — 查看人物卡",
	".luck set/spend — 幸运管理",
	".help [指令] — 查看帮助",
	divider,
}, "\n")

// HelpText returns the text for a topic, or the command index
func HelpText(topic string) string {
	if text, ok := helpTopics[strings.ToLower(strings.TrimSpace(topic))]; ok {
		return text
	}
	return helpIndex
}
