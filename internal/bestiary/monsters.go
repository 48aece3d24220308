package bestiary

var defaultAliases = map[string]string{
	"尸鬼":  "食尸鬼",
	"深人":  "深潜者",
	"夜行者": "夜魇",
	"暗夜":  "暗夜游荡者",
}

func stats(str, con, siz, intl, pow, dex int) map[string]int {
	return map[string]int{"STR": str, "CON": con, "SIZ": siz, "INT": intl, "POW": pow, "DEX": dex}
}

func defaultMonsters() []*Monster {
	return []*Monster{
		{
			Name: "食尸鬼", EnglishName: "Ghoul",
			Stats: stats(80, 70, 65, 55, 45, 70),
			HP: 14, DamageBonus: "+1d4", Armor: 0, Move: "7",
			Skills:     map[string]int{"爪击": 40, "啃咬": 30, "闪避": 35},
			SanityLoss: "0/1d6",
		},
		{
			Name: "深潜者", EnglishName: "Deep One",
			Stats: stats(80, 80, 70, 70, 65, 60),
			HP: 15, DamageBonus: "+1d4", Armor: 1, Move: "8/8游",
			Skills:     map[string]int{"斗殴": 50, "追踪": 50, "闪避": 30},
			SanityLoss: "0/1d6",
		},
		{
			Name: "僵尸", EnglishName: "Zombie",
			Stats: stats(80, 80, 65, 0, 30, 25),
			HP: 15, DamageBonus: "+1d4", Armor: 2, Move: "5",
			Skills:     map[string]int{"击打": 30, "闪避": 0},
			SanityLoss: "0/1d8",
			Notes:      "穿刺伤害减半",
		},
		{
			Name: "猎犬", EnglishName: "Hunting Horror",
			Stats: stats(150, 110, 130, 80, 80, 90),
			HP: 24, DamageBonus: "+3d6", Armor: 5, Move: "10/飞",
			Skills:     map[string]int{"缠绕": 65, "啃咬": 55, "闪避": 45},
			SanityLoss: "1d3/1d10",
		},
		{
			Name: "夜魇", EnglishName: "Nightgaunt",
			Stats: stats(80, 80, 65, 50, 50, 90),
			HP: 15, DamageBonus: "+1d4", Armor: 0, Move: "6/12飞",
			Skills:     map[string]int{"爪击": 50, "挠痒": 90, "闪避": 45},
			SanityLoss: "1/1d6",
			Notes:      "挠痒成功令目标无法行动，直至对抗STR脱出",
		},
		{
			Name: "蛇人", EnglishName: "Serpent Person",
			Stats: stats(65, 80, 60, 75, 60, 70),
			HP: 14, DamageBonus: "0", Armor: 0, Move: "8",
			Skills:     map[string]int{"斗殴": 40, "毒牙": 30, "闪避": 35, "巫术": 65},
			SanityLoss: "0/1d6",
			Notes:      "毒牙命中后每轮失去1d6 CON，直至救治",
		},
		{
			Name: "米戈", EnglishName: "Mi-Go",
			Stats: stats(65, 65, 55, 90, 60, 80),
			HP: 12, DamageBonus: "0", Armor: 0, Move: "7/10飞",
			Skills:     map[string]int{"钳击": 45, "闪避": 40},
			SanityLoss: "0/1d6",
		},
		{
			Name: "暗夜游荡者", EnglishName: "Dark Young of Shub-Niggurath",
			Stats: stats(200, 175, 200, 70, 75, 50),
			HP: 37, DamageBonus: "+4d6", Armor: 3, Move: "10",
			Skills:     map[string]int{"踩踏": 90, "触须缠绕": 80, "闪避": 25},
			SanityLoss: "1d3/1d10",
		},
	}
}
