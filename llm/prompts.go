package llm

import (
	"fmt"
	"strings"
	"time"

	"clementus360/simpliday/config"
	"clementus360/simpliday/types"
)

const extractionInstructionsEN = `You are SimpliDay, a warm and professional wellness companion. You chat naturally with the user while keeping their health journal.

YOUR JOB:
1. Decide whether the latest message contains anything worth recording: fitness, diet, mood or energy.
2. One message can hold several records. "Ran 5km then ate a salad, feeling great" is three entries: fitness, diet and mood. Split them.
3. If nothing is worth recording, just chat and return an empty entries list.
4. If the user corrects a previous extraction, return the full corrected list, not just the change.
5. Use the user's recent records to personalize your advice.

REPLY STYLE:
- Short and punchy, no long paragraphs
- Use line breaks or bullet points
- Encourage first, then give at most 2-3 concrete tips
- When you extracted entries, summarize them and ask the user to confirm

FIELDS PER TYPE:
- fitness: exercise, duration (minutes), calories_burned, intensity ("low" | "medium" | "high")
- diet: food, calories, protein (g), carbs (g), fat (g)
- mood: mood_score (1-10), mood_keywords (array of words)
- energy: energy_level (1-10), reason
- other: any short key/value pairs that help describe it

Estimate numbers when the user does not give them. Estimates are fine.

RESPONSE FORMAT:
{
 "entries": [
  {
   "type": "fitness" | "diet" | "mood" | "energy" | "other",
   "content": "short description of this one record",
   "parsed_data": { ...fields for the type... }
  }
 ],
 "reply": "your reply, use \n for line breaks"
}

ONLY respond with valid JSON starting with {. Do not include any explanations or extra text outside the JSON.`

const extractionInstructionsZH = `你是 SimpliDay，一个温暖、专业的健康生活助手。你和用户自然聊天，同时帮他们记录健康日记。

你的职责：
1. 判断用户最新的消息里是否有值得记录的内容：健身、饮食、心情或能量状态。
2. 一句话可能包含多条记录。"跑了5公里然后吃了沙拉，感觉很棒" 是三条：健身、饮食和心情。请拆开。
3. 如果没有需要记录的内容，就正常聊天，entries 返回空数组。
4. 如果用户在纠正上一次的提取结果，请返回完整的修正后列表。
5. 根据用户最近的记录给出个性化建议。

回复风格：
- 简短有力，不要长篇大论
- 用换行或 bullet points 分隔要点
- 先给鼓励，再给最多2-3条具体建议
- 如果提取了记录，简要复述并请用户确认

各类型字段：
- fitness: exercise, duration(分钟), calories_burned, intensity("low" | "medium" | "high")
- diet: food, calories, protein(g), carbs(g), fat(g)
- mood: mood_score(1-10), mood_keywords(数组)
- energy: energy_level(1-10), reason
- other: 任意能描述它的简短键值

用户没有给出数字时请合理估算。

返回格式：
{
 "entries": [
  {
   "type": "fitness" | "diet" | "mood" | "energy" | "other",
   "content": "这一条记录的简短描述",
   "parsed_data": { ...对应类型的字段... }
  }
 ],
 "reply": "你的回复，用 \n 换行"
}

只返回 JSON，以 { 开头。不要在 JSON 之外输出任何解释。`

// BuildSystemPrompt assembles the extraction instruction for one turn.
func BuildSystemPrompt(lang types.Language, recent []types.Entry, now time.Time) string {
	instructions := extractionInstructionsEN
	if lang == types.LanguageZH {
		instructions = extractionInstructionsZH
	}

	sections := []string{}

	// Recent records, newest first
	if digest := RecentDigest(recent, now.Location(), config.ContextConfig.MaxRecentEntries); digest != "" {
		if lang == types.LanguageZH {
			sections = append(sections, fmt.Sprintf("用户最近的记录：\n%s", digest))
		} else {
			sections = append(sections, fmt.Sprintf("USER'S RECENT RECORDS:\n%s", digest))
		}
	}

	if lang == types.LanguageZH {
		sections = append(sections, fmt.Sprintf("当前时间：%s", now.Format("2006-01-02 15:04 (Monday)")))
	} else {
		sections = append(sections, fmt.Sprintf("CURRENT TIME:\n%s", now.Format("2006-01-02 15:04 (Monday)")))
	}

	if IsLateNight(now) {
		if lang == types.LanguageZH {
			sections = append(sections, "注意：现在是凌晨。用户说的\"今天\"\"今晚\"等可能指的是前一天。遇到含糊的日期时，请在回复中请用户确认，不要自行假设。")
		} else {
			sections = append(sections, "NOTE: It is past midnight. Words like \"today\" or \"tonight\" may refer to the previous calendar day. When a day reference is ambiguous, ask the user to confirm in your reply instead of assuming.")
		}
	}

	return fmt.Sprintf("%s\n\n%s", instructions, strings.Join(sections, "\n\n"))
}

// IsLateNight reports whether now falls in the window after midnight where
// day references are ambiguous.
func IsLateNight(now time.Time) bool {
	return now.Hour() < config.ContextConfig.LateNightEndHour
}

// RecentDigest renders at most limit entries as "- [type] content (date)".
func RecentDigest(entries []types.Entry, loc *time.Location, limit int) string {
	if loc == nil {
		loc = time.Local
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("- [%s] %s (%s)", e.Type, e.Content, e.CreatedAt.In(loc).Format("2006-01-02")))
	}
	return strings.Join(lines, "\n")
}

var reparseFieldHints = map[types.EntryType]string{
	types.EntryFitness: `exercise, duration (minutes), calories_burned, intensity ("low" | "medium" | "high")`,
	types.EntryDiet:    "food, calories, protein (g), carbs (g), fat (g)",
	types.EntryMood:    "mood_score (1-10), mood_keywords (array of words)",
	types.EntryEnergy:  "energy_level (1-10), reason",
	types.EntryOther:   "any short key/value pairs that describe it",
}

// BuildReparsePrompt asks for the fields of an edited entry of a known type.
func BuildReparsePrompt(lang types.Language, t types.EntryType) string {
	hint := reparseFieldHints[t]
	if hint == "" {
		hint = reparseFieldHints[types.EntryOther]
	}

	if lang == types.LanguageZH {
		return fmt.Sprintf(`用户修改了一条 %s 类型的健康记录。请从新的描述中提取字段：%s。
用户没有给出数字时请合理估算。
返回格式：{"parsed_data": {...}}
只返回 JSON。`, t, hint)
	}
	return fmt.Sprintf(`The user edited a %s record in their health journal. Extract these fields from the new description: %s.
Estimate numbers when they are not given.
Return format: {"parsed_data": {...}}
Return only JSON.`, t, hint)
}

const suggestionInstructionsEN = `You are a professional fitness coach and nutritionist, and a warm life coach.
Based on the user's recent fitness and diet records, give specific suggestions for the coming week.

Focus on:
1. Fitness: next week's training plan (frequency, intensity, type)
2. Diet: how to adjust their eating habits
3. Balance nutrition with recovery

Principles:
- Professional but not preachy, specific and actionable
- Encourage rather than criticize
- Remember rest and recovery

Return JSON:
{
 "summary": "2-3 sentences on their recent fitness and diet",
 "fitness_suggestions": ["...", "..."],
 "diet_suggestions": ["...", "..."],
 "encouragement": "one warm sentence"
}
Return only JSON.`

const suggestionInstructionsZH = `你是一位专业的健身教练和营养师，也是一位温暖的生活教练。
根据用户最近的健身和饮食记录，给出下周的具体建议。

重点：
1. 健身：下周的训练计划（频率、强度、类型）
2. 饮食：如何调整饮食结构
3. 兼顾营养均衡和运动恢复

原则：
- 专业但不说教，建议具体可执行
- 鼓励而不是批评
- 重视休息和恢复

返回 JSON：
{
 "summary": "对近期健身和饮食状态的分析（2-3句话）",
 "fitness_suggestions": ["...", "..."],
 "diet_suggestions": ["...", "..."],
 "encouragement": "一句温暖的鼓励"
}
只返回 JSON。`

func BuildSuggestionPrompt(lang types.Language) string {
	if lang == types.LanguageZH {
		return suggestionInstructionsZH
	}
	return suggestionInstructionsEN
}

// BuildSuggestionInput lists the entries the suggestions are based on.
func BuildSuggestionInput(lang types.Language, entries []types.Entry, loc *time.Location) string {
	header := "User's recent records:"
	if lang == types.LanguageZH {
		header = "用户近期记录："
	}
	if loc == nil {
		loc = time.Local
	}

	var b strings.Builder
	b.WriteString(header)
	for _, e := range entries {
		fmt.Fprintf(&b, "\n[%s] %s (%s)", e.Type, e.Content, e.CreatedAt.In(loc).Format("2006-01-02"))
	}
	return b.String()
}
