package aisession

import (
	"fmt"
	"strings"

	"github.com/kaiwacoach/kaiwa-backend/internal/profile"
)

// Sentinel user inputs recognized in practice mode.
const (
	StartSentinel = "start"
	EndSentinel   = "ここで練習を終了します"
)

const normalPersona = `あなたは経験豊富なコミュニケーションコーチです。
ユーザーの相談に寄り添い、具体的で実践しやすいアドバイスを日本語で返してください。
説教はせず、良い点を認めたうえで改善のヒントを添えてください。`

const rephrasePersona = `あなたは言い換えの専門家です。
ユーザーの文章を、意味を変えずに指定されたスタイルで言い換えてください。
言い換えた文章だけを返してください。`

// openingInstruction replaces the "start" sentinel in the prompt so the
// model produces an opening line instead of replying to the literal word.
const openingInstruction = `（ロールプレイを開始してください。あなたから最初の一言を話しかけてください。）`

// closingInstruction is appended to the system prompt when the user ends a
// practice session: close the roleplay and emit the rubric block.
const closingInstruction = `

ユーザーが練習の終了を宣言しました。ロールプレイを終了し、これまでの会話を振り返って講評してください。
講評の最後に、必ず次の形式のJSONブロックを含めてください:

` + "```json" + `
{"scores": [{"axis": "明瞭さ", "score": 7, "comment": "..."}, {"axis": "共感", "score": 6, "comment": "..."}]}
` + "```" + `

axisは評価軸の名前、scoreは1〜10の整数です。`

// feedbackPersona builds the coach prompt from the user's coaching
// profile. A nil profile falls back to the plain persona.
func feedbackPersona(p *profile.CoachingProfile, sceneTag string) string {
	if p == nil {
		return normalPersona
	}
	var b strings.Builder
	b.WriteString("あなたは経験豊富なコミュニケーションコーチです。\n")
	b.WriteString("以下のプロフィールを持つユーザーの会話内容をレビューし、フィードバックしてください。\n\n")
	writeField := func(label, v string) {
		if v != "" {
			fmt.Fprintf(&b, "- %s: %s\n", label, v)
		}
	}
	writeField("名前", p.DisplayName)
	writeField("自己紹介", p.SelfIntroduction)
	writeField("コミュニケーションの傾向", p.CommStyle)
	writeField("性格・特性", p.Traits)
	writeField("目標", p.Goals)
	writeField("悩み", p.Concerns)
	writeField("希望するフィードバックスタイル", p.FeedbackStyle)
	if sceneTag != "" {
		fmt.Fprintf(&b, "- 対象シーン: %s\n", sceneTag)
	}
	b.WriteString("\nユーザーが貼り付けた会話を読み、良かった点と改善点を具体的に日本語で伝えてください。")
	return b.String()
}

// practicePersona builds the roleplay prompt for a scenario, with a
// difficulty-dependent tone.
func practicePersona(sc *profile.Scenario) string {
	var b strings.Builder
	fmt.Fprintf(&b, "あなたはロールプレイの相手役です。シナリオ「%s」で「%s」を演じてください。\n", sc.Name, sc.PartnerRole)
	if sc.Context != "" {
		fmt.Fprintf(&b, "状況: %s\n", sc.Context)
	}
	b.WriteString(difficultyTone(sc.Difficulty))
	b.WriteString("\n役になりきり、日本語で自然に応答してください。地の文や解説は書かないでください。")
	return b.String()
}

func difficultyTone(d profile.Difficulty) string {
	switch d {
	case profile.DifficultyBeginner:
		return "難易度は初級です。相手役として協力的で寛容に振る舞い、ユーザーが話しやすい雰囲気を作ってください。"
	case profile.DifficultyAdvanced:
		return "難易度は上級です。相手役として手強く、反論や無関心など厳しい反応も織り交ぜてください。"
	default:
		return "難易度は中級です。現実の相手と同じ程度の自然な反応を返してください。"
	}
}
