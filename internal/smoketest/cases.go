package smoketest

// Case 一条冒烟测试用例。Expected 仅用于展示参考，从不参与校验。
type Case struct {
	Name     string
	Persian  string
	Expected string
}

// TranslatePromptPrefix /responses 调用的固定提示词前缀
const TranslatePromptPrefix = "Translate this Persian medical text to clear English. Return only the English translation: "

// ChatSystemPrompt chat/completions 单次调用的系统提示词
const ChatSystemPrompt = "Translate all user input Persian medical text to clear, precise English. Return only English, nothing else."

// DefaultOneShotInput chat 单次调用的默认输入
const DefaultOneShotInput = "ماکسیمم دوز هیدرورلازین"

// DefaultCases 返回固定的波斯语医学文本用例表
func DefaultCases() []Case {
	return []Case{
		{
			Name:     "Simple drug dose question",
			Persian:  "دوز متوپرولول",
			Expected: "metoprolol dose",
		},
		{
			Name:     "Maximum dose question",
			Persian:  "حداکثر دوز وانکومایسین چقدر است؟",
			Expected: "What is the maximum dose of vancomycin?",
		},
		{
			Name:     "Mixed content",
			Persian:  "maximum dose وانکومایسین",
			Expected: "maximum dose vancomycin",
		},
		{
			Name:     "Drug interaction",
			Persian:  "تداخل دارویی آسپرین و وارفارین",
			Expected: "drug interaction aspirin and warfarin",
		},
	}
}
