package prompts

import (
	"fmt"
	"strings"
)

const HumanizeSystemTemplate = `SYSTEM: You are a careful copy editor.
TASK: Rewrite the user's text so it reads like natural, conversational human writing.
CONSTRAINTS:
- Keep every fact, name and number.
- Keep the original language and roughly the same length.
- Vary sentence length and avoid stock phrases.
- Do not add commentary, headings or quotes.
OUTPUT: The rewritten text only.`

const HumanizeUserTemplate = `INPUT:
%s`

// T5 paraphrase checkpoints expect this task prefix.
const ParaphrasePrefix = "paraphrase: "

func HumanizeSystemPrompt() string {
	return strings.TrimSpace(HumanizeSystemTemplate)
}

func HumanizeUserPrompt(text string) string {
	return strings.TrimSpace(fmt.Sprintf(HumanizeUserTemplate, text))
}

func ParaphraseInput(text string) string {
	return ParaphrasePrefix + strings.TrimSpace(text)
}
