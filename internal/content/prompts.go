package content

// Summary prompts per target language. The transcription itself always
// stays in the source language; only the summary is steered.
const (
	summaryPromptEN = "Generate a comprehensive summary of the following video transcription in English. " +
		"Keep the main points, named people and places, and any conclusions."
	summaryPromptRU = "Сгенерируй подробное резюме следующей транскрипции видео на русском языке. " +
		"Сохрани основные мысли, имена и выводы."
	summaryPromptLT = "Sugeneruok išsamią šios vaizdo įrašo transkripcijos santrauką lietuvių kalba. " +
		"Išlaikyk pagrindines mintis, vardus ir išvadas."
)

var summaryPrompts = map[string]string{
	"en": summaryPromptEN,
	"ru": summaryPromptRU,
	"lt": summaryPromptLT,
}

// SupportedLanguages lists the summary languages in the order the client
// cycles through them.
func SupportedLanguages() []string {
	return []string{"en", "ru", "lt"}
}

// SummarySystemPrompt returns the summarization instruction for the target
// language. Unknown languages fall back to English.
func SummarySystemPrompt(language string) string {
	if prompt, ok := summaryPrompts[language]; ok {
		return prompt
	}
	return summaryPromptEN
}
