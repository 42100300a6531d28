package ai

import (
	"strings"

	"github.com/starford/mindcare/internal/models"
)

func suggestionPrompt(text string) string {
	var sb strings.Builder
	sb.WriteString("As a mental health AI assistant, provide a supportive and helpful suggestion for this thought: \"")
	sb.WriteString(text)
	sb.WriteString("\"\n\n")
	sb.WriteString("Do not answer in one go. Think the thought through first, then give your response.\n\n")
	sb.WriteString("Response:")
	return sb.String()
}

func moodPrompt(text string) string {
	labels := make([]string, len(models.AnalysisMoods))
	for i, m := range models.AnalysisMoods {
		labels[i] = string(m)
	}

	var sb strings.Builder
	sb.WriteString("Analyze the mood expressed in this thought: \"")
	sb.WriteString(text)
	sb.WriteString("\"\n\n")
	sb.WriteString("Respond with ONLY a JSON object in this exact format:\n")
	sb.WriteString("{\n  \"mood\": \"")
	sb.WriteString(strings.Join(labels, "|"))
	sb.WriteString("\",\n  \"confidence\": 0.85,\n  \"keywords\": [\"keyword1\", \"keyword2\", \"keyword3\"]\n}\n\n")
	sb.WriteString("Choose the most appropriate mood from the list above. ")
	sb.WriteString("Confidence must be between 0 and 1. Keywords must be 2-4 relevant emotional words.")
	return sb.String()
}
