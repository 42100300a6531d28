package mcpserver

import (
	"strings"

	"github.com/starford/mindcare/internal/models"
)

const guideURI = "mindcare://journal-guide"

// JournalGuide describes how thoughts are shaped, for LLM clients writing
// entries on the user's behalf.
var JournalGuide = buildGuide()

func buildGuide() string {
	moods := make([]string, len(models.Moods))
	for i, m := range models.Moods {
		moods[i] = "`" + string(m) + "`"
	}
	analysis := make([]string, len(models.AnalysisMoods))
	for i, m := range models.AnalysisMoods {
		analysis[i] = "`" + string(m) + "`"
	}

	var sb strings.Builder
	sb.WriteString("# Mindcare Journal Guide\n\n")
	sb.WriteString("A thought is a short journal entry written by the user.\n\n")
	sb.WriteString("## Fields\n\n")
	sb.WriteString("- **content**: required, 1-2000 characters after trimming. Write in the user's own voice.\n")
	sb.WriteString("- **mood**: optional, one of " + strings.Join(moods, ", ") + ". Defaults to `neutral`.\n")
	sb.WriteString("- **tags**: optional list of short labels (at most 20, each up to 50 characters). Order is kept.\n\n")
	sb.WriteString("## AI suggestion\n\n")
	sb.WriteString("Every new thought receives a supportive suggestion. When the content of a thought changes, ")
	sb.WriteString("the suggestion is regenerated. If the AI service is unavailable the thought is still saved ")
	sb.WriteString("with a placeholder suggestion.\n\n")
	sb.WriteString("## Mood analysis\n\n")
	sb.WriteString("`analyze_mood` returns one of " + strings.Join(analysis, ", "))
	sb.WriteString(" with a confidence between 0 and 1 and 2-4 keywords. It is never stored with the thought.\n")
	return sb.String()
}
