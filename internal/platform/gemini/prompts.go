package gemini

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/mcollier/waypoint-api/internal/task"
)

// promptData is the data passed to the prompt templates
type promptData struct {
	Passage string
}

// Prompt templates per exploration kind. Deepen stays inside the current
// passage; next-step points the reader onward.
const (
	deepenPromptTemplate = `You are a reading companion helping a reader go deeper into a passage.

Passage:
{{.Passage}}

Write a focused exploration of this passage: surface the key claims, explain the
ideas a careful reader might miss, and pose two questions worth sitting with.
Respond in plain prose without headings.`

	nextStepPromptTemplate = `You are a reading companion helping a reader decide what to explore next.

Passage:
{{.Passage}}

Suggest the single most rewarding next step for this reader: a concept, author,
or text to pursue, with a short explanation of why it follows naturally from the
passage. Respond in plain prose without headings.`
)

var promptTemplates = map[task.Kind]*template.Template{
	task.KindDeepen:   template.Must(template.New("deepen").Parse(deepenPromptTemplate)),
	task.KindNextStep: template.Must(template.New("next_step").Parse(nextStepPromptTemplate)),
}

// buildPrompt renders the template for the given kind. Unknown kinds fall
// back to the next-step template rather than failing the task.
func buildPrompt(kind task.Kind, passage string) (string, error) {
	if passage == "" {
		return "", ErrEmptyPassage
	}

	tmpl, ok := promptTemplates[kind]
	if !ok {
		tmpl = promptTemplates[task.KindNextStep]
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, promptData{Passage: passage}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}
