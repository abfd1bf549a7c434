package tutor

import (
	"sort"
	"strconv"
	"strings"
	"text/template"
)

var promptTmpl = template.Must(template.New("prompt").Parse(`You are an AI tutor specializing in personalized learning.

Based on the student's diagnostic quiz results and the current learning topic, provide personalized learning resource recommendations and assistance.

Quiz Results:
{{range .Scores}}  {{.Key}}: {{.Value}}
{{end}}
Learning Topic: {{.Topic}}

Recommendations:
- List relevant video URLs, article links, and practice exercises.

Assistance:
- If the student is struggling, offer hints or simpler questions related to the topic.`))

type score struct {
	Key   string
	Value string
}

// RenderPrompt builds the instruction text sent to the model. Scores are listed in key order.
func RenderPrompt(in Input) (string, error) {
	keys := make([]string, 0, len(in.QuizResults))
	for k := range in.QuizResults {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	scores := make([]score, 0, len(keys))
	for _, k := range keys {
		scores = append(scores, score{Key: k, Value: strconv.FormatFloat(in.QuizResults[k], 'f', -1, 64)})
	}

	var b strings.Builder
	err := promptTmpl.Execute(&b, struct {
		Scores []score
		Topic  string
	}{scores, in.LearningTopic})
	return b.String(), err
}
