// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"strings"
	"text/template"
	"unicode/utf8"
)

// promptWindow is the number of leading runes of the document shown to the
// model. Later content is never consulted by the model path.
const promptWindow = 5000

// metadataPromptTmpl asks the model for exactly the five metadata keys as a
// bare JSON object.
var metadataPromptTmpl = template.Must(template.New("metadata").Parse(`Extract the research paper metadata from the following text.
Return output in EXACT JSON format (no surrounding explanation) with these keys:
"title", "authors", "journal", "year", "doi".

If something is missing, return an empty string for that field.
Only return JSON.

TEXT:
{{.Text}}`))

// renderPrompt executes the metadata prompt template over the leading
// window of text.
func renderPrompt(text string) (string, error) {
	var buf bytes.Buffer
	if err := metadataPromptTmpl.Execute(&buf, struct{ Text string }{Text: Leading(text, promptWindow)}); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

// Leading returns the first n runes of s.
func Leading(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// trailing returns the last n runes of s.
func trailing(s string, n int) string {
	count := 0
	for i := len(s); i > 0; {
		if count == n {
			return s[i:]
		}
		_, size := utf8.DecodeLastRuneInString(s[:i])
		i -= size
		count++
	}
	return s
}
