// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import "strings"

// CleanJSON strips the formatting models wrap around structured output
// (code fences, a leading sentence of prose) and returns the remainder,
// which should start at the first '{' or '['. Text with no delimiter comes
// back trimmed so the strict parse downstream can reject it.
func CleanJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")

	if idx := strings.IndexAny(s, "{["); idx > 0 {
		s = s[idx:]
	}
	return strings.TrimSpace(s)
}
