// Package extract pulls a JSON object out of free-form model output.
// Models inconsistently wrap JSON in explanatory prose or code fences, so a
// single-strategy parser would reject a large fraction of otherwise valid
// replies.
package extract

import (
	"encoding/json"
	"regexp"
	"strings"
)

var fencedJSON = regexp.MustCompile("```(?:json)?\\s*\\n([\\s\\S]*?)\\n\\s*```")

// JSON extracts a JSON object from text. Strategies, in order: the whole
// text, the interior of a fenced code block, the first balanced top-level
// object. Reports false when none of the three yields valid JSON.
func JSON(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if isObject(trimmed) {
		return trimmed, true
	}

	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		candidate := strings.TrimSpace(m[1])
		if isObject(candidate) {
			return candidate, true
		}
	}

	if candidate, ok := balancedObject(text); ok && isObject(candidate) {
		return candidate, true
	}

	return "", false
}

func isObject(s string) bool {
	return strings.HasPrefix(s, "{") && json.Valid([]byte(s))
}

// balancedObject scans for the first top-level {...} span, tracking string
// literals and escapes so braces inside values are not miscounted.
func balancedObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
