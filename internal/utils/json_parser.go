package utils

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	fencedJSONPattern   = regexp.MustCompile("(?s)```json\\s*(.+?)\\s*```")
	fencedAnyPattern    = regexp.MustCompile("(?s)```\\s*(.+?)\\s*```")
	trailingCommaRegexp = regexp.MustCompile(`,\s*([}\]])`)
	bareKeyPattern      = regexp.MustCompile(`([{,]\s*)(\w+)(\s*:)`)
	controlCharsPattern = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F]`)
)

// ParseAIJSON decodes a JSON object out of model output. The output may be
// plain JSON, fenced in a markdown code block, embedded in prose, or carry the
// usual small defects (trailing commas, bare keys, single quotes).
func ParseAIJSON(input string, target interface{}) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return fmt.Errorf("empty input")
	}

	if err := json.Unmarshal([]byte(input), target); err == nil {
		return nil
	}

	if extracted := extractFromMarkdown(input); extracted != "" {
		if err := json.Unmarshal([]byte(extracted), target); err == nil {
			return nil
		}
	}

	if extracted := extractJSONObject(input); extracted != "" {
		if err := json.Unmarshal([]byte(extracted), target); err == nil {
			return nil
		}
		if err := json.Unmarshal([]byte(cleanAndFixJSON(extracted)), target); err == nil {
			return nil
		}
	}

	if err := json.Unmarshal([]byte(cleanAndFixJSON(input)), target); err == nil {
		return nil
	}

	return fmt.Errorf("failed to parse JSON from input: %s", truncateString(input, 100))
}

func extractFromMarkdown(input string) string {
	if matches := fencedJSONPattern.FindStringSubmatch(input); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	if matches := fencedAnyPattern.FindStringSubmatch(input); len(matches) > 1 {
		content := strings.TrimSpace(matches[1])
		if strings.HasPrefix(content, "{") {
			return content
		}
	}

	return ""
}

// extractJSONObject returns the first balanced {...} span of the input.
func extractJSONObject(input string) string {
	start := strings.Index(input, "{")
	if start < 0 {
		return ""
	}
	return extractBalanced(input[start:], '{', '}')
}

func extractBalanced(input string, open, close rune) string {
	depth := 0
	inString := false
	escape := false

	for i, ch := range input {
		if escape {
			escape = false
			continue
		}

		switch {
		case ch == '\\':
			escape = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == open:
			depth++
		case ch == close:
			depth--
			if depth == 0 {
				return input[:i+1]
			}
		}
	}

	return ""
}

func cleanAndFixJSON(input string) string {
	s := strings.TrimSpace(input)
	s = strings.TrimPrefix(s, "\ufeff")
	s = trailingCommaRegexp.ReplaceAllString(s, "$1")
	s = bareKeyPattern.ReplaceAllString(s, `$1"$2"$3`)
	s = fixSingleQuotes(s)
	return controlCharsPattern.ReplaceAllString(s, "")
}

// fixSingleQuotes turns single-quoted JSON strings into double-quoted ones,
// leaving apostrophes inside words and inside double-quoted strings alone.
func fixSingleQuotes(input string) string {
	var result strings.Builder
	inDoubleQuote := false
	inSingleQuote := false
	escape := false
	var prev rune

	for _, ch := range input {
		switch {
		case escape:
			escape = false
		case ch == '\\':
			escape = true
		case ch == '"' && !inSingleQuote:
			inDoubleQuote = !inDoubleQuote
		case ch == '\'' && !inDoubleQuote:
			if inSingleQuote {
				inSingleQuote = false
				ch = '"'
			} else if strings.ContainsRune(":,[{ ", prev) || prev == 0 {
				inSingleQuote = true
				ch = '"'
			}
		}
		result.WriteRune(ch)
		prev = ch
	}

	return result.String()
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
