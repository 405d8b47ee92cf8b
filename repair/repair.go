// Package repair recovers JSON values from free-form language model output.
//
// Model replies are not guaranteed to be well-formed JSON: they may be wrapped
// in Markdown code fences, surrounded by prose, or carry small syntax slips.
// Extract never fails; when nothing usable can be recovered it returns the
// empty value of the requested shape.
package repair

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"

	"github.com/titanous/json5"
)

// Shape is the kind of top-level JSON value the caller expects.
type Shape int

const (
	// List expects a JSON array.
	List Shape = iota
	// Object expects a JSON object.
	Object
)

// diagnosticLen is how much of an unparseable reply is logged.
const diagnosticLen = 200

var (
	fencePattern     = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	outerPattern     = regexp.MustCompile(`(?s)^[^{\[]*([{\[].*[}\]])[^}\]]*$`)
	arrayPattern     = regexp.MustCompile(`(?s)\[\s*\{.*?\}\s*\]`)
	objectSeqPattern = regexp.MustCompile(`(?s)\{.*?\}(?:\s*,\s*\{.*?\})*`)
)

// Extract returns the JSON value of the given shape found in text:
// a []any for List or a map[string]any for Object.
// A value of the wrong shape is rejected, not coerced.
func Extract(text string, shape Shape) any {
	return ExtractWithLogger(text, shape, nil)
}

// ExtractList is Extract for List with a typed result. Never nil.
func ExtractList(text string) []any {
	v, _ := Extract(text, List).([]any)
	if v == nil {
		return []any{}
	}
	return v
}

// ExtractObject is Extract for Object with a typed result. Never nil.
func ExtractObject(text string) map[string]any {
	v, _ := Extract(text, Object).(map[string]any)
	if v == nil {
		return map[string]any{}
	}
	return v
}

// ExtractWithLogger is Extract reporting unrecoverable input to logger at
// debug level. A nil logger discards the report.
func ExtractWithLogger(text string, shape Shape, logger *slog.Logger) any {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if strings.TrimSpace(text) == "" {
		return empty(shape)
	}

	cleaned := fencePattern.ReplaceAllString(text, "$1")
	cleaned = outerPattern.ReplaceAllString(cleaned, "$1")
	cleaned = strings.TrimSpace(cleaned)

	if v, ok := parse(cleaned, shape); ok {
		return v
	}

	if shape == List {
		for _, re := range []*regexp.Regexp{arrayPattern, objectSeqPattern} {
			match := re.FindString(cleaned)
			if match == "" {
				continue
			}
			if !strings.HasPrefix(strings.TrimSpace(match), "[") {
				match = "[" + match + "]"
			}
			if v, ok := parse(match, List); ok {
				return v
			}
		}
	}

	logger.Debug("failed to extract JSON", "text", truncate(text, diagnosticLen))
	return empty(shape)
}

// parse tries strict JSON first and then the lenient JSON5 grammar.
func parse(s string, shape Shape) (any, bool) {
	var strict any
	if err := json.Unmarshal([]byte(s), &strict); err == nil {
		return strict, matches(strict, shape)
	}
	var lenient any
	if err := json5.Unmarshal([]byte(s), &lenient); err == nil {
		return lenient, matches(lenient, shape)
	}
	return nil, false
}

func matches(v any, shape Shape) bool {
	switch shape {
	case List:
		_, ok := v.([]any)
		return ok
	case Object:
		_, ok := v.(map[string]any)
		return ok
	}
	return false
}

func empty(shape Shape) any {
	if shape == Object {
		return map[string]any{}
	}
	return []any{}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
