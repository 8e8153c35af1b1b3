package openai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"storyforge/internal/domain"
	"storyforge/internal/ports"
)

var codeBlockRe = regexp.MustCompile("```(?:json)?\\s*\\n?([\\s\\S]*?)\\n?```")

// extractJSON pulls the outermost JSON value out of a model reply, stripping
// markdown code fences and any surrounding prose.
func extractJSON(result string) string {
	result = strings.TrimSpace(result)

	if matches := codeBlockRe.FindStringSubmatch(result); len(matches) > 1 {
		result = strings.TrimSpace(matches[1])
	}

	objStart := strings.Index(result, "{")
	arrStart := strings.Index(result, "[")
	start, closer := objStart, "}"
	if arrStart != -1 && (objStart == -1 || arrStart < objStart) {
		start, closer = arrStart, "]"
	}
	if start == -1 {
		return result
	}
	end := strings.LastIndex(result, closer)
	if end <= start {
		return result
	}
	return result[start : end+1]
}

// coerceToString flattens whatever the model put in a text field into a
// plain string. Arrays are joined with blank lines; objects become
// "**key:** value" bullet lines; scalars are printed as-is.
func coerceToString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := coerceToString(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "\n\n")
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		lines := make([]string, 0, len(keys))
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf("**%s:** %s", k, coerceToString(val[k])))
		}
		return strings.Join(lines, "\n")
	default:
		return fmt.Sprint(val)
	}
}

// unwrapObjectList extracts a list of JSON objects from the shapes models
// actually return: a bare array, an object wrapping the array under
// wrapperKey, or an object whose values are the entries. The matchers are
// tried in that order; nothing matching yields an empty list.
func unwrapObjectList(data []byte, wrapperKey string) []json.RawMessage {
	var arr []json.RawMessage
	if err := json.Unmarshal(data, &arr); err == nil {
		return arr
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil
	}

	if inner, ok := wrapper[wrapperKey]; ok {
		if err := json.Unmarshal(inner, &arr); err == nil {
			return arr
		}
	}

	// Object-of-values: collect the values that are themselves objects, in
	// sorted key order for determinism.
	keys := make([]string, 0, len(wrapper))
	for k := range wrapper {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []json.RawMessage
	for _, k := range keys {
		value := bytes.TrimSpace(wrapper[k])
		if len(value) > 0 && value[0] == '{' {
			out = append(out, wrapper[k])
		}
	}
	return out
}

// storyShape is the wire shape of one generated story.
type storyShape struct {
	Title              any `json:"title"`
	Description        any `json:"description"`
	AcceptanceCriteria any `json:"acceptanceCriteria"`
}

// normalizeStories coerces a model reply into a flat list of story contents.
// Accepts a bare array, {"stories":[...]}, or an object whose values are the
// story objects. Entries without a title are skipped.
func normalizeStories(reply string) []domain.StoryContent {
	raws := unwrapObjectList([]byte(extractJSON(reply)), "stories")

	var out []domain.StoryContent
	for _, raw := range raws {
		var shape storyShape
		if err := json.Unmarshal(raw, &shape); err != nil {
			continue
		}
		content := domain.StoryContent{
			Title:              coerceToString(shape.Title),
			Description:        coerceToString(shape.Description),
			AcceptanceCriteria: coerceToString(shape.AcceptanceCriteria),
		}
		if content.Title == "" {
			continue
		}
		out = append(out, content)
	}
	return out
}

// questionShape is the wire shape of one clarifying question. Some models
// emit the question text under "text" instead of "question".
type questionShape struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Text     string `json:"text"`
	Type     string `json:"type"`
	Options  []any  `json:"options"`
}

// normalizeQuestions coerces a model reply into a flat question list.
// Accepts a bare array, {"questions":[...]}, or an object whose values are
// the question objects; anything else yields an empty list.
func normalizeQuestions(reply string) []ports.Question {
	raws := unwrapObjectList([]byte(extractJSON(reply)), "questions")

	var out []ports.Question
	for i, raw := range raws {
		var shape questionShape
		if err := json.Unmarshal(raw, &shape); err != nil {
			continue
		}
		text := shape.Question
		if text == "" {
			text = shape.Text
		}
		if text == "" {
			continue
		}

		question := ports.Question{
			ID:   shape.ID,
			Text: text,
			Type: ports.AnswerType(shape.Type),
		}
		if question.ID == "" {
			question.ID = fmt.Sprintf("q%d", i+1)
		}
		switch question.Type {
		case ports.AnswerText, ports.AnswerSingleSelect, ports.AnswerMultiSelect:
		default:
			question.Type = ports.AnswerText
		}
		for _, opt := range shape.Options {
			if s := coerceToString(opt); s != "" {
				question.Options = append(question.Options, s)
			}
		}
		out = append(out, question)
	}
	return out
}
