package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ModelResponseError reports a model reply that could not be used: it did not
// match the requested JSON shape, or the call itself failed or timed out.
type ModelResponseError struct {
	Raw string
	Err error
}

func (e *ModelResponseError) Error() string {
	return fmt.Sprintf("invalid model response: %v", e.Err)
}

func (e *ModelResponseError) Unwrap() error { return e.Err }

// Validator is implemented by reply types with required fields.
type Validator interface {
	Validate() error
}

// ParseStructuredReply decodes a model reply that should be a single JSON
// object. Markdown fences and any prose around the outermost braces are
// dropped first.
func ParseStructuredReply[T any](text string) (T, error) {
	var out T
	cleaned := ExtractJSONObject(text)
	if cleaned == "" {
		return out, &ModelResponseError{Raw: text, Err: fmt.Errorf("no JSON object in reply")}
	}
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return out, &ModelResponseError{Raw: text, Err: err}
	}
	if v, ok := any(&out).(Validator); ok {
		if err := v.Validate(); err != nil {
			return out, &ModelResponseError{Raw: text, Err: err}
		}
	}
	return out, nil
}

// ExtractJSONObject strips a leading ```json (or bare ```) fence and a
// trailing ``` fence, then returns the text between the first '{' and the
// last '}'. Backticks inside the object are left alone.
func ExtractJSONObject(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(s, "json")
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return ""
	}
	return s[start : end+1]
}
