package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"json code block", "```json\n{\"text\": \"Bonsoir\"}\n```", `{"text": "Bonsoir"}`},
		{"generic code block", "```\n{\"text\": \"Bonsoir\"}\n```", `{"text": "Bonsoir"}`},
		{"plain JSON", `{"text": "Bonsoir"}`, `{"text": "Bonsoir"}`},
		{"preamble", "Voici la transcription :\n{\"text\": \"Bonsoir\"}", `{"text": "Bonsoir"}`},
		{"preamble and trailer", "Résultat {\"text\": \"a}b\"} fin", `{"text": "a}b"}`},
		{"array", "Segments: [{\"text\": \"a\"}]", `[{"text": "a"}]`},
		{"no json", "désolé", "désolé"},
		{"unbalanced", "note {\"text\": ", "note {\"text\":"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple object", `{"key": "value"}`, `{"key": "value"}`},
		{"nested objects", `{"outer": {"inner": "value"}}`, `{"outer": {"inner": "value"}}`},
		{"trailing text", `{"key": "value"} and more`, `{"key": "value"}`},
		{"braces inside string", `{"template": "Hello {name}!"}`, `{"template": "Hello {name}!"}`},
		{"escaped quote", `{"q": "il a dit \"oui}\""}`, `{"q": "il a dit \"oui}\""}`},
		{"empty input", "", ""},
		{"not starting with brace", "not json", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractJSONObject(tt.input))
		})
	}
}

func TestExtractJSONArray(t *testing.T) {
	assert.Equal(t, `[[1, 2], [3, 4]]`, extractJSONArray(`[[1, 2], [3, 4]] extra`))
	assert.Equal(t, "", extractJSONArray("not array"))
}
