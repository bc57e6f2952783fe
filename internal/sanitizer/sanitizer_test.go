package sanitizer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPlainJSON(t *testing.T) {
	raw := `{"chosen_action": "DEEPEN", "next_utterance": "Tell me more."}`

	got, err := Extract(raw)
	require.NoError(t, err)
	assert.JSONEq(t, raw, got)
}

func TestExtractFencedJSON(t *testing.T) {
	raw := "```json\n{\"chosen_action\": \"CHALLENGE\", \"next_utterance\": \"Why?\"}\n```"

	got, err := Extract(raw)
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(got), &decoded))
	assert.Equal(t, "CHALLENGE", decoded["chosen_action"])
}

func TestExtractWithSurroundingProse(t *testing.T) {
	raw := `Sure! Here is my decision:
{"chosen_action": "TRANSITION", "next_utterance": "Let's switch topics. What about caching?"}
Hope that helps!`

	got, err := Extract(raw)
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(got), &decoded))
	assert.Equal(t, "TRANSITION", decoded["chosen_action"])
}

func TestExtractDoubledBraces(t *testing.T) {
	// Модели иногда экранируют фигурные скобки как в шаблонизаторах
	raw := `{{"chosen_action": "DEEPEN", "next_utterance": "Go deeper."}}`

	got, err := Extract(raw)
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(got), &decoded))
	assert.Equal(t, "DEEPEN", decoded["chosen_action"])
}

func TestExtractBalancedObjectWithTrailingGarbage(t *testing.T) {
	// Срез от первой { до последней } невалиден из-за мусорной скобки
	// в хвосте; сработать должен поиск сбалансированного объекта
	raw := `{"a": "b", "nested": {"c": "d"}} and then a stray }`

	got, err := Extract(raw)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(got), &decoded))
	assert.Equal(t, "b", decoded["a"])
}

func TestExtractBracesInsideStrings(t *testing.T) {
	raw := `{"next_utterance": "Use map[string]int{} here", "chosen_action": "DEEPEN"}`

	got, err := Extract(raw)
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(got)))
}

func TestExtractFailure(t *testing.T) {
	_, err := Extract("no json here at all")
	assert.ErrorIs(t, err, ErrParseFailure)
}

func TestSanitizeNeverFails(t *testing.T) {
	// Даже для мусора возвращается лучшая догадка, не паника
	assert.NotPanics(t, func() {
		_ = Sanitize("complete garbage {{{")
		_ = Sanitize("")
	})
}

func TestExtractStringField(t *testing.T) {
	raw := `broken json "chosen_action": "CHALLENGE", "next_utterance": "Could you expand?"`

	action, err := ExtractStringField(raw, "chosen_action")
	require.NoError(t, err)
	assert.Equal(t, "CHALLENGE", action)

	utterance, err := ExtractStringField(raw, "next_utterance")
	require.NoError(t, err)
	assert.Equal(t, "Could you expand?", utterance)

	_, err = ExtractStringField(raw, "missing_field")
	assert.ErrorIs(t, err, ErrParseFailure)
}
