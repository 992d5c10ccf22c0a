package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatReply struct {
	NextQuestion string `json:"nextQuestion"`
}

func (r *chatReply) Validate() error {
	if r.NextQuestion == "" {
		return errors.New("nextQuestion is empty")
	}
	return nil
}

func TestParseStructuredReply(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"nextQuestion":"What is it about?"}`, "What is it about?"},
		{"fenced", "```json\n{\"nextQuestion\":\"Colors?\"}\n```", "Colors?"},
		{"bare fence", "```\n{\"nextQuestion\":\"Pages?\"}\n```", "Pages?"},
		{"prose around", "Sure! Here you go:\n{\"nextQuestion\":\"Fonts?\"}\nHope it helps.", "Fonts?"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseStructuredReply[chatReply](tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.NextQuestion)
		})
	}
}

func TestParseStructuredReply_Errors(t *testing.T) {
	for _, in := range []string{
		"I am not JSON",
		`{"nextQuestion": }`,
		`{"other":"field"}`,
		"",
	} {
		_, err := ParseStructuredReply[chatReply](in)
		var mre *ModelResponseError
		require.True(t, errors.As(err, &mre), in)
		assert.Equal(t, in, mre.Raw)
	}
}

func TestExtractJSONObject(t *testing.T) {
	assert.Equal(t, `{"a":{"b":1}}`, ExtractJSONObject("x {\"a\":{\"b\":1}} y"))
	assert.Equal(t, "", ExtractJSONObject("} {"))
	assert.Equal(t, `{"a":1}`, ExtractJSONObject("```json {\"a\":1} ```"))
}

func TestParseStructuredReply_KeepsBackticksInValues(t *testing.T) {
	type siteReply struct {
		HTML string `json:"html"`
		JS   string `json:"js"`
	}
	in := "```json\n{\"html\":\"<pre>```go\\nx := 1\\n```</pre>\",\"js\":\"const s = `${a}```;\"}\n```"
	got, err := ParseStructuredReply[siteReply](in)
	require.NoError(t, err)
	assert.Equal(t, "<pre>```go\nx := 1\n```</pre>", got.HTML)
	assert.Equal(t, "const s = `${a}```;", got.JS)
}
