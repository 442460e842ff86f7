package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/voicecal/internal/core/domain"
)

type fakeCompleter struct {
	gotRequest openai.ChatCompletionRequest
	content    string
	err        error
	noChoices  bool
}

func (f *fakeCompleter) CreateChatCompletion(
	_ context.Context, req openai.ChatCompletionRequest,
) (openai.ChatCompletionResponse, error) {
	f.gotRequest = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	if f.noChoices {
		return openai.ChatCompletionResponse{}, nil
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.content}},
		},
	}, nil
}

func newTestExtractor(fake *fakeCompleter) *Extractor {
	return &Extractor{client: fake, model: defaultModel}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    domain.ExtractedEvent
	}{
		{
			name:    "plain json",
			content: `{"title":"lunch with sam","color":"#0000ff","datetime":"2024-01-02T12:00:00"}`,
			want: domain.ExtractedEvent{
				Title:    "lunch with sam",
				ColorHex: "#0000ff",
				Datetime: "2024-01-02T12:00:00",
			},
		},
		{
			name:    "fenced json",
			content: "```json\n{\"title\":\"dentist\",\"color\":null,\"datetime\":null}\n```",
			want:    domain.ExtractedEvent{Title: "dentist"},
		},
		{
			name:    "fence without language tag",
			content: "```\n{\"title\":null,\"color\":\"#ff0000\",\"datetime\":null}\n```",
			want:    domain.ExtractedEvent{ColorHex: "#ff0000"},
		},
		{
			name:    "all null",
			content: `{"title":null,"color":null,"datetime":null}`,
			want:    domain.ExtractedEvent{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractor := newTestExtractor(&fakeCompleter{content: tt.content})

			got, err := extractor.Extract(context.Background(), "some text", time.Now())
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestExtract_MalformedResponse(t *testing.T) {
	for _, content := range []string{"not json", "", "[1,2,3]", "```\nnot json\n```"} {
		t.Run(content, func(t *testing.T) {
			extractor := newTestExtractor(&fakeCompleter{content: content})

			_, err := extractor.Extract(context.Background(), "text", time.Now())
			assert.ErrorIs(t, err, domain.ErrMalformedExtraction)
		})
	}
}

func TestExtract_EmptyChoices(t *testing.T) {
	extractor := newTestExtractor(&fakeCompleter{noChoices: true})

	_, err := extractor.Extract(context.Background(), "text", time.Now())
	assert.ErrorIs(t, err, domain.ErrMalformedExtraction)
}

func TestExtract_TransportFailure(t *testing.T) {
	extractor := newTestExtractor(&fakeCompleter{err: errors.New("connection refused")})

	_, err := extractor.Extract(context.Background(), "text", time.Now())
	assert.ErrorIs(t, err, domain.ErrExtractorUnavailable)
}

func TestExtract_PromptContents(t *testing.T) {
	fake := &fakeCompleter{content: `{"title":null,"color":null,"datetime":null}`}
	extractor := newTestExtractor(fake)

	reference := time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC)
	_, err := extractor.Extract(context.Background(), "lunch with sam", reference)
	require.NoError(t, err)

	require.Len(t, fake.gotRequest.Messages, 1)
	prompt := fake.gotRequest.Messages[0].Content

	assert.Contains(t, prompt, "2024-01-01", "reference date anchors relative expressions")
	assert.Contains(t, prompt, `"lunch with sam"`)
	assert.Contains(t, prompt, "teal")
	assert.Contains(t, prompt, "lightblue: #add8e6", "named-colour table is embedded")
	assert.Contains(t, prompt, "If datetime is before or at now, return null")
}

func TestStripFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "no fence", input: `{"a":1}`, want: `{"a":1}`},
		{name: "json fence", input: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", input: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "unterminated fence", input: "```json\n{\"a\":1}", want: `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripFence(tt.input))
		})
	}
}
