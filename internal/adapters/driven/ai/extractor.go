// Package ai implements the extraction collaborator on top of the OpenAI
// chat completions API.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/voicecal/internal/core/domain"
	"github.com/custodia-labs/voicecal/internal/core/ports/driven"
)

// defaultModel is used when no model is configured.
const defaultModel = openai.GPT4o

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// chatCompleter is the slice of the OpenAI client the extractor needs.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Extractor pulls {title, color, datetime} out of a transcript.
type Extractor struct {
	client chatCompleter
	model  string
}

// NewExtractor creates an extractor backed by the OpenAI API.
func NewExtractor(apiKey, model string) *Extractor {
	if model == "" {
		model = defaultModel
	}
	return &Extractor{client: openai.NewClient(apiKey), model: model}
}

// Extract asks the model for the structured record. The response is decoded
// strictly: anything that does not parse as the expected shape is a
// malformed-extraction error, never trusted ad hoc.
func (e *Extractor) Extract(ctx context.Context, text string, referenceDate time.Time) (*domain.ExtractedEvent, error) {
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(text, referenceDate)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrExtractorUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", domain.ErrMalformedExtraction)
	}
	return parseCompletion(resp.Choices[0].Message.Content)
}

// buildPrompt writes the extraction instructions: the reference date for
// relative expressions, the named-colour table so spoken colour names come
// back as hex, the noon-defaulting rule, and the past-instant rule.
func buildPrompt(text string, referenceDate time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Assume today's date is %s.\n", referenceDate.Format("2006-01-02"))
	b.WriteString("Extract from this text the title, the color (as hex if named or hex given, else null), ")
	b.WriteString("and the datetime (ISO format, or null if none).\n\n")
	fmt.Fprintf(&b, "Text: %q\n\n", text)
	b.WriteString("Return ONLY a JSON object with keys: title, color, datetime.\n")
	b.WriteString("If the date is not specified, set it to today at noon or tomorrow at noon if it's already past noon.\n")
	b.WriteString("If the color is not mentioned, set it to teal.\n")
	b.WriteString("If datetime is before or at now, return null for datetime.\n\n")
	b.WriteString("Color names map to hex as follows:\n")
	for _, name := range sortedColorNames() {
		fmt.Fprintf(&b, "%s: %s\n", name, domain.NamedColors[name])
	}
	return b.String()
}

// sortedColorNames returns the named-colour table keys in a stable order so
// identical inputs produce identical prompts.
func sortedColorNames() []string {
	names := make([]string, 0, len(domain.NamedColors))
	for name := range domain.NamedColors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// completionRecord mirrors the JSON object the model is asked to return.
// Pointer fields distinguish null from absent-but-empty.
type completionRecord struct {
	Title    *string `json:"title"`
	Color    *string `json:"color"`
	Datetime *string `json:"datetime"`
}

// parseCompletion decodes the model output, tolerating a markdown code fence
// around the JSON object.
func parseCompletion(content string) (*domain.ExtractedEvent, error) {
	content = stripFence(strings.TrimSpace(content))

	var record completionRecord
	if err := json.Unmarshal([]byte(content), &record); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedExtraction, err)
	}

	return &domain.ExtractedEvent{
		Title:    deref(record.Title),
		ColorHex: deref(record.Color),
		Datetime: deref(record.Datetime),
	}, nil
}

// stripFence removes a surrounding ``` code fence if present.
func stripFence(content string) string {
	if !strings.HasPrefix(content, "```") {
		return content
	}
	lines := strings.Split(content, "\n")
	if len(lines) < 2 {
		return content
	}
	lines = lines[1:]
	if strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
