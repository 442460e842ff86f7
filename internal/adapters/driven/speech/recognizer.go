// Package speech implements the transcription collaborator on top of the
// Google Speech-to-Text API.
package speech

import (
	"context"
	"encoding/base64"
	"strings"

	"google.golang.org/api/option"
	speech "google.golang.org/api/speech/v1"

	"github.com/custodia-labs/voicecal/internal/adapters/driven/google"
	"github.com/custodia-labs/voicecal/internal/core/domain"
	"github.com/custodia-labs/voicecal/internal/core/ports/driven"
	"github.com/custodia-labs/voicecal/internal/logger"
)

// defaultLanguage is used when no recognition language is configured.
const defaultLanguage = "en-US"

// Ensure Recognizer implements the interface.
var _ driven.Transcriber = (*Recognizer)(nil)

// Recognizer transcribes wav audio. Recognition failures are soft outcomes,
// so they surface as SpeechResult states rather than errors; only
// cancellation propagates as an error.
type Recognizer struct {
	tokens   driven.TokenProvider
	language string
	endpoint string
	limiter  *google.RateLimiter
}

// RecognizerOption configures a Recognizer.
type RecognizerOption func(*Recognizer)

// WithEndpoint overrides the Speech API base URL. Used by tests.
func WithEndpoint(endpoint string) RecognizerOption {
	return func(r *Recognizer) { r.endpoint = endpoint }
}

// NewRecognizer creates a recogniser using the given token provider for API
// authentication.
func NewRecognizer(tokens driven.TokenProvider, language string, opts ...RecognizerOption) *Recognizer {
	if language == "" {
		language = defaultLanguage
	}
	r := &Recognizer{
		tokens:   tokens,
		language: language,
		limiter:  google.NewRateLimiter(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Transcribe sends the wav bytes through a synchronous recognize call. The
// wav header describes the encoding, so no explicit encoding is declared.
func (r *Recognizer) Transcribe(ctx context.Context, wav []byte) (domain.SpeechResult, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return domain.SpeechResult{}, err
	}

	svc, err := r.newService(ctx)
	if err != nil {
		logger.Error("create speech service", err)
		return domain.SpeechResult{State: domain.SpeechServiceError}, nil
	}

	req := &speech.RecognizeRequest{
		Config: &speech.RecognitionConfig{
			LanguageCode: r.language,
		},
		Audio: &speech.RecognitionAudio{
			Content: base64.StdEncoding.EncodeToString(wav),
		},
	}

	resp, err := svc.Speech.Recognize(req).Context(ctx).Do()
	if err != nil {
		if ctx.Err() != nil {
			return domain.SpeechResult{}, ctx.Err()
		}
		logger.Error("recognize call failed", err)
		return domain.SpeechResult{State: domain.SpeechServiceError}, nil
	}

	return resultFromResponse(resp), nil
}

// newService builds a Speech API client authenticated via the token
// provider.
func (r *Recognizer) newService(ctx context.Context) (*speech.Service, error) {
	opts := []option.ClientOption{option.WithTokenSource(google.NewTokenSource(ctx, r.tokens))}
	if r.endpoint != "" {
		opts = append(opts, option.WithEndpoint(r.endpoint))
	}
	return speech.NewService(ctx, opts...)
}

// resultFromResponse maps a recognition response onto a speech result. No
// transcript at all means the audio was unintelligible.
func resultFromResponse(resp *speech.RecognizeResponse) domain.SpeechResult {
	var parts []string
	for _, result := range resp.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		if text := strings.TrimSpace(result.Alternatives[0].Transcript); text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return domain.SpeechResult{State: domain.SpeechInaudible}
	}
	return domain.SpeechResult{
		State: domain.SpeechRecognized,
		Text:  strings.Join(parts, " "),
	}
}
