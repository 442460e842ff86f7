// Package driven defines the outbound ports: the external collaborators the
// pipeline calls but does not implement.
package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/voicecal/internal/core/domain"
)

// Transcoder converts uploaded audio into the recogniser's native wav format.
type Transcoder interface {
	// ToWAV converts audio of the given media type to wav.
	ToWAV(ctx context.Context, audio []byte, mediaType string) ([]byte, error)
}

// Transcriber converts wav audio into text. Inaudible speech and recognition
// service failures are states on the result, not errors; the returned error
// is reserved for cancellation and programmer mistakes.
type Transcriber interface {
	Transcribe(ctx context.Context, wav []byte) (domain.SpeechResult, error)
}

// Extractor pulls a structured event record out of free text. referenceDate
// anchors relative expressions like "tomorrow at noon".
type Extractor interface {
	Extract(ctx context.Context, text string, referenceDate time.Time) (*domain.ExtractedEvent, error)
}

// TokenProvider exchanges a long-lived refresh credential for a short-lived
// access token.
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
}

// CalendarBackend creates events in the user's calendar.
type CalendarBackend interface {
	CreateEvent(ctx context.Context, accessToken string, payload domain.EventPayload) (*domain.CreatedEvent, error)
}
