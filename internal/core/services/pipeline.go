// Package services holds the core pipeline that sequences transcription,
// extraction, validation and event creation.
package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/voicecal/internal/core/domain"
	"github.com/custodia-labs/voicecal/internal/core/ports/driven"
	"github.com/custodia-labs/voicecal/internal/core/ports/driving"
	"github.com/custodia-labs/voicecal/internal/logger"
)

// Ensure Pipeline implements the interface.
var _ driving.VoiceEventService = (*Pipeline)(nil)

// allowedMediaTypes is the upload allow list. wav variants pass through to
// the recogniser untranscoded; everything else goes through the codec first.
var allowedMediaTypes = map[string]bool{
	"audio/wav":   true,
	"audio/x-wav": true,
	"audio/flac":  true,
	"audio/mpeg":  true,
	"audio/mp3":   true,
}

// nativeMediaTypes are already in the recogniser's native format.
var nativeMediaTypes = map[string]bool{
	"audio/wav":   true,
	"audio/x-wav": true,
}

// Deps are the collaborators the pipeline sequences.
type Deps struct {
	Transcoder  driven.Transcoder
	Transcriber driven.Transcriber
	Extractor   driven.Extractor
	Tokens      driven.TokenProvider
	Calendar    driven.CalendarBackend
}

// Pipeline orchestrates one request end to end. It holds no mutable state,
// so a single instance serves concurrent requests.
type Pipeline struct {
	deps   Deps
	secret string
	loc    *time.Location
	now    func() time.Time
}

// NewPipeline creates the pipeline. secret is the shared request credential
// and loc the operating timezone all extracted times are interpreted in.
func NewPipeline(deps Deps, secret string, loc *time.Location) *Pipeline {
	return &Pipeline{
		deps:   deps,
		secret: secret,
		loc:    loc,
		now:    time.Now,
	}
}

// Process runs the pipeline state machine:
//
//	Received → Authorized → AudioValidated → Transcribed → Extracted →
//	EventValidated → TokenAcquired → EventCreated
//
// Rejected and upstream exits surface as errors; soft outcomes (inaudible
// audio, no usable datetime) come back as an Outcome with SoftError set.
func (p *Pipeline) Process(ctx context.Context, upload domain.AudioUpload) (*domain.Outcome, error) {
	reqID := uuid.NewString()

	if subtle.ConstantTimeCompare([]byte(upload.Credential), []byte(p.secret)) != 1 {
		logger.Info("request rejected", "request_id", reqID, "reason", "credential mismatch")
		return nil, domain.ErrUnauthorized
	}

	if !allowedMediaTypes[upload.MediaType] {
		logger.Info("request rejected", "request_id", reqID, "reason", "media type", "media_type", upload.MediaType)
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedMedia, upload.MediaType)
	}

	audio := upload.Audio
	if !nativeMediaTypes[upload.MediaType] {
		wav, err := p.deps.Transcoder.ToWAV(ctx, audio, upload.MediaType)
		if err != nil {
			return nil, fmt.Errorf("transcode %s: %w", upload.MediaType, err)
		}
		audio = wav
	}

	speech, err := p.deps.Transcriber.Transcribe(ctx, audio)
	if err != nil {
		return nil, fmt.Errorf("transcribe: %w", err)
	}
	switch speech.State {
	case domain.SpeechInaudible:
		logger.Debug("no speech recognised", "request_id", reqID)
		return &domain.Outcome{SoftError: domain.SoftCouldNotUnderstand}, nil
	case domain.SpeechServiceError:
		logger.Info("recognition service failed", "request_id", reqID)
		return &domain.Outcome{SoftError: domain.SoftSpeechServiceError}, nil
	}

	parsed, err := p.deps.Extractor.Extract(ctx, speech.Text, p.now())
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	// The extractor is told to return null for past instants, but the rule is
	// re-checked here instead of trusted.
	start, ok := domain.ValidStart(parsed.Datetime, p.now().In(p.loc), p.loc)
	if !ok {
		logger.Debug("no usable datetime", "request_id", reqID, "datetime", parsed.Datetime)
		return &domain.Outcome{Text: speech.Text, SoftError: domain.SoftBadDatetime}, nil
	}

	token, err := p.deps.Tokens.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire token: %w", err)
	}

	payload, err := domain.BuildPayload(parsed.Title, parsed.ColorHex, start)
	if err != nil {
		// A colour the resolver cannot parse means the extractor violated its
		// contract.
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedExtraction, err)
	}

	created, err := p.deps.Calendar.CreateEvent(ctx, token, payload)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	logger.Info("event created",
		"request_id", reqID,
		"color_id", payload.ColorID,
		"start", payload.Start.Format(time.RFC3339),
	)
	return &domain.Outcome{Text: speech.Text, Parsed: parsed, Event: created}, nil
}
