// Package driving defines the inbound ports through which adapters invoke
// the core services.
package driving

import (
	"context"

	"github.com/custodia-labs/voicecal/internal/core/domain"
)

// VoiceEventService turns an uploaded utterance into a created calendar
// event.
type VoiceEventService interface {
	// Process runs the full pipeline for one upload. It returns an Outcome
	// for 200-level results (success or soft failure) and an error for
	// rejected requests (domain.IsRejected) or collaborator failures
	// (domain.IsUpstream).
	Process(ctx context.Context, upload domain.AudioUpload) (*domain.Outcome, error)
}
