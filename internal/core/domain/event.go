package domain

import (
	"strings"
	"time"
)

// PlaceholderTitle is used when the extractor found no usable title.
const PlaceholderTitle = "No Title"

// Soft-outcome messages carried in the response error field. These are
// expected, common outcomes and must not be conflated with transport
// failures.
const (
	SoftCouldNotUnderstand = "Could not understand audio"
	SoftSpeechServiceError = "Speech Recognition service error"
	SoftBadDatetime        = "Invalid or past datetime in input"
)

// AudioUpload is the inbound request: a caller credential, the declared media
// type of the upload, and the raw audio bytes.
type AudioUpload struct {
	Credential string
	MediaType  string
	Audio      []byte
}

// SpeechState classifies the outcome of a recognition attempt. Inaudible and
// service errors are explicit variants rather than error values because both
// are soft outcomes the pipeline turns into a normal response.
type SpeechState string

const (
	// SpeechRecognized means the recogniser produced a transcript.
	SpeechRecognized SpeechState = "recognized"
	// SpeechInaudible means no intelligible speech was found in the audio.
	SpeechInaudible SpeechState = "inaudible"
	// SpeechServiceError means the recognition service failed.
	SpeechServiceError SpeechState = "service_error"
)

// SpeechResult is the outcome of one recognition attempt. Text is only set
// when State is SpeechRecognized.
type SpeechResult struct {
	State SpeechState
	Text  string
}

// ExtractedEvent is the structured record produced by the extraction
// collaborator. Any field may be empty when the utterance did not mention it.
// It lives for exactly one request and is never persisted.
type ExtractedEvent struct {
	Title    string `json:"title"`
	ColorHex string `json:"color"`
	Datetime string `json:"datetime"`
}

// EventPayload is the wire-format record sent to the calendar backend. Start
// doubles as the end instant: the event models a point-in-time reminder, not
// a duration.
type EventPayload struct {
	Summary  string
	ColorID  string
	Start    time.Time
	TimeZone string
}

// CreatedEvent is the calendar backend's confirmation record.
type CreatedEvent struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	HTMLLink string `json:"htmlLink,omitempty"`
	Summary  string `json:"summary"`
	ColorID  string `json:"colorId"`
	Start    string `json:"start"`
	End      string `json:"end"`
}

// Outcome is a terminal pipeline result delivered as a 200-level response.
// SoftError is non-empty for soft outcomes; Parsed and Event are only set on
// full success.
type Outcome struct {
	Text      string
	SoftError string
	Parsed    *ExtractedEvent
	Event     *CreatedEvent
}

// BuildPayload assembles the calendar event payload from the validated
// pieces. An absent or blank title becomes PlaceholderTitle; colour
// resolution is delegated to NearestSlot. start must already be localized to
// the operating timezone.
func BuildPayload(title, colorHex string, start time.Time) (EventPayload, error) {
	if strings.TrimSpace(title) == "" {
		title = PlaceholderTitle
	}
	slot, err := NearestSlot(colorHex)
	if err != nil {
		return EventPayload{}, err
	}
	return EventPayload{
		Summary:  title,
		ColorID:  slot,
		Start:    start,
		TimeZone: start.Location().String(),
	}, nil
}
