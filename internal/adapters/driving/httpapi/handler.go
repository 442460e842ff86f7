package httpapi

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/custodia-labs/voicecal/internal/core/domain"
	"github.com/custodia-labs/voicecal/internal/logger"
)

// maxUploadBytes caps the accepted audio size. A spoken reminder is a few
// seconds of audio; 32 MiB leaves generous headroom for uncompressed wav.
const maxUploadBytes = 32 << 20

// speechToCalendarResponse is the success body: the transcript, the
// extractor's raw structured fields, and the backend's confirmation record.
type speechToCalendarResponse struct {
	Text          string                 `json:"text"`
	Parsed        *domain.ExtractedEvent `json:"parsed"`
	CalendarEvent *domain.CreatedEvent   `json:"calendar_event"`
}

// softResponse is the body for soft outcomes: a transcript (possibly empty)
// and a descriptive error field, delivered with status 200.
type softResponse struct {
	Text  string `json:"text"`
	Error string `json:"error"`
}

// handleSpeechToCalendar accepts a multipart audio upload and runs the
// pipeline. Status mapping: 401 bad credential, 400 bad upload or media
// type, 200 for soft outcomes and success, 502 for collaborator failures.
func (s *Server) handleSpeechToCalendar(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing file upload")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "read file upload")
		return
	}

	upload := domain.AudioUpload{
		Credential: r.Header.Get("Authorization"),
		MediaType:  mediaType(header.Header.Get("Content-Type")),
		Audio:      audio,
	}

	outcome, err := s.pipeline.Process(r.Context(), upload)
	if err != nil {
		s.respondPipelineError(w, err)
		return
	}

	if outcome.SoftError != "" {
		respondJSON(w, http.StatusOK, softResponse{Text: outcome.Text, Error: outcome.SoftError})
		return
	}

	respondJSON(w, http.StatusOK, speechToCalendarResponse{
		Text:          outcome.Text,
		Parsed:        outcome.Parsed,
		CalendarEvent: outcome.Event,
	})
}

// respondPipelineError maps pipeline errors onto HTTP statuses. Upstream
// detail stays in the log; the caller gets a terse body.
func (s *Server) respondPipelineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, domain.ErrUnsupportedMedia):
		respondError(w, http.StatusBadRequest, "Unsupported file type")
	default:
		logger.Error("pipeline failure", err)
		respondError(w, http.StatusBadGateway, "upstream collaborator failure")
	}
}

// mediaType strips parameters like charset from a Content-Type value.
func mediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return contentType
	}
	return mt
}
