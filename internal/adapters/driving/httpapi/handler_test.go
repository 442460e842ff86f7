package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/voicecal/internal/core/domain"
)

type fakePipeline struct {
	calls     int
	gotUpload domain.AudioUpload
	outcome   *domain.Outcome
	err       error
}

func (f *fakePipeline) Process(_ context.Context, upload domain.AudioUpload) (*domain.Outcome, error) {
	f.calls++
	f.gotUpload = upload
	return f.outcome, f.err
}

// multipartBody builds a multipart form with a single "file" part.
func multipartBody(t *testing.T, contentType string, audio []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{
		"Content-Disposition": {`form-data; name="file"; filename="audio"`},
		"Content-Type":        {contentType},
	}
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(audio)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func post(t *testing.T, pipeline *fakePipeline, credential, mediaType string) *httptest.ResponseRecorder {
	t.Helper()

	body, formContentType := multipartBody(t, mediaType, []byte("audio-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/speech-to-calendar", body)
	req.Header.Set("Content-Type", formContentType)
	if credential != "" {
		req.Header.Set("Authorization", credential)
	}

	rec := httptest.NewRecorder()
	NewServer(pipeline).Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSpeechToCalendar_Unauthorized(t *testing.T) {
	pipeline := &fakePipeline{err: domain.ErrUnauthorized}

	rec := post(t, pipeline, "wrong", "audio/wav")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, map[string]any{"error": "Unauthorized"}, decodeBody(t, rec))
}

func TestSpeechToCalendar_UnsupportedMediaType(t *testing.T) {
	pipeline := &fakePipeline{err: domain.ErrUnsupportedMedia}

	rec := post(t, pipeline, "sekrit", "video/mp4")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, map[string]any{"error": "Unsupported file type"}, decodeBody(t, rec))
}

func TestSpeechToCalendar_MissingFile(t *testing.T) {
	pipeline := &fakePipeline{}

	req := httptest.NewRequest(http.MethodPost, "/speech-to-calendar", bytes.NewBufferString("no form"))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	NewServer(pipeline).Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, pipeline.calls)
}

func TestSpeechToCalendar_SoftOutcome(t *testing.T) {
	pipeline := &fakePipeline{
		outcome: &domain.Outcome{SoftError: domain.SoftCouldNotUnderstand},
	}

	rec := post(t, pipeline, "sekrit", "audio/wav")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{
		"text":  "",
		"error": "Could not understand audio",
	}, decodeBody(t, rec))
}

func TestSpeechToCalendar_Success(t *testing.T) {
	pipeline := &fakePipeline{
		outcome: &domain.Outcome{
			Text: "lunch with sam tomorrow at noon in blue",
			Parsed: &domain.ExtractedEvent{
				Title:    "lunch with sam",
				ColorHex: "#0000ff",
				Datetime: "2024-01-02T12:00:00",
			},
			Event: &domain.CreatedEvent{ID: "evt1", Status: "confirmed", Summary: "lunch with sam", ColorID: "9"},
		},
	}

	rec := post(t, pipeline, "sekrit", "audio/wav")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "lunch with sam tomorrow at noon in blue", body["text"])

	parsed, ok := body["parsed"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "lunch with sam", parsed["title"])
	assert.Equal(t, "#0000ff", parsed["color"])
	assert.Equal(t, "2024-01-02T12:00:00", parsed["datetime"])

	event, ok := body["calendar_event"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "evt1", event["id"])
	assert.Equal(t, "9", event["colorId"])
}

func TestSpeechToCalendar_UpstreamFailure(t *testing.T) {
	pipeline := &fakePipeline{err: domain.ErrCalendarUnavailable}

	rec := post(t, pipeline, "sekrit", "audio/wav")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, map[string]any{"error": "upstream collaborator failure"}, decodeBody(t, rec))
}

func TestSpeechToCalendar_PassesUploadThrough(t *testing.T) {
	pipeline := &fakePipeline{outcome: &domain.Outcome{SoftError: domain.SoftBadDatetime}}

	post(t, pipeline, "sekrit", "audio/wav; rate=16000")

	require.Equal(t, 1, pipeline.calls)
	assert.Equal(t, "sekrit", pipeline.gotUpload.Credential)
	assert.Equal(t, "audio/wav", pipeline.gotUpload.MediaType, "media type parameters are stripped")
	assert.Equal(t, []byte("audio-bytes"), pipeline.gotUpload.Audio)
}

func TestSpeechToCalendar_MethodNotAllowed(t *testing.T) {
	pipeline := &fakePipeline{}

	req := httptest.NewRequest(http.MethodGet, "/speech-to-calendar", nil)
	rec := httptest.NewRecorder()
	NewServer(pipeline).Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Zero(t, pipeline.calls)
}

func TestHealth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	NewServer(&fakePipeline{}).Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"status": "ok"}, decodeBody(t, rec))
}
