package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/custodia-labs/voicecal/internal/core/domain"
	"github.com/custodia-labs/voicecal/internal/core/ports/driven"
)

// Ensure Backend implements the interface.
var _ driven.CalendarBackend = (*Backend)(nil)

// Backend creates events in Google Calendar.
type Backend struct {
	calendarID string
	endpoint   string
	limiter    *RateLimiter
}

// BackendOption configures a Backend.
type BackendOption func(*Backend)

// WithEndpoint overrides the Calendar API base URL. Used by tests.
func WithEndpoint(endpoint string) BackendOption {
	return func(b *Backend) { b.endpoint = endpoint }
}

// NewBackend creates a calendar backend for the given calendar id.
// An empty id means the user's primary calendar.
func NewBackend(calendarID string, opts ...BackendOption) *Backend {
	if calendarID == "" {
		calendarID = "primary"
	}
	b := &Backend{
		calendarID: calendarID,
		limiter:    NewRateLimiter(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// CreateEvent inserts a point-in-time event: start and end carry the same
// instant with an explicit timezone designator.
func (b *Backend) CreateEvent(
	ctx context.Context, accessToken string, payload domain.EventPayload,
) (*domain.CreatedEvent, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	svc, err := b.newService(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCalendarUnavailable, err)
	}

	iso := payload.Start.Format(time.RFC3339)
	when := &calendar.EventDateTime{DateTime: iso, TimeZone: payload.TimeZone}
	event := &calendar.Event{
		Summary: payload.Summary,
		ColorId: payload.ColorID,
		Start:   when,
		End:     when,
	}

	created, err := svc.Events.Insert(b.calendarID, event).Context(ctx).Do()
	if err != nil {
		if isUnauthorized(err) {
			return nil, fmt.Errorf("%w: %w", domain.ErrCalendarAuth, err)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrCalendarUnavailable, err)
	}

	return toCreatedEvent(created), nil
}

// newService builds a Calendar API client bound to the given access token.
func (b *Backend) newService(ctx context.Context, accessToken string) (*calendar.Service, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	opts := []option.ClientOption{option.WithTokenSource(ts)}
	if b.endpoint != "" {
		opts = append(opts, option.WithEndpoint(b.endpoint))
	}
	return calendar.NewService(ctx, opts...)
}

// toCreatedEvent maps the API response onto the confirmation record.
func toCreatedEvent(ev *calendar.Event) *domain.CreatedEvent {
	created := &domain.CreatedEvent{
		ID:       ev.Id,
		Status:   ev.Status,
		HTMLLink: ev.HtmlLink,
		Summary:  ev.Summary,
		ColorID:  ev.ColorId,
	}
	if ev.Start != nil {
		created.Start = ev.Start.DateTime
	}
	if ev.End != nil {
		created.End = ev.End.DateTime
	}
	return created
}

// isUnauthorized checks whether the API rejected the access token.
func isUnauthorized(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden
	}
	return false
}
