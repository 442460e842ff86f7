package domain

import "errors"

// Errors the pipeline can surface to callers. The transport layer maps these
// onto HTTP statuses: rejected errors become 4xx, upstream errors become 502.
var (
	// ErrUnauthorized indicates the caller-supplied credential did not match
	// the configured secret.
	ErrUnauthorized = errors.New("voicecal: unauthorized")

	// ErrUnsupportedMedia indicates the declared audio media type is not on
	// the allow list.
	ErrUnsupportedMedia = errors.New("voicecal: unsupported media type")

	// ErrInvalidColorFormat indicates a colour string that is not a
	// 6-hex-digit RGB value.
	ErrInvalidColorFormat = errors.New("voicecal: invalid color format")

	// ErrMalformedExtraction indicates the extraction collaborator returned
	// something that does not parse as the expected structured record.
	ErrMalformedExtraction = errors.New("voicecal: malformed extractor response")

	// ErrExtractorUnavailable indicates a transport failure talking to the
	// extraction collaborator.
	ErrExtractorUnavailable = errors.New("voicecal: extractor unavailable")

	// ErrTokenExchange indicates the refresh-token exchange with the calendar
	// backend failed.
	ErrTokenExchange = errors.New("voicecal: token exchange failed")

	// ErrCalendarAuth indicates the calendar backend rejected the access
	// token.
	ErrCalendarAuth = errors.New("voicecal: calendar auth rejected")

	// ErrCalendarUnavailable indicates a transport or server failure from the
	// calendar backend.
	ErrCalendarUnavailable = errors.New("voicecal: calendar service unavailable")

	// ErrTranscode indicates the audio codec collaborator failed to convert
	// the upload to the recogniser's native format.
	ErrTranscode = errors.New("voicecal: audio transcode failed")
)

// IsRejected reports whether err is a client error that terminates the
// request before any processing.
func IsRejected(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrUnsupportedMedia)
}

// IsUpstream reports whether err is a collaborator failure. These are
// surfaced, never retried or masked.
func IsUpstream(err error) bool {
	return errors.Is(err, ErrMalformedExtraction) ||
		errors.Is(err, ErrExtractorUnavailable) ||
		errors.Is(err, ErrTokenExchange) ||
		errors.Is(err, ErrCalendarAuth) ||
		errors.Is(err, ErrCalendarUnavailable) ||
		errors.Is(err, ErrTranscode) ||
		errors.Is(err, ErrInvalidColorFormat)
}
