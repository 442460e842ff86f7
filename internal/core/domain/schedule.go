package domain

import "time"

// Layouts accepted for extractor datetimes: ISO-8601 civil time without an
// embedded offset. The value is interpreted as wall-clock time in the
// operating timezone.
var datetimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ValidStart parses an extractor datetime and localizes it to loc. It returns
// ok=false for an empty value, an unparseable value, or an instant at or
// before now. The extractor is advised to never return past instants but is
// an untrusted collaborator, so the rejection is re-checked here rather than
// assumed. ok=false means "no usable event time" and ends the request as a
// soft outcome.
func ValidStart(iso string, now time.Time, loc *time.Location) (time.Time, bool) {
	if iso == "" {
		return time.Time{}, false
	}
	for _, layout := range datetimeLayouts {
		t, err := time.ParseInLocation(layout, iso, loc)
		if err != nil {
			continue
		}
		if !t.After(now) {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}
