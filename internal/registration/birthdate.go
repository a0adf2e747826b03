package registration

import (
	"errors"
	"strings"
	"time"
)

// ErrBadDate is returned for birth dates in no accepted layout
var ErrBadDate = errors.New("unrecognized date")

// DateLayout is the wire format of the age check
const DateLayout = "2006-01-02"

var birthDateLayouts = []string{
	DateLayout,
	"2006/01/02",
	"02.01.2006",
	time.RFC3339,
}

// NormalizeBirthDate converts raw to YYYY-MM-DD.
// Timestamps keep the calendar day they carry, whatever their zone.
func NormalizeBirthDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range birthDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(DateLayout), nil
		}
	}
	return "", ErrBadDate
}
