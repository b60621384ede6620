package validation

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// agents emit python isoformat(), which may omit the zone; those are read as UTC
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
}

func ParseISOTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

const epochSecondsCeiling = 2_000_000_000

// EpochToTime reads values below 2e9 as seconds and everything else as milliseconds.
func EpochToTime(v float64) time.Time {
	if v < epochSecondsCeiling {
		sec, frac := math.Modf(v)
		return time.Unix(int64(sec), int64(frac*1e9)).UTC()
	}
	return time.UnixMilli(int64(v)).UTC()
}
