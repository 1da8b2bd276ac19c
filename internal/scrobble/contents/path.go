package contents

import (
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
)

// PathLayout selects how the date directories of a stored event are named.
type PathLayout string

const (
	// LayoutLegacy names directories year/zero-based month/weekday
	// (January = 0, Sunday = 0). Existing archives use it.
	LayoutLegacy PathLayout = "legacy"
	// LayoutCalendar names directories year/month/day-of-month.
	LayoutCalendar PathLayout = "calendar"
)

// ParsePathLayout maps a config value to a layout. Empty means legacy.
func ParsePathLayout(s string) (PathLayout, error) {
	switch PathLayout(s) {
	case "", LayoutLegacy:
		return LayoutLegacy, nil
	case LayoutCalendar:
		return LayoutCalendar, nil
	default:
		return "", errors.Newf("unknown path layout %q", s)
	}
}

// DerivePath returns <year>/<month>/<day>/<epoch-ms>-<name>.json in UTC.
func DerivePath(layout PathLayout, name string, timestampMs int64) string {
	t := time.UnixMilli(timestampMs).UTC()

	month := int(t.Month()) - 1
	day := int(t.Weekday())
	if layout == LayoutCalendar {
		month = int(t.Month())
		day = t.Day()
	}

	return strconv.Itoa(t.Year()) + "/" +
		strconv.Itoa(month) + "/" +
		strconv.Itoa(day) + "/" +
		strconv.FormatInt(timestampMs, 10) + "-" + name + ".json"
}
