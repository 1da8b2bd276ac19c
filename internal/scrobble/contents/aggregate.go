package contents

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/cockroachdb/errors"

	"github.com/scrobstash/scrobstash/internal/scrobble"
)

// Delivery is the result of one write to one destination.
type Delivery struct {
	Destination Destination
	StatusCode  int
	Err         error
}

// StatusOK accepts only 200, the status of a successful contents write.
func StatusOK(status int) bool { return status == http.StatusOK }

// StatusOKOrCreated also accepts 201, which some stores return for new files.
func StatusOKOrCreated(status int) bool {
	return status == http.StatusOK || status == http.StatusCreated
}

// Aggregate reduces deliveries to one outcome. The first failed delivery is
// logged and decides the result; the rest are not inspected.
func Aggregate(logger *slog.Logger, event string, deliveries []Delivery, success func(int) bool) scrobble.Outcome {
	if success == nil {
		success = StatusOK
	}
	if logger == nil {
		logger = slog.Default()
	}

	for _, d := range deliveries {
		switch {
		case d.Err != nil && errors.Is(d.Err, context.DeadlineExceeded):
			logger.Warn("contents write timed out",
				slog.String("destination", d.Destination.Locator()),
				slog.String("event", event),
				slog.Any("err", d.Err))
			return scrobble.OutcomeFailed
		case d.Err != nil:
			logger.Warn("contents write failed",
				slog.String("destination", d.Destination.Locator()),
				slog.String("event", event),
				slog.Any("err", d.Err))
			return scrobble.OutcomeFailed
		case !success(d.StatusCode):
			logger.Warn("contents write rejected",
				slog.String("destination", d.Destination.Locator()),
				slog.String("event", event),
				slog.Int("status", d.StatusCode))
			return scrobble.OutcomeFailed
		}
	}
	return scrobble.OutcomeOK
}
