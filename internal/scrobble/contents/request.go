package contents

import (
	"encoding/base64"
	"strconv"

	sonic "github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/scrobstash/scrobstash/internal/scrobble"
)

const (
	DefaultCommitterName  = "scrobstash"
	DefaultCommitterEmail = "scrobstash@users.noreply.github.com"
)

// Committer is the identity recorded on every write.
type Committer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// DefaultCommitter returns the identity used when none is configured.
func DefaultCommitter() Committer {
	return Committer{Name: DefaultCommitterName, Email: DefaultCommitterEmail}
}

// requestBody matches the contents write API schema.
type requestBody struct {
	Message   string    `json:"message"`
	Committer Committer `json:"committer"`
	Content   string    `json:"content"`
}

// BuildRequest serializes the body shared by every destination of one dispatch.
// Content is the base64 of the JSON-encoded event.
func BuildRequest(event scrobble.Event, committer Committer) ([]byte, error) {
	eventJSON, err := sonic.Marshal(event)
	if err != nil {
		return nil, errors.Wrap(err, "marshal event")
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	enc := base64.NewEncoder(base64.StdEncoding, buf)
	if _, err := enc.Write(eventJSON); err != nil {
		return nil, errors.Wrap(err, "encode event content")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "encode event content")
	}

	body, err := sonic.Marshal(requestBody{
		Message:   commitMessage(event),
		Committer: committer,
		Content:   buf.String(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "marshal request body")
	}
	return body, nil
}

// DecodeContent reverses the content encoding of BuildRequest.
func DecodeContent(content string) (scrobble.Event, error) {
	raw, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return scrobble.Event{}, errors.Wrap(err, "decode content")
	}
	var event scrobble.Event
	if err := sonic.Unmarshal(raw, &event); err != nil {
		return scrobble.Event{}, errors.Wrap(err, "unmarshal event")
	}
	return event, nil
}

func commitMessage(event scrobble.Event) string {
	return event.Name + " at " + strconv.FormatInt(event.Timestamp, 10)
}
