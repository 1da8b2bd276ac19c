package scrobble

import "github.com/cockroachdb/errors"

var (
	ErrAuthMissing  = errors.New("scrobble: no credentials configured")
	ErrUnauthorized = errors.New("scrobble: unauthorized")
	ErrRateLimited  = errors.New("scrobble: rate limited")
	ErrUnknownType  = errors.New("scrobble: unknown scrobbler type")
)

func IsAuthMissing(err error) bool  { return errors.Is(err, ErrAuthMissing) }
func IsUnauthorized(err error) bool { return errors.Is(err, ErrUnauthorized) }
func IsRateLimited(err error) bool  { return errors.Is(err, ErrRateLimited) }
