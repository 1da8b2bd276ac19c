package contents

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrInvalidDestination is returned for locators that are not "owner/repo".
var ErrInvalidDestination = errors.New("contents: invalid destination")

// Destination is one content repository plus the token allowed to write to it.
type Destination struct {
	Owner string
	Repo  string
	Token string
}

// ParseDestination splits applicationName on the first "/" into owner and repo.
func ParseDestination(applicationName, token string) (Destination, error) {
	owner, repo, ok := strings.Cut(strings.TrimSpace(applicationName), "/")
	owner, repo = strings.TrimSpace(owner), strings.Trim(strings.TrimSpace(repo), "/")
	if !ok || owner == "" || repo == "" {
		return Destination{}, errors.Wrapf(ErrInvalidDestination, "locator %q must be owner/repo", applicationName)
	}
	if strings.TrimSpace(token) == "" {
		return Destination{}, errors.Wrapf(ErrInvalidDestination, "locator %q has no token", applicationName)
	}
	return Destination{Owner: owner, Repo: repo, Token: strings.TrimSpace(token)}, nil
}

// Locator returns "owner/repo".
func (d Destination) Locator() string {
	return d.Owner + "/" + d.Repo
}

// Destinations is the set of peers a dispatch writes to. Order carries no meaning.
type Destinations []Destination

func (ds Destinations) IsEmpty() bool { return len(ds) == 0 }

// Clone returns a copy that callers cannot mutate through ds.
func (ds Destinations) Clone() Destinations {
	if ds == nil {
		return nil
	}
	out := make(Destinations, len(ds))
	copy(out, ds)
	return out
}
