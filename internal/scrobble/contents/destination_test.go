package contents

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDestination(t *testing.T) {
	tests := []struct {
		name    string
		locator string
		token   string
		want    Destination
		wantErr bool
	}{
		{name: "owner and repo", locator: "alice/scrobbles", token: "t0k", want: Destination{Owner: "alice", Repo: "scrobbles", Token: "t0k"}},
		{name: "surrounding space", locator: " alice/scrobbles ", token: " t0k ", want: Destination{Owner: "alice", Repo: "scrobbles", Token: "t0k"}},
		{name: "missing slash", locator: "alice", token: "t0k", wantErr: true},
		{name: "missing repo", locator: "alice/", token: "t0k", wantErr: true},
		{name: "missing owner", locator: "/scrobbles", token: "t0k", wantErr: true},
		{name: "missing token", locator: "alice/scrobbles", token: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDestination(tt.locator, tt.token)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidDestination))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Owner+"/"+tt.want.Repo, got.Locator())
		})
	}
}

func TestDestinationsIsEmpty(t *testing.T) {
	assert.True(t, Destinations(nil).IsEmpty())
	assert.True(t, Destinations{}.IsEmpty())
	assert.False(t, Destinations{{Owner: "a", Repo: "b", Token: "c"}}.IsEmpty())
}

func TestDestinationsClone(t *testing.T) {
	ds := Destinations{{Owner: "a", Repo: "b", Token: "c"}}
	clone := ds.Clone()
	clone[0].Owner = "z"
	assert.Equal(t, "a", ds[0].Owner)
}
