package states

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := Load()
	require.NoError(t, err)
	return r
}

func TestLoad_AllFiftyStates(t *testing.T) {
	t.Parallel()
	r := loadRegistry(t)

	all := r.All()
	assert.Len(t, all, 50)

	seen := map[string]bool{}
	for _, s := range all {
		assert.NotEmpty(t, s.Slug)
		assert.NotEmpty(t, s.Name)
		assert.Len(t, s.Abbr, 2)
		assert.NotEmpty(t, s.MajorCities)
		assert.Positive(t, s.Population)
		assert.False(t, seen[s.Slug], "duplicate slug %s", s.Slug)
		seen[s.Slug] = true
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()
	r := loadRegistry(t)

	ohio := r.Lookup("ohio")
	require.NotNil(t, ohio)
	assert.Equal(t, "Ohio", ohio.Name)
	assert.Equal(t, "OH", ohio.Abbr)

	assert.NotNil(t, r.Lookup("  Ohio "), "lookup is case and whitespace tolerant")
	assert.Nil(t, r.Lookup("puerto-rico"))
}

func TestRequest_KnownState(t *testing.T) {
	t.Parallel()
	r := loadRegistry(t)

	req := r.Request("new-york")
	assert.Equal(t, "new-york", req.State)
	assert.Equal(t, "New York", req.StateName)
	assert.Equal(t, "NY", req.StateAbbr)
	assert.Contains(t, req.MajorCities, "Buffalo")
	assert.NotEmpty(t, req.Population)
	assert.Empty(t, req.MissingFields())
}

func TestRequest_UnknownState(t *testing.T) {
	t.Parallel()
	r := loadRegistry(t)

	req := r.Request("atlantis")
	assert.Equal(t, "atlantis", req.State)
	assert.Equal(t, "Atlantis", req.StateName)
	assert.NotEmpty(t, req.MissingFields())
}

func TestDisplayName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		slug string
		want string
	}{
		{"ohio", "Ohio"},
		{"new-york", "New York"},
		{"north-carolina", "North Carolina"},
		{" rhode-island ", "Rhode Island"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DisplayName(tt.slug))
	}
}
