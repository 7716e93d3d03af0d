package opentopo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/slopewatch/landslide-risk/internal/adapter/opentopo"
	"github.com/slopewatch/landslide-risk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const elevationBody = `{
	"status": "OK",
	"results": [
		{"elevation": 800.0},
		{"elevation": 820.0},
		{"elevation": 790.0},
		{"elevation": 850.0},
		{"elevation": 780.0}
	]
}`

func TestTerrainProfile(t *testing.T) {
	var gotLocations string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/srtm90m", r.URL.Path)
		gotLocations = r.URL.Query().Get("locations")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(elevationBody)) //nolint:errcheck
	}))
	defer srv.Close()

	client := opentopo.NewClient(srv.URL, 5*time.Second)
	profile, err := client.TerrainProfile(context.Background(), domain.Coordinate{Latitude: 30.7333, Longitude: 76.7794})
	require.NoError(t, err)

	// Center plus four cardinal neighbors, center first.
	locs := strings.Split(gotLocations, "|")
	require.Len(t, locs, 5)
	assert.Equal(t, "30.73330,76.77940", locs[0])

	assert.Equal(t, 800.0, profile.Elevation)
	// Steepest neighbor gradient is 50m over 250m.
	assert.InDelta(t, 11.31, profile.SlopeDegrees, 0.01)
	assert.Equal(t, 70.0, profile.TerrainVariation)
}

func TestTerrainProfile_NullElevations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"OK","results":[{"elevation":null},{"elevation":null},{"elevation":null},{"elevation":null},{"elevation":null}]}`)) //nolint:errcheck
	}))
	defer srv.Close()

	client := opentopo.NewClient(srv.URL, 2*time.Second)
	profile, err := client.TerrainProfile(context.Background(), domain.Coordinate{})
	require.NoError(t, err)

	assert.Zero(t, profile.Elevation)
	assert.Zero(t, profile.SlopeDegrees)
	assert.Zero(t, profile.TerrainVariation)
}

func TestTerrainProfile_ShortResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"OK","results":[{"elevation":800.0}]}`)) //nolint:errcheck
	}))
	defer srv.Close()

	client := opentopo.NewClient(srv.URL, 2*time.Second)
	_, err := client.TerrainProfile(context.Background(), domain.Coordinate{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 5 results")
}

func TestTerrainProfile_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := opentopo.NewClient(srv.URL, 2*time.Second)
	_, err := client.TerrainProfile(context.Background(), domain.Coordinate{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}
