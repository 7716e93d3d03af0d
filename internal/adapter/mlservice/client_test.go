package mlservice_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/slopewatch/landslide-risk/internal/adapter/mlservice"
	"github.com/slopewatch/landslide-risk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFeatures() domain.FeatureVector {
	return domain.FeatureVector{
		"rainfall_24h": 45.0,
		"slope":        32.0,
	}
}

func TestScore(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/predict", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"probability":0.72,"confidence":0.88,"risk_level":"High"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	client := mlservice.NewClient(srv.URL, 5*time.Second)
	score, err := client.Score(context.Background(), domain.Coordinate{Latitude: 30.7, Longitude: 76.8}, testFeatures())
	require.NoError(t, err)

	assert.Equal(t, 30.7, gotBody["latitude"])
	assert.Equal(t, 76.8, gotBody["longitude"])
	features, ok := gotBody["features"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 45.0, features["rainfall_24h"])

	assert.Equal(t, 0.72, score.Probability)
	assert.Equal(t, 0.88, score.Confidence)
	assert.Equal(t, "High", score.RiskLevel)
}

func TestScore_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := mlservice.NewClient(srv.URL, 2*time.Second)
	_, err := client.Score(context.Background(), domain.Coordinate{}, testFeatures())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrClassifierUnavailable)
}

func TestScore_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused

	client := mlservice.NewClient(srv.URL, 2*time.Second)
	_, err := client.Score(context.Background(), domain.Coordinate{}, testFeatures())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrClassifierUnavailable)
}

func TestScore_ReportedFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":false,"error":"feature vector incomplete"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	client := mlservice.NewClient(srv.URL, 2*time.Second)
	_, err := client.Score(context.Background(), domain.Coordinate{}, testFeatures())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrClassifierUnavailable)
	assert.Contains(t, err.Error(), "feature vector incomplete")
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	client := mlservice.NewClient(srv.URL, 2*time.Second)
	require.NoError(t, client.Health(context.Background()))
}

func TestHealth_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := mlservice.NewClient(srv.URL, 2*time.Second)
	err := client.Health(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrClassifierUnavailable)
}

func TestScore_InvalidResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing probability", body: `{"success":true,"confidence":0.9}`},
		{name: "probability above one", body: `{"success":true,"probability":1.7,"confidence":0.9}`},
		{name: "negative probability", body: `{"success":true,"probability":-0.2,"confidence":0.9}`},
		{name: "confidence out of range", body: `{"success":true,"probability":0.5,"confidence":3.0}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tc.body)) //nolint:errcheck
			}))
			defer srv.Close()

			client := mlservice.NewClient(srv.URL, 2*time.Second)
			_, err := client.Score(context.Background(), domain.Coordinate{}, testFeatures())
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrClassifierInvalidResponse)
		})
	}
}
