// Package opentopo implements the elevation provider against the
// Open-Topo-Data API, deriving slope and local terrain variation from a
// multi-point probe around the queried coordinate.
package opentopo

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/slopewatch/landslide-risk/internal/domain"
)

const (
	defaultBaseURL = "https://api.opentopodata.org"
	dataset        = "srtm90m"
)

// probeDistanceM is the spacing of the four cardinal probe points around
// the center, used to estimate slope and terrain variation.
const probeDistanceM = 250.0

// One degree of latitude is ~111.32 km.
const metersPerDegreeLat = 111320.0

// Client queries Open-Topo-Data for a five-point elevation probe. It
// implements risk.ElevationProvider.
type Client struct {
	http *resty.Client
}

// NewClient creates an Open-Topo-Data client. An empty baseURL selects the
// public API.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetRetryCount(2).
			SetRetryWaitTime(500 * time.Millisecond),
	}
}

// TerrainProfile fetches elevations for the coordinate and four cardinal
// neighbors in one request. Slope is derived from the steepest gradient to
// a neighbor; terrain variation is the elevation spread across all five
// points.
func (c *Client) TerrainProfile(ctx context.Context, coord domain.Coordinate) (domain.TerrainProfile, error) {
	points := probePoints(coord)

	locs := make([]string, len(points))
	for i, p := range points {
		locs[i] = fmt.Sprintf("%.5f,%.5f", p.Latitude, p.Longitude)
	}

	var out response
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("locations", strings.Join(locs, "|")).
		SetResult(&out).
		Get("/v1/" + dataset)
	if err != nil {
		return domain.TerrainProfile{}, fmt.Errorf("opentopodata request: %w", err)
	}
	if resp.IsError() {
		return domain.TerrainProfile{}, fmt.Errorf("opentopodata API error: status %d: %s", resp.StatusCode(), resp.String())
	}
	if len(out.Results) != len(points) {
		return domain.TerrainProfile{}, fmt.Errorf("opentopodata response: expected %d results, got %d", len(points), len(out.Results))
	}

	elevations := make([]float64, len(out.Results))
	for i, r := range out.Results {
		if r.Elevation != nil {
			elevations[i] = *r.Elevation
		}
	}
	return profileFrom(elevations), nil
}

// probePoints returns the center plus four cardinal neighbors at
// probeDistanceM spacing. The center is always index 0.
func probePoints(c domain.Coordinate) []domain.Coordinate {
	dLat := probeDistanceM / metersPerDegreeLat
	// Longitude degrees shrink with latitude; clamp near the poles.
	cosLat := math.Cos(radians(c.Latitude))
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	dLon := probeDistanceM / (metersPerDegreeLat * cosLat)

	return []domain.Coordinate{
		c,
		{Latitude: c.Latitude + dLat, Longitude: c.Longitude},
		{Latitude: c.Latitude - dLat, Longitude: c.Longitude},
		{Latitude: c.Latitude, Longitude: c.Longitude + dLon},
		{Latitude: c.Latitude, Longitude: c.Longitude - dLon},
	}
}

func profileFrom(elevations []float64) domain.TerrainProfile {
	center := elevations[0]

	minElev, maxElev := elevations[0], elevations[0]
	var steepest float64
	for _, e := range elevations[1:] {
		if diff := math.Abs(e - center); diff > steepest {
			steepest = diff
		}
		minElev = math.Min(minElev, e)
		maxElev = math.Max(maxElev, e)
	}

	return domain.TerrainProfile{
		Elevation:        center,
		SlopeDegrees:     math.Atan(steepest/probeDistanceM) * 180 / math.Pi,
		TerrainVariation: maxElev - minElev,
	}
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Open-Topo-Data API response types.

type response struct {
	Results []result `json:"results"`
	Status  string   `json:"status"`
}

type result struct {
	// Elevation is null over some ocean tiles.
	Elevation *float64 `json:"elevation"`
}
