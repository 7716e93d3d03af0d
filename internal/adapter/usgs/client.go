// Package usgs implements the seismic provider against the USGS FDSN
// earthquake event API.
package usgs

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/slopewatch/landslide-risk/internal/domain"
)

const defaultBaseURL = "https://earthquake.usgs.gov"

// Client queries USGS for earthquakes near a coordinate and summarizes
// them. It implements risk.SeismicProvider.
type Client struct {
	http *resty.Client
}

// NewClient creates a USGS client. An empty baseURL selects the public API.
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

// RecentActivity summarizes earthquake events within radiusKm of the
// coordinate over the lookback window: event count, maximum magnitude, and
// average magnitude. Events without a magnitude are counted but excluded
// from the magnitude statistics.
func (c *Client) RecentActivity(ctx context.Context, coord domain.Coordinate, radiusKm float64, lookbackDays int) (domain.SeismicSummary, error) {
	start := time.Now().UTC().AddDate(0, 0, -lookbackDays)

	var out response
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"format":      "geojson",
			"latitude":    strconv.FormatFloat(coord.Latitude, 'f', 4, 64),
			"longitude":   strconv.FormatFloat(coord.Longitude, 'f', 4, 64),
			"maxradiuskm": strconv.FormatFloat(radiusKm, 'f', 0, 64),
			"starttime":   start.Format("2006-01-02"),
			"orderby":     "magnitude",
		}).
		SetResult(&out).
		Get("/fdsnws/event/1/query")
	if err != nil {
		return domain.SeismicSummary{}, fmt.Errorf("usgs request: %w", err)
	}
	if resp.IsError() {
		return domain.SeismicSummary{}, fmt.Errorf("usgs API error: status %d: %s", resp.StatusCode(), resp.String())
	}

	summary := domain.SeismicSummary{Count: len(out.Features)}
	var sum float64
	var withMag int
	for _, f := range out.Features {
		if f.Properties.Mag == nil {
			continue
		}
		mag := *f.Properties.Mag
		withMag++
		sum += mag
		if mag > summary.MaxMagnitude {
			summary.MaxMagnitude = mag
		}
	}
	if withMag > 0 {
		summary.AvgMagnitude = sum / float64(withMag)
	}
	return summary, nil
}

// USGS GeoJSON response types.

type response struct {
	Features []feature `json:"features"`
}

type feature struct {
	Properties properties `json:"properties"`
}

type properties struct {
	Mag   *float64 `json:"mag"`
	Place string   `json:"place"`
	Time  int64    `json:"time"`
}
