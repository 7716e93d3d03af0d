// Package openmeteo implements the weather provider against the Open-Meteo
// forecast API.
package openmeteo

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/slopewatch/landslide-risk/internal/domain"
)

const defaultBaseURL = "https://api.open-meteo.com"

// pastDays of daily precipitation history requested alongside the forecast.
// With two forecast days the daily arrays hold [D-3, D-2, D-1, D0, D+1].
const (
	pastDays     = 3
	forecastDays = 2
	dailyLen     = pastDays + forecastDays
)

// Client queries Open-Meteo for current conditions and precipitation
// accumulations. It implements risk.WeatherProvider.
type Client struct {
	http *resty.Client
}

// NewClient creates an Open-Meteo client. An empty baseURL selects the
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

// CurrentConditions fetches current weather plus daily precipitation sums
// around the coordinate. Rainfall accumulations use full-day sums: the last
// completed day for 24h, the last three for 72h, and tomorrow's sum as the
// 24h forecast.
func (c *Client) CurrentConditions(ctx context.Context, coord domain.Coordinate) (domain.WeatherObservation, error) {
	var out response
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"latitude":      strconv.FormatFloat(coord.Latitude, 'f', 4, 64),
			"longitude":     strconv.FormatFloat(coord.Longitude, 'f', 4, 64),
			"current":       "temperature_2m,relative_humidity_2m,surface_pressure,wind_speed_10m",
			"daily":         "precipitation_sum",
			"past_days":     strconv.Itoa(pastDays),
			"forecast_days": strconv.Itoa(forecastDays),
			"timezone":      "UTC",
		}).
		SetResult(&out).
		Get("/v1/forecast")
	if err != nil {
		return domain.WeatherObservation{}, fmt.Errorf("open-meteo request: %w", err)
	}
	if resp.IsError() {
		return domain.WeatherObservation{}, fmt.Errorf("open-meteo API error: status %d: %s", resp.StatusCode(), resp.String())
	}
	if len(out.Daily.PrecipitationSum) < dailyLen {
		return domain.WeatherObservation{}, fmt.Errorf("open-meteo response: expected %d daily precipitation values, got %d", dailyLen, len(out.Daily.PrecipitationSum))
	}

	p := out.Daily.PrecipitationSum
	return domain.WeatherObservation{
		Temperature:     out.Current.Temperature,
		Humidity:        out.Current.Humidity,
		Pressure:        out.Current.Pressure,
		WindSpeed:       out.Current.WindSpeed,
		Rainfall24h:     p[pastDays-1],
		Rainfall72h:     p[0] + p[1] + p[2],
		ForecastRain24h: p[pastDays+1],
	}, nil
}

// Open-Meteo API response types.

type response struct {
	Current current `json:"current"`
	Daily   daily   `json:"daily"`
}

type current struct {
	Temperature float64 `json:"temperature_2m"`
	Humidity    float64 `json:"relative_humidity_2m"`
	Pressure    float64 `json:"surface_pressure"`
	WindSpeed   float64 `json:"wind_speed_10m"`
}

type daily struct {
	Time             []string  `json:"time"`
	PrecipitationSum []float64 `json:"precipitation_sum"`
}
