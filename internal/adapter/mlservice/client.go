// Package mlservice implements the trained-classifier boundary as an HTTP
// client against the model-serving service.
package mlservice

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/slopewatch/landslide-risk/internal/domain"
	"github.com/slopewatch/landslide-risk/internal/risk"
)

// Client calls the model-serving service to score a feature vector. It
// implements risk.ClassifierScorer.
type Client struct {
	http *resty.Client
}

// NewClient creates a classifier client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetRetryCount(1).
			SetRetryWaitTime(250 * time.Millisecond),
	}
}

// Health checks the model service's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get("/health")
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrClassifierUnavailable, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: status %d", domain.ErrClassifierUnavailable, resp.StatusCode())
	}
	return nil
}

type predictRequest struct {
	Latitude  float64              `json:"latitude"`
	Longitude float64              `json:"longitude"`
	Features  domain.FeatureVector `json:"features"`
}

type predictResponse struct {
	Success bool `json:"success"`
	// Pointer so an absent probability is distinguishable from 0.
	Probability *float64 `json:"probability"`
	Confidence  float64  `json:"confidence"`
	RiskLevel   string   `json:"risk_level"`
	Error       string   `json:"error"`
}

// Score sends the feature vector to the model service. Transport and
// server-side failures map to ErrClassifierUnavailable; a 2xx response that
// does not carry a usable probability maps to ErrClassifierInvalidResponse.
func (c *Client) Score(ctx context.Context, coord domain.Coordinate, features domain.FeatureVector) (risk.ClassifierScore, error) {
	var out predictResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(predictRequest{
			Latitude:  coord.Latitude,
			Longitude: coord.Longitude,
			Features:  features,
		}).
		SetResult(&out).
		Post("/predict")
	if err != nil {
		return risk.ClassifierScore{}, fmt.Errorf("%w: %w", domain.ErrClassifierUnavailable, err)
	}
	if resp.IsError() {
		return risk.ClassifierScore{}, fmt.Errorf("%w: status %d: %s", domain.ErrClassifierUnavailable, resp.StatusCode(), resp.String())
	}
	if !out.Success {
		return risk.ClassifierScore{}, fmt.Errorf("%w: %s", domain.ErrClassifierUnavailable, out.Error)
	}
	if out.Probability == nil {
		return risk.ClassifierScore{}, fmt.Errorf("%w: missing probability", domain.ErrClassifierInvalidResponse)
	}
	p := *out.Probability
	if p < 0 || p > 1 {
		return risk.ClassifierScore{}, fmt.Errorf("%w: probability %v out of range", domain.ErrClassifierInvalidResponse, p)
	}
	if out.Confidence < 0 || out.Confidence > 1 {
		return risk.ClassifierScore{}, fmt.Errorf("%w: confidence %v out of range", domain.ErrClassifierInvalidResponse, out.Confidence)
	}
	return risk.ClassifierScore{
		Probability: p,
		Confidence:  out.Confidence,
		RiskLevel:   out.RiskLevel,
	}, nil
}
