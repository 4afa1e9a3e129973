// Package client calls the prediction service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/kilianp07/routetime/api/predict"
	"github.com/kilianp07/routetime/core/prediction"
)

// DefaultURL is the prediction endpoint of a locally running service.
const DefaultURL = "http://localhost:5050/predict"

// DefaultTimeout bounds a single request.
const DefaultTimeout = 5 * time.Second

// FallbackSecondsPerKm is the pace assumed when the service is unavailable.
const FallbackSecondsPerKm = 90

// StatusError is returned when the service answers with a non 200 status.
type StatusError struct {
	StatusCode int
	Kind       string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("prediction service returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("prediction service returned %d (%s): %s", e.StatusCode, e.Kind, e.Message)
}

// Client sends prediction requests. Requests are never retried.
type Client struct {
	url  string
	http *http.Client
}

// New returns a client for the /predict endpoint at url.
func New(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{url: url, http: &http.Client{Timeout: timeout}}
}

// URL returns the endpoint the client posts to.
func (c *Client) URL() string { return c.url }

// Predict posts in and decodes the prediction.
func (c *Client) Predict(ctx context.Context, in prediction.Input) (predict.Response, error) {
	var out predict.Response
	body, err := json.Marshal(in)
	if err != nil {
		return out, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return out, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e predict.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return out, &StatusError{StatusCode: resp.StatusCode, Kind: e.Kind, Message: e.Error}
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("decode prediction: %w", err)
	}
	return out, nil
}

// Estimate is a prediction expressed in seconds and minutes.
type Estimate struct {
	DurationSec float64 `json:"predicted_duration_sec"`
	DurationMin float64 `json:"predicted_duration_min"`
	// Fallback is set when the service could not be used and the duration
	// was derived from distance alone.
	Fallback bool `json:"is_fallback"`
	// Cause is the error that triggered the fallback.
	Cause error `json:"-"`
}

// Estimate predicts a duration and falls back to FallbackSecondsPerKm when
// the service is unreachable or fails. Rejected input is still an error.
func (c *Client) Estimate(ctx context.Context, in prediction.Input) (Estimate, error) {
	resp, err := c.Predict(ctx, in)
	if err == nil {
		return newEstimate(resp.PredictedDurationSec, false, nil), nil
	}
	var se *StatusError
	if errors.As(err, &se) && se.StatusCode < http.StatusInternalServerError {
		return Estimate{}, err
	}
	if in.DistanceKm == nil {
		return Estimate{}, fmt.Errorf("no fallback without distance_km: %w", err)
	}
	return newEstimate(*in.DistanceKm*FallbackSecondsPerKm, true, err), nil
}

func newEstimate(sec float64, fallback bool, cause error) Estimate {
	return Estimate{
		DurationSec: sec,
		DurationMin: math.Round(sec/60*100) / 100,
		Fallback:    fallback,
		Cause:       cause,
	}
}
