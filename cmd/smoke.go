package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/kilianp07/routetime/client"
	"github.com/kilianp07/routetime/core/prediction"
)

var smokeCmd = &cobra.Command{
	Use:   "smoke",
	Short: "Send one sample request to the prediction service",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := cfg.Smoke.URL
		if v, _ := cmd.Flags().GetString("url"); v != "" {
			endpoint = v
		}
		smoke(cmd.Context(), client.New(endpoint, cfg.Smoke.Timeout()), cmd.OutOrStdout())
		return nil
	},
}

func init() {
	smokeCmd.Flags().String("url", "", "prediction endpoint (default from config)")
	rootCmd.AddCommand(smokeCmd)
}

// sampleRequest is a 5 km trip at 14:00 on day 3 with moderate traffic.
func sampleRequest() prediction.Input {
	return prediction.Input{
		DistanceKm:        prediction.Float(5.0),
		TrafficCongestion: prediction.Float(3),
		Hour:              prediction.Float(14),
		DayOfWeek:         prediction.Float(3),
		OSRMTimeEst:       prediction.Float(500),
	}
}

// smoke prints the outcome of one request. Failures are reported, not
// returned, and the request is not retried.
func smoke(ctx context.Context, c *client.Client, w io.Writer) {
	fmt.Fprintf(w, "Testing prediction service at %s\n", c.URL())
	resp, err := c.Predict(ctx, sampleRequest())
	var se *client.StatusError
	switch {
	case err == nil:
		fmt.Fprintf(w, "Prediction: %.2f seconds\n", resp.PredictedDurationSec)
		fmt.Fprintf(w, "Message: %s\n", resp.Message)
	case errors.As(err, &se):
		fmt.Fprintf(w, "Prediction failed: %v\n", se)
	default:
		fmt.Fprintf(w, "Could not reach the prediction service: %v\n", err)
		fmt.Fprintf(w, "Make sure the prediction service is running at %s.\n", serviceHost(c.URL()))
	}
}

// serviceHost returns the host:port of endpoint, or endpoint itself when it
// does not parse.
func serviceHost(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint
	}
	return u.Host
}
