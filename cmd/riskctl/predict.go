package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/slopewatch/landslide-risk/internal/domain"
	"github.com/spf13/cobra"
)

func newPredictCmd() *cobra.Command {
	var (
		server string
		lat    float64
		lon    float64
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Request a one-shot prediction from a running service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := resty.New().
				SetBaseURL(server).
				SetTimeout(60 * time.Second)

			var result domain.FusionResult
			resp, err := client.R().
				SetContext(cmd.Context()).
				SetBody(map[string]float64{"latitude": lat, "longitude": lon}).
				SetResult(&result).
				Post("/v1/predict")
			if err != nil {
				return fmt.Errorf("predict request: %w", err)
			}
			if resp.IsError() {
				return fmt.Errorf("predict failed: status %d: %s", resp.StatusCode(), resp.String())
			}

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "http://localhost:8080", "base URL of the risk service")
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude in decimal degrees")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude in decimal degrees")
	cmd.MarkFlagRequired("lat") //nolint:errcheck
	cmd.MarkFlagRequired("lon") //nolint:errcheck

	return cmd
}
