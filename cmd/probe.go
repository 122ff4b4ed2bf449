package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"devopsdemo/internal/probe"
)

func newProbeCmd() *cobra.Command {
	var (
		url     string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Check that the greeting route answers (exit 0 when healthy)",
		Long: `
probe sends one GET to the greeting route and exits non-zero unless it gets
200 with the expected body. Use it as a container HEALTHCHECK or a
Kubernetes exec probe in images without curl.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := &http.Client{Timeout: timeout}
			if err := probe.Check(cmd.Context(), client, url); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}

	cmd.Flags().StringVarP(&url, "url", "u", probe.DefaultURL, "Greeting URL to check")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Second, "Request timeout")
	return cmd
}
