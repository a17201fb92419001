// ABOUTME: Health command for the libctl CLI
// ABOUTME: Checks backend connectivity and service status

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ptit-library/libctl/internal/client"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check backend connectivity",
	Long:  `Check connectivity to the library backend and report its status.`,
	Args:  cobra.NoArgs,
	RunE: withEnv(func(ctx context.Context, e *env, cmd *cobra.Command, args []string) error {
		return runHealth(ctx, e.api, os.Stdout, IsJSONOutput())
	}),
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

// runHealth executes the health check
func runHealth(ctx context.Context, c *client.Client, w io.Writer, jsonOut bool) error {
	resp, err := c.Health(ctx)
	if err != nil {
		return err
	}

	if jsonOut {
		return writeJSON(w, map[string]string{
			"backend": c.BaseURL(),
			"status":  resp.Status,
		})
	}
	fmt.Fprintln(w, formatHealthHuman(c.BaseURL(), resp))
	return nil
}

// formatHealthHuman formats health response for human readability
func formatHealthHuman(url string, resp *client.Health) string {
	return fmt.Sprintf(`Backend: %s
Status:  %s`, url, resp.Status)
}
