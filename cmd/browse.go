// ABOUTME: Browse command starting the interactive terminal UI
// ABOUTME: Requires a terminal; logs are written to a file while it runs

package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ptit-library/libctl/internal/logger"
	"github.com/ptit-library/libctl/internal/session"
	"github.com/ptit-library/libctl/internal/tui"
)

var errNoTerminal = errors.New("browse needs an interactive terminal")

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the catalog, wishlist and borrow requests interactively",
	Long: `Starts a full-screen terminal UI.

Anyone can browse the catalog. Signed-in users can manage their wishlist and
send borrow requests; admins can approve, reject and close requests.
Logs are written to debug.log in the config directory while the UI runs.`,
	RunE: withEnv(func(ctx context.Context, e *env, cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return errNoTerminal
		}
		return tui.Run(e.api, e.store, session.DefaultConfigDir(), logger.ParseLevel(e.cfg.LogLevel))
	}),
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
