// ABOUTME: Root command for the libctl CLI
// ABOUTME: Handles global flags, configuration, session store and API client setup

package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ptit-library/libctl/internal/client"
	"github.com/ptit-library/libctl/internal/config"
	"github.com/ptit-library/libctl/internal/logger"
	"github.com/ptit-library/libctl/internal/session"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=..."
var Version = "dev"

var (
	apiURL     string
	jsonOutput bool
	configPath string
	langFlag   string
	logLevel   string
	ephemeral  bool
)

// Exit codes returned by the binary
const (
	ExitOK       = 0
	ExitRejected = 1 // the backend refused the request
	ExitFailure  = 2 // transport, configuration or usage error
)

// errNotLoggedIn is returned by commands that need a session when there is none
var errNotLoggedIn = errors.New("not logged in, run `libctl login` first")

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "libctl",
	Short: "CLI for the library management system",
	Long: `libctl is a command-line client for the library management API.

Browse the catalog, manage your wishlist and borrow requests, and, with an
admin account, manage books, users and approvals.

Environment Variables:
  LIBCTL_API_URL   Backend URL (default: http://localhost:8000)
  LIBCTL_LANG      Message language, vi or en (default: vi)
  LIBCTL_TIMEOUT   Request timeout, e.g. 30s (default: none)
  LIBCTL_CONFIG    Config file (default: $XDG_CONFIG_HOME/libctl/config.yaml)
  LOG_LEVEL        debug, info, warn, error (default: info)
  LOG_FORMAT       text or json (default: text)`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = Version
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides LIBCTL_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (overrides LIBCTL_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&langFlag, "lang", "", "Message language: vi or en")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Keep the session in memory only")
}

// ExitCode maps a command error to the process exit code
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if client.IsRequestError(err) {
		return ExitRejected
	}
	return ExitFailure
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// env is everything a command needs to talk to the backend
type env struct {
	cfg   *config.Config
	store session.Store
	api   *client.Client
}

// loadConfig resolves configuration from flags, environment and files
func loadConfig() (*config.Config, error) {
	return config.Load(config.Options{
		Path: configPath,
		Dir:  session.DefaultConfigDir(),
		Overrides: config.Overrides{
			APIURL:   apiURL,
			Lang:     langFlag,
			LogLevel: logLevel,
		},
	})
}

// setup loads configuration, initializes logging and builds the API client
func setup() (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger.Init(os.Stderr, logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	var store session.Store
	if ephemeral {
		store = session.NewMemoryStore()
	} else {
		store = session.NewFileStore(session.DefaultConfigDir())
	}

	return &env{
		cfg:   cfg,
		store: store,
		api:   newClient(cfg, store),
	}, nil
}

// newClient builds an API client for cfg reading tokens from store
func newClient(cfg *config.Config, store client.TokenSource) *client.Client {
	return client.New(cfg.APIURL, store,
		client.WithMessages(client.Lookup(cfg.Lang)),
		client.WithTimeout(cfg.Timeout),
		client.WithUserAgent(client.DefaultUserAgent+"/"+Version),
	)
}

// signalContext returns a context canceled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// withEnv wraps a command body with signal handling and setup
func withEnv(run func(ctx context.Context, e *env, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		e, err := setup()
		if err != nil {
			return err
		}
		return run(ctx, e, cmd, args)
	}
}

// requireLogin fails fast when the command needs a session and there is none
func requireLogin(s session.Store) error {
	if !session.IsLoggedIn(s) {
		return errNotLoggedIn
	}
	return nil
}
