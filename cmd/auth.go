// ABOUTME: Login, logout, whoami and register commands
// ABOUTME: Credentials come from flags, stdin or an interactive form

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ptit-library/libctl/internal/client"
	"github.com/ptit-library/libctl/internal/session"
)

var (
	authUsername      string
	authPasswordStdin bool
	registerEmail     string
	registerFullName  string
	registerPhone     string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session",
	Long: `Sign in with a username and password.

The password is read from stdin with --password-stdin, otherwise an
interactive form is shown when running in a terminal.`,
	Args: cobra.NoArgs,
	RunE: withEnv(func(ctx context.Context, e *env, cmd *cobra.Command, args []string) error {
		username, password, err := resolveCredentials(cmd.InOrStdin(), authUsername, authPasswordStdin)
		if err != nil {
			return err
		}
		return runLogin(ctx, e.store, e.api.Auth(), os.Stdout, username, password, IsJSONOutput())
	}),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(ctx context.Context, e *env, cmd *cobra.Command, args []string) error {
		return runLogout(e.store, os.Stdout)
	}),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(ctx context.Context, e *env, cmd *cobra.Command, args []string) error {
		return runWhoami(ctx, e, os.Stdout, IsJSONOutput(), time.Now())
	}),
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(ctx context.Context, e *env, cmd *cobra.Command, args []string) error {
		if authUsername == "" || registerEmail == "" {
			return errors.New("--username and --email are required")
		}
		password, err := resolvePassword(cmd.InOrStdin(), authPasswordStdin)
		if err != nil {
			return err
		}
		in := client.RegisterInput{
			Username: authUsername,
			Email:    registerEmail,
			Password: password,
			FullName: registerFullName,
			Phone:    registerPhone,
		}
		return runRegister(ctx, e.store, e.api.Auth(), os.Stdout, in, IsJSONOutput())
	}),
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().StringVarP(&authUsername, "username", "u", "", "Username")
		c.Flags().BoolVar(&authPasswordStdin, "password-stdin", false, "Read the password from stdin")
	}
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "Email address")
	registerCmd.Flags().StringVar(&registerFullName, "full-name", "", "Full name")
	registerCmd.Flags().StringVar(&registerPhone, "phone", "", "Phone number")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, registerCmd)
}

// runLogin signs in and reports the user
func runLogin(ctx context.Context, s session.Store, auth session.Authenticator, w io.Writer, username, password string, jsonOut bool) error {
	user, err := session.SignIn(ctx, s, auth, username, password)
	if err != nil {
		return err
	}
	if jsonOut {
		return writeJSON(w, user)
	}
	fmt.Fprintf(w, "Signed in as %s (%s)\n", user.DisplayName(), user.Role)
	return nil
}

// runLogout clears the session
func runLogout(s session.Store, w io.Writer) error {
	if !session.IsLoggedIn(s) {
		fmt.Fprintln(w, "Not signed in")
		return nil
	}
	if err := session.SignOut(s); err != nil {
		return err
	}
	fmt.Fprintln(w, "Signed out")
	return nil
}

// whoami is the JSON form of the whoami command
type whoami struct {
	User      *client.User `json:"user"`
	ExpiresAt *time.Time   `json:"expires_at,omitempty"`
}

// runWhoami fetches the current profile with the stored token
func runWhoami(ctx context.Context, e *env, w io.Writer, jsonOut bool, now time.Time) error {
	if !session.IsLoggedIn(e.store) {
		return errNotLoggedIn
	}
	user, err := e.api.Auth().Me(ctx)
	if err != nil {
		return err
	}

	out := whoami{User: user}
	if claims, err := session.ParseClaims(e.store.Token()); err == nil && claims.ExpiresAt != nil {
		exp := claims.ExpiresAt.Time
		out.ExpiresAt = &exp
	}

	if jsonOut {
		return writeJSON(w, out)
	}
	fmt.Fprintf(w, "User:   %s (#%d)\n", user.Username, user.ID)
	fmt.Fprintf(w, "Name:   %s\n", orDash(user.FullName))
	fmt.Fprintf(w, "Email:  %s\n", orDash(user.Email))
	fmt.Fprintf(w, "Role:   %s\n", user.Role)
	if out.ExpiresAt != nil {
		if remaining := out.ExpiresAt.Sub(now); remaining > 0 {
			fmt.Fprintf(w, "Token:  expires in %s\n", remaining.Truncate(time.Minute))
		} else {
			fmt.Fprintln(w, "Token:  expired")
		}
	}
	return nil
}

// runRegister creates an account and signs in with it
func runRegister(ctx context.Context, s session.Store, auth session.Authenticator, w io.Writer, in client.RegisterInput, jsonOut bool) error {
	user, err := session.SignUp(ctx, s, auth, in)
	if err != nil {
		return err
	}
	if jsonOut {
		return writeJSON(w, user)
	}
	fmt.Fprintf(w, "Account %s created and signed in\n", user.Username)
	return nil
}

// resolveCredentials reads the password from stdin or prompts for both fields
func resolveCredentials(in io.Reader, username string, fromStdin bool) (string, string, error) {
	if fromStdin {
		if username == "" {
			return "", "", errors.New("--username is required with --password-stdin")
		}
		password, err := readLine(in)
		return username, password, err
	}
	if !stdinIsTerminal() {
		return "", "", errors.New("no terminal for prompting, use --username with --password-stdin")
	}

	var password string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&username).
				Validate(required("username")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&password).
				Validate(required("password")),
		),
	)
	if err := form.Run(); err != nil {
		return "", "", err
	}
	return strings.TrimSpace(username), password, nil
}

// resolvePassword reads a password from stdin or the terminal without echo
func resolvePassword(in io.Reader, fromStdin bool) (string, error) {
	if fromStdin {
		return readLine(in)
	}
	if !stdinIsTerminal() {
		return "", errors.New("no terminal for prompting, use --password-stdin")
	}
	fmt.Fprint(os.Stderr, "Password: ")
	data, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if len(data) == 0 {
		return "", errors.New("password is required")
	}
	return string(data), nil
}

// readLine reads a single non-empty line
func readLine(in io.Reader) (string, error) {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("empty password on stdin")
	}
	return line, nil
}

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}
