// ABOUTME: User administration commands
// ABOUTME: Every subcommand needs an admin session

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ptit-library/libctl/internal/client"
)

var userFlags struct {
	page          int
	pageSize      int
	search        string
	role          string
	fullName      string
	phone         string
	active        bool
	passwordStdin bool
}

var usersCmd = &cobra.Command{
	Use:     "users",
	Aliases: []string{"user"},
	Short:   "Manage user accounts (admin)",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(ctx context.Context, e *env, cmd *cobra.Command, args []string) error {
		if err := requireLogin(e.store); err != nil {
			return err
		}
		q := client.UserQuery{
			Page:     userFlags.page,
			PageSize: pageSizeOr(userFlags.pageSize, e),
			Search:   userFlags.search,
			Role:     client.Role(userFlags.role),
		}
		return runUsersList(ctx, e.api, os.Stdout, q, IsJSONOutput())
	}),
}

var usersGetCmd = &cobra.Command{
	Use:   "get USER_ID",
	Short: "Show a user",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(ctx context.Context, e *env, cmd *cobra.Command, args []string) error {
		if err := requireLogin(e.store); err != nil {
			return err
		}
		id, err := parseID("user", args[0])
		if err != nil {
			return err
		}
		return runUserGet(ctx, e.api, os.Stdout, id, IsJSONOutput())
	}),
}

var usersUpdateCmd = &cobra.Command{
	Use:   "update USER_ID",
	Short: "Change a user's profile or active flag",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(ctx context.Context, e *env, cmd *cobra.Command, args []string) error {
		if err := requireLogin(e.store); err != nil {
			return err
		}
		id, err := parseID("user", args[0])
		if err != nil {
			return err
		}
		var upd client.UserUpdate
		if cmd.Flags().Changed("full-name") {
			upd.FullName = &userFlags.fullName
		}
		if cmd.Flags().Changed("phone") {
			upd.Phone = &userFlags.phone
		}
		if cmd.Flags().Changed("active") {
			upd.IsActive = &userFlags.active
		}
		return runUserUpdate(ctx, e.api, os.Stdout, id, upd, IsJSONOutput())
	}),
}

var usersResetPasswordCmd = &cobra.Command{
	Use:   "reset-password USER_ID",
	Short: "Set a new password for a user",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(ctx context.Context, e *env, cmd *cobra.Command, args []string) error {
		if err := requireLogin(e.store); err != nil {
			return err
		}
		id, err := parseID("user", args[0])
		if err != nil {
			return err
		}
		password, err := resolvePassword(cmd.InOrStdin(), userFlags.passwordStdin)
		if err != nil {
			return err
		}
		return runResetPassword(ctx, e.api, os.Stdout, id, password)
	}),
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete USER_ID",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(ctx context.Context, e *env, cmd *cobra.Command, args []string) error {
		if err := requireLogin(e.store); err != nil {
			return err
		}
		id, err := parseID("user", args[0])
		if err != nil {
			return err
		}
		if err := e.api.Users().Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Deleted user #%d\n", id)
		return nil
	}),
}

func init() {
	usersListCmd.Flags().IntVar(&userFlags.page, "page", 1, "Page number")
	usersListCmd.Flags().IntVar(&userFlags.pageSize, "page-size", 0, "Users per page (default from config)")
	usersListCmd.Flags().StringVarP(&userFlags.search, "search", "s", "", "Search username, email or name")
	usersListCmd.Flags().StringVar(&userFlags.role, "role", "", "Filter by role: admin or user")

	usersUpdateCmd.Flags().StringVar(&userFlags.fullName, "full-name", "", "Full name")
	usersUpdateCmd.Flags().StringVar(&userFlags.phone, "phone", "", "Phone number")
	usersUpdateCmd.Flags().BoolVar(&userFlags.active, "active", true, "Whether the account may sign in")

	usersResetPasswordCmd.Flags().BoolVar(&userFlags.passwordStdin, "password-stdin", false, "Read the new password from stdin")

	usersCmd.AddCommand(usersListCmd, usersGetCmd, usersUpdateCmd, usersResetPasswordCmd, usersDeleteCmd)
	rootCmd.AddCommand(usersCmd)
}

// runUsersList prints one page of users
func runUsersList(ctx context.Context, api *client.Client, w io.Writer, q client.UserQuery, jsonOut bool) error {
	page, err := api.Users().List(ctx, q)
	if err != nil {
		return err
	}
	if jsonOut {
		return writeJSON(w, page)
	}
	if len(page.Items) == 0 {
		fmt.Fprintln(w, "No users found")
		return nil
	}

	rows := make([][]string, 0, len(page.Items))
	for _, u := range page.Items {
		active := "yes"
		if !u.IsActive {
			active = "no"
		}
		rows = append(rows, []string{
			strconv.FormatInt(u.ID, 10),
			u.Username,
			orDash(u.FullName),
			orDash(u.Email),
			string(u.Role),
			active,
		})
	}
	fmt.Fprintln(w, renderTable([]string{"ID", "Username", "Name", "Email", "Role", "Active"}, rows))
	writePageFooter(w, page)
	return nil
}

// runUserGet prints a single user
func runUserGet(ctx context.Context, api *client.Client, w io.Writer, id int64, jsonOut bool) error {
	user, err := api.Users().Get(ctx, id)
	if err != nil {
		return err
	}
	if jsonOut {
		return writeJSON(w, user)
	}
	fmt.Fprintf(w, "#%d %s\n", user.ID, user.Username)
	fmt.Fprintf(w, "Name:    %s\n", orDash(user.FullName))
	fmt.Fprintf(w, "Email:   %s\n", orDash(user.Email))
	fmt.Fprintf(w, "Phone:   %s\n", orDash(user.Phone))
	fmt.Fprintf(w, "Role:    %s\n", user.Role)
	fmt.Fprintf(w, "Active:  %t\n", user.IsActive)
	fmt.Fprintf(w, "Joined:  %s\n", formatTime(user.CreatedAt))
	return nil
}

// runUserUpdate changes a user
func runUserUpdate(ctx context.Context, api *client.Client, w io.Writer, id int64, upd client.UserUpdate, jsonOut bool) error {
	user, err := api.Users().Update(ctx, id, upd)
	if err != nil {
		return err
	}
	if jsonOut {
		return writeJSON(w, user)
	}
	fmt.Fprintf(w, "Updated user #%d %s\n", user.ID, user.Username)
	return nil
}

// runResetPassword sets a new password
func runResetPassword(ctx context.Context, api *client.Client, w io.Writer, id int64, password string) error {
	ack, err := api.Users().ResetPassword(ctx, id, password)
	if err != nil {
		return err
	}
	msg := ack.Message
	if msg == "" {
		msg = fmt.Sprintf("Password reset for user #%d", id)
	}
	fmt.Fprintln(w, msg)
	return nil
}
