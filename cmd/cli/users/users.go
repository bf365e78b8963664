package users

import (
	"fmt"
	"io"
	"net/http"

	"github.com/crucial707/todo-api/cmd/cli/client"
	"github.com/crucial707/todo-api/cmd/cli/config"
	"github.com/crucial707/todo-api/cmd/cli/output"
	"github.com/spf13/cobra"
)

// User is the public user record returned by the API.
type User struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// ==========================
// CLI Command Init
// ==========================
func InitUsers(rootCmd *cobra.Command) {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage users and authentication",
		Long: `Register or login a user to the Todo API.
Stores the access token locally for future commands.`,
	}

	usersCmd.AddCommand(registerCmd(), loginCmd(), logoutCmd(), meCmd())
	rootCmd.AddCommand(usersCmd)
}

// prompt reads a value from in when the flag was left empty.
func prompt(cmd *cobra.Command, label string, value *string) {
	if *value != "" {
		return
	}
	fmt.Fprint(cmd.OutOrStdout(), label+": ")
	fmt.Fscanln(cmd.InOrStdin(), value)
}

// ==========================
// Register User
// ==========================
func registerCmd() *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new user",
		Long:  "Register a new user with username, email and password.",
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt(cmd, "Username", &username)
			prompt(cmd, "Email", &email)
			prompt(cmd, "Password", &password)

			var resp struct {
				Data User `json:"data"`
			}
			payload := map[string]string{"username": username, "email": email, "password": password}
			if err := client.New("").Do(http.MethodPost, "/register", payload, &resp); err != nil {
				return fmt.Errorf("register: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "User %s registered (id %d). You can now login.\n", resp.Data.Username, resp.Data.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "username")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	return cmd
}

// ==========================
// Login User
// ==========================
func loginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login an existing user",
		Long:  "Login and save the access token locally for future CLI commands.",
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt(cmd, "Username", &username)
			prompt(cmd, "Password", &password)

			var resp struct {
				AccessToken string `json:"access_token"`
				User        User   `json:"user"`
			}
			payload := map[string]string{"username": username, "password": password}
			if err := client.New("").Do(http.MethodPost, "/login", payload, &resp); err != nil {
				return fmt.Errorf("login: %w", err)
			}
			if resp.AccessToken == "" {
				return fmt.Errorf("login succeeded but no token returned")
			}

			if err := config.SaveToken(resp.AccessToken); err != nil {
				return fmt.Errorf("save token: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s. Token saved locally.\n", resp.User.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "username")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	return cmd
}

// ==========================
// Logout User
// ==========================
func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Logout current user",
		Long:  "Remove the locally saved access token.",
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := config.RemoveToken()
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintln(cmd.OutOrStdout(), "No user logged in.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out successfully.")
			return nil
		},
	}
}

// ==========================
// Current User
// ==========================
func meCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "me",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Authenticated()
			if err != nil {
				return err
			}

			var resp struct {
				Data User `json:"data"`
			}
			if err := c.Do(http.MethodGet, "/me", nil, &resp); err != nil {
				return err
			}
			return printUser(cmd.OutOrStdout(), resp.Data, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}

func printUser(w io.Writer, u User, asJSON bool) error {
	if asJSON {
		return output.PrintJSON(w, u)
	}
	output.RenderTable(w, []string{"ID", "Username", "Email", "Created"},
		[][]interface{}{{u.ID, u.Username, u.Email, u.CreatedAt}})
	return nil
}
