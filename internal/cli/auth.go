// AngelaMos | 2026
// auth.go

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Yashraj9595/edumentor-session/internal/store"
	"github.com/Yashraj9595/edumentor-session/internal/token"
)

func newLoginCmd() *cobra.Command {
	var (
		email    string
		password string
		remember bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctrl, closer, err := buildController(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closer()

			if err := ctrl.Login(cmd.Context(), email, password, remember); err != nil {
				return err
			}

			state := ctrl.State()
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", state.User.Email, state.User.Role)
			fmt.Fprintf(cmd.OutOrStdout(), "Home: %s\n", state.HomeRoute())
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().BoolVar(&remember, "remember", false, "persist the remember-me flag")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the persisted session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctrl, closer, err := buildController(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closer()

			ctrl.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctrl, closer, err := buildController(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closer()

			state := ctrl.State()
			if !state.Authenticated() {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
				return nil
			}

			u := state.User
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", u.FullName(), u.Email)
			fmt.Fprintf(cmd.OutOrStdout(), "Role:     %s\n", u.Role)
			fmt.Fprintf(cmd.OutOrStdout(), "Verified: %t\n", u.IsEmailVerified)

			durable, closeStore, err := buildDurableStore(cmd.Context(), cfg.Storage)
			if err != nil {
				return nil //nolint:nilerr // session info already printed
			}
			defer closeStore()

			if access, err := durable.Get(cmd.Context(), store.KeyAccessToken); err == nil {
				if claims, err := token.Peek(access); err == nil && !claims.ExpiresAt.IsZero() {
					fmt.Fprintf(cmd.OutOrStdout(), "Token:    expires %s\n", claims.ExpiresAt.Format(time.RFC3339))
				}
			}

			return nil
		},
	}
}

func newHomeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Print the role-derived home route for the current session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctrl, closer, err := buildController(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closer()

			fmt.Fprintln(cmd.OutOrStdout(), ctrl.State().HomeRoute())
			return nil
		},
	}
}
