// AngelaMos | 2026
// password.go

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newForgotPasswordCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Request a password-reset code",
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

			if err := ctrl.ForgotPassword(cmd.Context(), email); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "If %s has an account, a reset code is on its way.\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newResetPasswordCmd() *cobra.Command {
	var (
		email    string
		code     string
		password string
		confirm  string
	)

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password using a reset code",
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

			if confirm == "" {
				confirm = password
			}

			if err := ctrl.ResetPassword(cmd.Context(), email, code, password, confirm); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Password updated. Sign in with your new password.")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&code, "code", "", "6-digit reset code")
	cmd.Flags().StringVar(&password, "password", "", "new password")
	cmd.Flags().StringVar(&confirm, "confirm-password", "", "confirmation (defaults to --password)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("code")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
