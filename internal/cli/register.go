// AngelaMos | 2026
// register.go

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Yashraj9595/edumentor-session/internal/session"
)

func newRegisterCmd() *cobra.Command {
	var (
		email       string
		password    string
		confirm     string
		firstName   string
		lastName    string
		mobile      string
		role        string
		acceptTerms bool
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account (requires email verification before sign-in)",
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

			input := session.RegisterInput{
				Email:           email,
				Password:        password,
				ConfirmPassword: confirm,
				FirstName:       firstName,
				LastName:        lastName,
				Mobile:          mobile,
				Role:            session.Role(role),
				AcceptedTerms:   acceptTerms,
			}

			if err := ctrl.Register(cmd.Context(), input); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Account created. Verify your email with:")
			fmt.Fprintf(cmd.OutOrStdout(), "  edumentor verify --email %s --code <otp>\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&confirm, "confirm-password", "", "password confirmation")
	cmd.Flags().StringVar(&firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&mobile, "mobile", "", "mobile number")
	cmd.Flags().StringVar(&role, "role", "student", "account role")
	cmd.Flags().BoolVar(&acceptTerms, "accept-terms", false, "accept the terms and conditions")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("confirm-password")
	_ = cmd.MarkFlagRequired("first-name")
	_ = cmd.MarkFlagRequired("last-name")

	return cmd
}

func newVerifyCmd() *cobra.Command {
	var (
		email string
		code  string
		reset bool
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Submit a one-time verification code",
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

			target := email
			if target == "" {
				if pending, ok := ctrl.PendingRegistrationEmail(cmd.Context()); ok && !reset {
					target = pending
				} else if pending, ok := ctrl.PendingResetEmail(cmd.Context()); ok && reset {
					target = pending
				}
			}
			if target == "" {
				return fmt.Errorf("no pending verification; pass --email")
			}

			if err := ctrl.VerifyOTP(cmd.Context(), target, code, !reset); err != nil {
				return err
			}

			if reset {
				fmt.Fprintln(cmd.OutOrStdout(), "Code accepted. Set a new password with:")
				fmt.Fprintf(cmd.OutOrStdout(), "  edumentor reset-password --email %s --code %s --password <new>\n", target, code)
				return nil
			}

			if user, err := ctrl.AdoptPendingRegistration(cmd.Context()); err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Email verified. Welcome, %s!\n", user.FullName())
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Email verified. You can sign in now.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email the code was sent to (defaults to the pending flow)")
	cmd.Flags().StringVar(&code, "code", "", "6-digit verification code")
	cmd.Flags().BoolVar(&reset, "reset", false, "verify a password-reset code instead of a registration code")
	_ = cmd.MarkFlagRequired("code")

	return cmd
}
