// AngelaMos | 2026
// root.go

package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Yashraj9595/edumentor-session/internal/config"
)

var configPath string

// NewRootCmd wires up the edumentor CLI.
func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "edumentor",
		Short:         "EduMentor session client",
		Long:          "Command-line client for the EduMentor auth API: sign in, manage your account, and inspect the local session.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	root.AddCommand(
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newHomeCmd(),
		newRegisterCmd(),
		newVerifyCmd(),
		newForgotPasswordCmd(),
		newResetPasswordCmd(),
		newKeygenCmd(),
	)

	return root
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	setupLogger(cfg.Log)
	return cfg, nil
}

func setupLogger(cfg config.LogConfig) {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
