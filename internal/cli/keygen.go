// AngelaMos | 2026
// keygen.go

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Yashraj9595/edumentor-session/internal/stub"
)

func newKeygenCmd() *cobra.Command {
	var (
		privatePath string
		publicPath  string
	)

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate an ES256 keypair for the authstub",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := os.MkdirAll(filepath.Dir(privatePath), 0o700); err != nil {
				return fmt.Errorf("create key dir: %w", err)
			}

			if err := stub.GenerateKeyPair(privatePath, publicPath); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s and %s\n", privatePath, publicPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&privatePath, "private", "keys/private.pem", "private key output path")
	cmd.Flags().StringVar(&publicPath, "public", "keys/public.pem", "public key output path")

	return cmd
}
