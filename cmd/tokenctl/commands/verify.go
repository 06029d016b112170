package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/taskloop/taskloop/internal/auth"
	"github.com/taskloop/taskloop/internal/config"
)

// NewVerifyCmd creates the verify command
func NewVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <token>",
		Short: "Run a token through the full authentication gate",
		Long: "Verify the token's signature and validate its claims against the configured " +
			"issuer, audience, and clock skew policy. Exits nonzero on any failure.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadAuth()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			gate := auth.NewGate([]byte(cfg.AuthSecret), cfg.Policy())
			identity, err := gate.Authenticate(args[0])
			if err != nil {
				return fmt.Errorf("token rejected: %w", err)
			}

			fmt.Printf("token accepted\nsubject: %s\n", identity.Subject)
			if identity.Email != "" {
				fmt.Printf("email: %s\n", identity.Email)
			}
			return nil
		},
	}

	return cmd
}
