package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/taskloop/taskloop/internal/auth"
	"github.com/taskloop/taskloop/internal/config"
)

// NewIssueCmd creates the issue command
func NewIssueCmd() *cobra.Command {
	var (
		subject string
		email   string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a signed token for a subject",
		Long:  "Mint a bearer token for the given subject using the configured AUTH_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadAuth()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if subject == "" {
				return fmt.Errorf("--sub is required")
			}

			lifetime := ttl
			if lifetime == 0 {
				lifetime = cfg.AuthTokenTTL
			}

			issuer := auth.NewIssuer([]byte(cfg.AuthSecret), cfg.AuthIssuer, cfg.AuthAudience, lifetime)
			token, err := issuer.Issue(subject, email)
			if err != nil {
				return fmt.Errorf("failed to issue token: %w", err)
			}

			fmt.Println(token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "sub", "", "Subject (user ID) the token asserts")
	cmd.Flags().StringVar(&email, "email", "", "Email claim to carry (optional)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (default: configured AUTH_TOKEN_TTL_SECONDS)")

	return cmd
}
