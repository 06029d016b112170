package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/taskloop/taskloop/internal/auth"
	"github.com/taskloop/taskloop/internal/config"
)

// NewInspectCmd creates the inspect command
func NewInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <token>",
		Short: "Verify a token's signature and print its claims",
		Long: "Check the token's signature against the configured AUTH_SECRET and print the claims. " +
			"Temporal and issuer policy are not applied; use 'verify' for the full check.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadAuth()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			// Claims only come out after the signature checks out; there
			// is no unverified decode path.
			codec := auth.NewCodec([]byte(cfg.AuthSecret))
			claims, err := codec.Verify(args[0])
			if err != nil {
				return fmt.Errorf("token rejected: %w", err)
			}

			out, err := json.MarshalIndent(claims, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))

			now := time.Now().Unix()
			switch {
			case claims.Exp == 0:
				fmt.Println("expiry: no exp claim")
			case claims.Exp <= now:
				fmt.Printf("expiry: expired %s ago\n", time.Duration(now-claims.Exp)*time.Second)
			default:
				fmt.Printf("expiry: valid for another %s\n", time.Duration(claims.Exp-now)*time.Second)
			}

			return nil
		},
	}

	return cmd
}
