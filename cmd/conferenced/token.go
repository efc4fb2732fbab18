package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"conferencecentral/config"
	"conferencecentral/internal/adapters/auth"
	"conferencecentral/internal/domain"
)

func newTokenCmd() *cobra.Command {
	var identity domain.Identity
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for local testing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if identity.UserID == "" {
				return errors.New("--user is required")
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			token, err := auth.NewJWT(cfg.JWTSecret).Issue(identity, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&identity.UserID, "user", "", "user ID carried by the token")
	cmd.Flags().StringVar(&identity.Email, "email", "", "email carried by the token")
	cmd.Flags().StringVar(&identity.Name, "name", "", "display name carried by the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
