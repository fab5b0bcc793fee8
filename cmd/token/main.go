package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pageza/snapcal/backend/config"
	"github.com/pageza/snapcal/backend/internal/service"
)

func main() {
	if err := command().Execute(); err != nil {
		os.Exit(1)
	}
}

// command prints a device token signed with the configured JWT secret
func command() *cobra.Command {
	var (
		device string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a device token for the SnapCal API",
		Long:  "Signs a bearer token with the same secret the API server validates against. A zero --ttl issues a token that never expires.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}

			token, err := service.NewTokenService(cfg.JWTSecret).GenerateToken(device, ttl)
			if err != nil {
				return err
			}

			log.Printf("[Token] issued token for device %q", device)
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&device, "device", "default", "device name embedded in the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 365*24*time.Hour, "token lifetime")
	return cmd
}
