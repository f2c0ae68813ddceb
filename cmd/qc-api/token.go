package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/brandworks/asset-qc/internal/auth"
	"github.com/brandworks/asset-qc/internal/workflow"
	"github.com/spf13/cobra"
)

var (
	tokenUserID   uint
	tokenUsername string
	tokenRole     string
	tokenTTL      time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a token for the local authenticator",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, done := setup()
		defer done()

		if cfg.Service.Auth.Secret == "" {
			return errors.New("QC_AUTH_SECRET is not set")
		}
		if tokenUserID == 0 {
			return errors.New("--user-id is required")
		}

		token, err := auth.IssueLocalToken(cfg.Service.Auth.Secret, auth.User{
			ID:       tokenUserID,
			Username: tokenUsername,
			Role:     workflow.ParseRole(tokenRole),
		}, tokenTTL)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().UintVar(&tokenUserID, "user-id", 0, "id of the user the token is issued for")
	tokenCmd.Flags().StringVar(&tokenUsername, "username", "", "preferred username claim")
	tokenCmd.Flags().StringVar(&tokenRole, "role", string(workflow.RoleUser), "role claim (admin or user)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
}
