package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/webmark/internal/auth"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a token for a user (development only)",
	Long: `Signs a token with WEBMARK_JWT_SECRET that the server accepts in the
"token" header.

Examples:
  webmarkctl token --user 42
  webmarkctl token --user 42 --ttl 1h`,
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user")
		ttl, _ := cmd.Flags().GetDuration("ttl")
		userID = strings.TrimSpace(userID)
		if userID == "" {
			return fmt.Errorf("--user must not be empty")
		}

		secret := os.Getenv("WEBMARK_JWT_SECRET")
		if secret == "" {
			return fmt.Errorf("WEBMARK_JWT_SECRET environment variable not set")
		}

		token, err := auth.NewJWT(secret, os.Getenv("WEBMARK_JWT_ISSUER")).Issue(userID, ttl)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().String("user", "", "User id carried by the token")
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "Token lifetime")
	_ = tokenCmd.MarkFlagRequired("user")
}
