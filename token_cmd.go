package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"projecthub/microservices/progress-service/config"
	"projecthub/microservices/progress-service/utils"
)

var (
	tokenEmployeeID int64
	tokenRole       string
	tokenTTL        time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token this service accepts",
	Long: `Signs an HS256 token with JWT_SECRET for the given employee and role.
Other services and scripts use it to call the API without a collaborator session.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}
		token, err := mintToken(cfg, tokenEmployeeID, tokenRole, tokenTTL)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
		return err
	},
}

func mintToken(cfg config.Config, employeeID int64, role string, ttl time.Duration) (string, error) {
	if employeeID <= 0 {
		return "", errors.New("--employee must be a positive id")
	}
	if ttl <= 0 {
		return "", errors.New("--ttl must be positive")
	}
	if role == "" {
		role = "User"
	}
	return utils.GenerateToken([]byte(cfg.JWTSecret), employeeID, role, ttl)
}

func init() {
	tokenCmd.Flags().Int64Var(&tokenEmployeeID, "employee", 0, "employee id to put in the token")
	tokenCmd.Flags().StringVar(&tokenRole, "role", "User", "role claim, e.g. Admin")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "token lifetime")
}
