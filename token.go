package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"apigen-backend/config"
	"apigen-backend/middlewares"
)

var tokenSubject string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a bearer token signed with JWT_SECRET_KEY",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		tok, err := middlewares.GenerateJWT(cfg.JWTSecret, tokenSubject, cfg.TokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "operator", "Token subject")
}
