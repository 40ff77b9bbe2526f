package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with the trading backend and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, _, err := setup()
			if err != nil {
				return err
			}

			if email == "" {
				email = cfg.Backend.Email
			}
			if password == "" {
				password = cfg.Backend.Password
			}
			if email == "" || password == "" {
				return fmt.Errorf("email and password are required (flags, config or environment)")
			}

			data, err := client.Login(context.Background(), email, password)
			if err != nil {
				return err
			}

			fmt.Printf("Logged in as %s (%s)\n", data.User.Name, data.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func newSignupCmd() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a backend account and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, _, err := setup()
			if err != nil {
				return err
			}

			if name == "" || email == "" || password == "" {
				return fmt.Errorf("--name, --email and --password are required")
			}

			data, err := client.Signup(context.Background(), name, email, password)
			if err != nil {
				return err
			}

			fmt.Printf("Account created for %s (%s)\n", data.User.Name, data.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}
