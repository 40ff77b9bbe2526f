package main

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/iairbaron/plataforma-trading-frontend/pkg/models"
)

func newBalanceCmd() *cobra.Command {
	var deposit, withdraw string

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show the wallet balance, or deposit/withdraw USD",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, tokens, err := setup()
			if err != nil {
				return err
			}

			ctx := context.Background()
			if err := ensureAuthenticated(ctx, cfg, client, tokens); err != nil {
				return err
			}

			if deposit != "" && withdraw != "" {
				return fmt.Errorf("--deposit and --withdraw are mutually exclusive")
			}

			if deposit != "" || withdraw != "" {
				op, raw := models.OperationDeposit, deposit
				if withdraw != "" {
					op, raw = models.OperationWithdraw, withdraw
				}

				value, err := strconv.ParseFloat(raw, 64)
				if err != nil || value <= 0 {
					return fmt.Errorf("operation amount must be a positive number")
				}

				info, err := client.UpdateBalance(ctx, op, value)
				if err != nil {
					return err
				}
				fmt.Printf("%s of %.2f USD accepted, wallet balance is now %.2f USD\n", op, value, info.Balance)
				return nil
			}

			balance, err := client.GetBalance(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("USD balance:      %.2f\n", balance.USDBalance)
			fmt.Printf("Total coin value: %.2f\n", balance.TotalCoinValue)

			symbols := make([]string, 0, len(balance.CoinDetails))
			for symbol := range balance.CoinDetails {
				symbols = append(symbols, symbol)
			}
			sort.Strings(symbols)

			for _, symbol := range symbols {
				detail := balance.CoinDetails[symbol]
				fmt.Printf("  %-8s %12v @ %12.2f = %10.2f USD\n", symbol, detail.Amount, detail.CurrentPrice, detail.Value)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&deposit, "deposit", "", "USD amount to deposit")
	cmd.Flags().StringVar(&withdraw, "withdraw", "", "USD amount to withdraw")
	return cmd
}
