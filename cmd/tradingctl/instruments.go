package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newInstrumentsCmd() *cobra.Command {
	var favoritesOnly bool

	cmd := &cobra.Command{
		Use:   "instruments",
		Short: "List tradable instruments and their prices",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, tokens, err := setup()
			if err != nil {
				return err
			}

			ctx := context.Background()
			if err := ensureAuthenticated(ctx, cfg, client, tokens); err != nil {
				return err
			}

			instruments, err := client.GetInstruments(ctx)
			if err != nil {
				return err
			}

			wanted := map[string]bool{}
			if favoritesOnly {
				favorites, err := client.GetFavorites(ctx)
				if err != nil {
					return err
				}
				for _, symbol := range favorites {
					wanted[symbol] = true
				}
			}

			for _, inst := range instruments {
				if favoritesOnly && !wanted[inst.Symbol] {
					continue
				}
				fmt.Printf("%-8s %-20s %12.2f  24h %+6.2f%%  7d %+6.2f%%\n",
					inst.Symbol, inst.Name, inst.Price, inst.Change24h, inst.Change7d)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&favoritesOnly, "favorites", false, "only show favorite instruments")
	return cmd
}
