package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iairbaron/plataforma-trading-frontend/pkg/market"
	"github.com/iairbaron/plataforma-trading-frontend/pkg/models"
	"github.com/iairbaron/plataforma-trading-frontend/pkg/orderentry"
	"github.com/iairbaron/plataforma-trading-frontend/pkg/wallet"
)

func newOrderCmd() *cobra.Command {
	var (
		symbol string
		side   string
		amount string
		total  string
	)

	cmd := &cobra.Command{
		Use:   "order",
		Short: "Place a buy or sell order",
		Long:  `Places one order through the order entry engine. Exactly one of --amount or --total drives the draft; the other value is derived from the live unit price.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if symbol == "" {
				return fmt.Errorf("--symbol is required")
			}
			orderSide := models.OrderSide(side)
			if !orderSide.Valid() {
				return fmt.Errorf("--side must be %q or %q", models.OrderSideBuy, models.OrderSideSell)
			}
			if (amount == "") == (total == "") {
				return fmt.Errorf("exactly one of --amount or --total is required")
			}

			cfg, client, tokens, err := setup()
			if err != nil {
				return err
			}

			ctx := context.Background()
			if err := ensureAuthenticated(ctx, cfg, client, tokens); err != nil {
				return err
			}

			watcher := market.NewWatcher(client, time.Duration(cfg.Market.CatalogTTL)*time.Second, logger)
			balances := wallet.NewStore(client, time.Duration(cfg.Wallet.StaleAfter)*time.Second, logger)

			unitPrice, err := watcher.UnitPrice(ctx, symbol, orderSide)
			if err != nil {
				return err
			}

			session, err := orderentry.NewSession(symbol, orderSide, unitPrice, client, balances, nil, logger)
			if err != nil {
				return err
			}

			var draft orderentry.Draft
			if amount != "" {
				draft = session.Edit(orderentry.AmountEdited(amount))
			} else {
				draft = session.Edit(orderentry.TotalEdited(total))
			}

			fmt.Printf("%s %s: amount %v, total %.2f USD at %v\n", orderSide, symbol, draft.Amount, draft.TotalValue, unitPrice)

			fails, err := session.Submit(ctx)
			if err != nil {
				_, message := session.State()
				if message != "" {
					return fmt.Errorf("%s", message)
				}
				return err
			}
			if len(fails) > 0 {
				for _, fail := range fails {
					fmt.Printf("  - %s\n", fail.Error())
				}
				return fmt.Errorf("order rejected by validation")
			}

			receipt := session.Receipt()
			fmt.Printf("Order %s accepted: %v %s for %.2f USD\n", receipt.OrderID, receipt.Amount, receipt.Symbol, receipt.Total)
			return nil
		},
	}

	cmd.Flags().StringVar(&symbol, "symbol", "", "instrument symbol (e.g. eth)")
	cmd.Flags().StringVar(&side, "side", "buy", "order side: buy or sell")
	cmd.Flags().StringVar(&amount, "amount", "", "unit amount to trade")
	cmd.Flags().StringVar(&total, "total", "", "total USD value to trade")
	return cmd
}
