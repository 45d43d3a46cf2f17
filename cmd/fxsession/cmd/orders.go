package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxsession/broker"
	"github.com/rustyeddy/fxsession/session"
	"github.com/rustyeddy/fxsession/sim"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Walk through simulated order management",
	Long: `Demonstrate the paper engine's order types against a synthetic price
feed: a market order with stop loss and take profit, a limit order, a
stop order, and order cancellation. No broker orders are placed.

Example:
  fxsession orders
  fxsession orders --ticks 200`,
	RunE: runOrders,
}

var ordersTicks int

func init() {
	rootCmd.AddCommand(ordersCmd)

	ordersCmd.Flags().IntVar(&ordersTicks, "ticks", 100, "synthetic ticks to run after placing orders")
}

func runOrders(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	src := session.NewRandomWalk("EUR_USD")
	engine := sim.NewEngine(broker.Account{ID: "SIM-001", Currency: "USD", Balance: 10000}, nil)

	// Seed a first quote so market orders have a price to fill at.
	tick, err := src.CurrentTick(ctx)
	if err != nil {
		return err
	}
	if err := engine.UpdateTick(tick); err != nil {
		return err
	}

	fmt.Println("Simulated Order Management")
	fmt.Println("==========================")
	fmt.Printf("Start price: bid=%.5f ask=%.5f\n\n", tick.Bid, tick.Ask)

	// 1. Market order with protective stops.
	sl := tick.Ask - 0.0050
	tp := tick.Ask + 0.0050
	fill, err := engine.CreateMarketOrder(ctx, broker.MarketOrderRequest{
		Instrument: "EUR_USD",
		Units:      1000,
		StopLoss:   &sl,
		TakeProfit: &tp,
	})
	if err != nil {
		return fmt.Errorf("market order: %w", err)
	}
	fmt.Printf("1. Market BUY 1000 filled at %.5f (SL %.5f / TP %.5f)\n", fill.Price, sl, tp)
	fmt.Printf("   trade %s, commission %.4f\n\n", fill.TradeID, fill.Commission)

	// 2. Buy limit below the market.
	limit, err := engine.CreatePendingOrder(ctx, sim.PendingOrderRequest{
		Type:       broker.OrderLimit,
		Instrument: "EUR_USD",
		Units:      1000,
		Price:      tick.Ask - 0.0020,
	})
	if err != nil {
		return fmt.Errorf("limit order: %w", err)
	}
	fmt.Printf("2. Limit BUY 1000 @ %.5f placed (%s)\n\n", limit.Price, limit.ID)

	// 3. Sell stop below the market, then cancel it.
	stop, err := engine.CreatePendingOrder(ctx, sim.PendingOrderRequest{
		Type:       broker.OrderStop,
		Instrument: "EUR_USD",
		Units:      -1000,
		Price:      tick.Bid - 0.0030,
	})
	if err != nil {
		return fmt.Errorf("stop order: %w", err)
	}
	fmt.Printf("3. Stop SELL 1000 @ %.5f placed (%s)\n", stop.Price, stop.ID)
	if err := engine.CancelOrder(ctx, stop.ID); err != nil {
		return fmt.Errorf("cancel order: %w", err)
	}
	fmt.Printf("   ...and cancelled\n\n")

	// 4. Let the price walk and see what triggers.
	fmt.Printf("4. Running %d synthetic ticks...\n", ordersTicks)
	for i := 0; i < ordersTicks; i++ {
		t, err := src.CurrentTick(ctx)
		if err != nil {
			return err
		}
		if err := engine.UpdateTick(t); err != nil {
			return err
		}
	}

	// 5. Close whatever is still open and summarize.
	for _, t := range engine.OpenTrades() {
		if err := engine.CloseTrade(ctx, t.ID, sim.ReasonManual); err != nil {
			return fmt.Errorf("close trade %s: %w", t.ID, err)
		}
	}

	fmt.Println("\nResults")
	fmt.Println("-------")
	for _, t := range engine.ClosedTrades() {
		fmt.Printf("  %s %+.0f units  %.5f -> %.5f  P/L %+.4f  (%s)\n",
			t.Instrument, t.Units, t.EntryPrice, t.ClosePrice, t.RealizedPL, t.CloseReason)
	}
	for _, o := range engine.PendingOrders() {
		fmt.Printf("  pending %s %s %+.0f @ %.5f (%s)\n", o.Type, o.Instrument, o.Units, o.Price, o.State)
	}

	acct, _ := engine.GetAccount(ctx)
	fmt.Printf("\nFinal balance: %.2f %s\n", acct.Balance, acct.Currency)
	return nil
}
