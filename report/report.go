// Package report aggregates closed trades into session performance metrics
// and renders them as text or JSON.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/rustyeddy/fxsession/indicators"
)

// Trade is one trade as it appears in a session report.
type Trade struct {
	TradeID       string    `json:"trade_id"`
	Type          string    `json:"type"` // BUY or SELL
	Instrument    string    `json:"instrument"`
	Units         float64   `json:"units"`
	EntryPrice    float64   `json:"entry_price"`
	ClosePrice    float64   `json:"close_price,omitempty"`
	OpenTime      time.Time `json:"open_time"`
	CloseTime     time.Time `json:"close_time,omitempty"`
	ProfitLoss    *float64  `json:"profit_loss"` // nil while the trade is open
	MovingAverage float64   `json:"moving_average,omitempty"`
	CloseReason   string    `json:"close_reason,omitempty"`
}

// Side returns "BUY" for positive units and "SELL" otherwise.
func Side(units float64) string {
	if units > 0 {
		return "BUY"
	}
	return "SELL"
}

// Metrics summarizes a session's trading performance.
type Metrics struct {
	TotalTrades     int     `json:"total_trades"`
	CompletedTrades int     `json:"completed_trades"`
	WinningTrades   int     `json:"winning_trades"`
	LosingTrades    int     `json:"losing_trades"`
	WinRate         float64 `json:"win_rate"` // percent
	TotalProfitLoss float64 `json:"total_profit_loss"`
	LargestWin      float64 `json:"largest_win"`
	LargestLoss     float64 `json:"largest_loss"`
	AverageTradePL  float64 `json:"average_trade_pnl"`
	ProfitFactor    float64 `json:"profit_factor"` // 0 with InfiniteProfit set when there are no losses
	InfiniteProfit  bool    `json:"infinite_profit_factor,omitempty"`
	PLVolatility    float64 `json:"pnl_volatility"`
	InitialBalance  float64 `json:"initial_balance"`
	FinalBalance    float64 `json:"final_balance"`
	ROI             float64 `json:"roi"` // percent
}

// Analyze computes performance metrics from the session's trades. Trades
// with a nil ProfitLoss (still open) count toward TotalTrades only.
func Analyze(initialBalance, finalBalance float64, trades []Trade) Metrics {
	m := Metrics{
		TotalTrades:    len(trades),
		InitialBalance: initialBalance,
		FinalBalance:   finalBalance,
	}

	var pls []float64
	var grossWin, grossLoss float64

	for _, t := range trades {
		if t.ProfitLoss == nil {
			continue
		}
		pl := *t.ProfitLoss
		pls = append(pls, pl)
		m.CompletedTrades++
		m.TotalProfitLoss += pl

		switch {
		case pl > 0:
			m.WinningTrades++
			grossWin += pl
			if pl > m.LargestWin {
				m.LargestWin = pl
			}
		case pl < 0:
			m.LosingTrades++
			grossLoss += -pl
			if pl < m.LargestLoss {
				m.LargestLoss = pl
			}
		}
	}

	if m.CompletedTrades > 0 {
		m.WinRate = float64(m.WinningTrades) / float64(m.CompletedTrades) * 100
		m.AverageTradePL = m.TotalProfitLoss / float64(m.CompletedTrades)
	}
	if grossLoss > 0 {
		m.ProfitFactor = grossWin / grossLoss
	} else if grossWin > 0 {
		// No losing trades; the factor is unbounded. Inf does not survive
		// JSON encoding, so flag it instead.
		m.InfiniteProfit = true
	}
	if initialBalance > 0 {
		m.ROI = m.TotalProfitLoss / initialBalance * 100
	}
	m.PLVolatility = indicators.Stdev(pls)

	return m
}

// Render writes the full performance report: session summary, trade
// statistics, P&L analysis and the detailed trade log.
func (m Metrics) Render(w io.Writer, trades []Trade) {
	fmt.Fprintln(w, "Trade Analysis & Performance Report")
	fmt.Fprintln(w, "===================================")

	if len(trades) == 0 {
		fmt.Fprintln(w, "\nNo trades executed during session")
		return
	}

	fmt.Fprintln(w, "\nSession Summary:")
	fmt.Fprintf(w, "  Initial Balance:   $%.2f\n", m.InitialBalance)
	fmt.Fprintf(w, "  Final Balance:     $%.2f\n", m.FinalBalance)
	fmt.Fprintf(w, "  Total P&L:         $%+.2f\n", m.TotalProfitLoss)
	fmt.Fprintf(w, "  ROI:               %+.2f%%\n", m.ROI)

	fmt.Fprintln(w, "\nTrade Statistics:")
	fmt.Fprintf(w, "  Total Trades:      %d\n", m.TotalTrades)
	fmt.Fprintf(w, "  Completed Trades:  %d\n", m.CompletedTrades)
	fmt.Fprintf(w, "  Winning Trades:    %d\n", m.WinningTrades)
	fmt.Fprintf(w, "  Losing Trades:     %d\n", m.LosingTrades)
	fmt.Fprintf(w, "  Win Rate:          %.1f%%\n", m.WinRate)

	fmt.Fprintln(w, "\nP&L Analysis:")
	fmt.Fprintf(w, "  Average Trade P&L: $%+.2f\n", m.AverageTradePL)
	fmt.Fprintf(w, "  Largest Win:       $%+.2f\n", m.LargestWin)
	fmt.Fprintf(w, "  Largest Loss:      $%+.2f\n", m.LargestLoss)
	fmt.Fprintf(w, "  P&L Volatility:    $%.2f\n", m.PLVolatility)
	if m.InfiniteProfit {
		fmt.Fprintln(w, "  Profit Factor:     inf (no losing trades)")
	} else if m.ProfitFactor > 0 {
		fmt.Fprintf(w, "  Profit Factor:     %.2f\n", m.ProfitFactor)
	}

	fmt.Fprintln(w, "\nDetailed Trade Log:")
	fmt.Fprintln(w, "--------------------------------------------------------------------------------")
	fmt.Fprintf(w, "%-4s %-4s %-9s %-10s %-9s %-15s\n", "#", "Type", "Price", "P&L", "Time", "Reason")
	fmt.Fprintln(w, "--------------------------------------------------------------------------------")

	for i, t := range trades {
		pl := "Open"
		if t.ProfitLoss != nil {
			pl = fmt.Sprintf("$%+.2f", *t.ProfitLoss)
		}
		reason := t.CloseReason
		if reason == "" {
			reason = "-"
		}
		fmt.Fprintf(w, "%-4d %-4s %-9.5f %-10s %-9s %-15s\n",
			i+1, t.Type, t.EntryPrice, pl, t.OpenTime.Format("15:04:05"), reason)
	}
}
