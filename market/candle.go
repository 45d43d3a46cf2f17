package market

import "time"

// Candle represents OHLC (Open, High, Low, Close) candlestick data
type Candle struct {
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Time   time.Time
	Volume float64
}

// Range returns the high-low range of the candle in price terms.
func (c Candle) Range() float64 {
	return c.High - c.Low
}

// CloseStats summarizes the close prices of a candle series.
type CloseStats struct {
	Last float64
	High float64
	Low  float64
	Mean float64
}

// Closes computes summary statistics over the close prices of candles.
// Returns the zero value when candles is empty.
func Closes(candles []Candle) CloseStats {
	if len(candles) == 0 {
		return CloseStats{}
	}

	stats := CloseStats{
		Last: candles[len(candles)-1].Close,
		High: candles[0].Close,
		Low:  candles[0].Close,
	}

	sum := 0.0
	for _, c := range candles {
		sum += c.Close
		if c.Close > stats.High {
			stats.High = c.Close
		}
		if c.Close < stats.Low {
			stats.Low = c.Close
		}
	}
	stats.Mean = sum / float64(len(candles))

	return stats
}
