package market

type InstrumentMeta struct {
	Name          string
	DisplayName   string
	BaseCurrency  string
	QuoteCurrency string
	PipLocation   int
	MarginRate    float64
}

// Pip returns the price value of one pip for the instrument.
func (m InstrumentMeta) Pip() float64 {
	pip := 1.0
	if m.PipLocation < 0 {
		for i := 0; i > m.PipLocation; i-- {
			pip /= 10
		}
	} else {
		for i := 0; i < m.PipLocation; i++ {
			pip *= 10
		}
	}
	return pip
}

// Instruments holds metadata for the major currency pairs the demos use.
// The full tradeable set comes from the broker's instruments endpoint.
var Instruments = map[string]InstrumentMeta{
	"EUR_USD": {
		Name:          "EUR_USD",
		DisplayName:   "EUR/USD",
		BaseCurrency:  "EUR",
		QuoteCurrency: "USD",
		PipLocation:   -4,
		MarginRate:    0.02,
	},
	"GBP_USD": {
		Name:          "GBP_USD",
		DisplayName:   "GBP/USD",
		BaseCurrency:  "GBP",
		QuoteCurrency: "USD",
		PipLocation:   -4,
		MarginRate:    0.05,
	},
	"USD_JPY": {
		Name:          "USD_JPY",
		DisplayName:   "USD/JPY",
		BaseCurrency:  "USD",
		QuoteCurrency: "JPY",
		PipLocation:   -2,
		MarginRate:    0.02,
	},
	"USD_CHF": {
		Name:          "USD_CHF",
		DisplayName:   "USD/CHF",
		BaseCurrency:  "USD",
		QuoteCurrency: "CHF",
		PipLocation:   -4,
		MarginRate:    0.03,
	},
	"AUD_USD": {
		Name:          "AUD_USD",
		DisplayName:   "AUD/USD",
		BaseCurrency:  "AUD",
		QuoteCurrency: "USD",
		PipLocation:   -4,
		MarginRate:    0.03,
	},
	"USD_CAD": {
		Name:          "USD_CAD",
		DisplayName:   "USD/CAD",
		BaseCurrency:  "USD",
		QuoteCurrency: "CAD",
		PipLocation:   -4,
		MarginRate:    0.02,
	},
	"NZD_USD": {
		Name:          "NZD_USD",
		DisplayName:   "NZD/USD",
		BaseCurrency:  "NZD",
		QuoteCurrency: "USD",
		PipLocation:   -4,
		MarginRate:    0.03,
	},
}

// MajorPairs lists the instruments the demo commands highlight by default.
var MajorPairs = []string{"EUR_USD", "GBP_USD", "USD_JPY", "USD_CHF", "AUD_USD", "USD_CAD", "NZD_USD"}
