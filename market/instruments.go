// market/instruments.go
package market

type InstrumentMeta struct {
	Name             string
	BaseCurrency     string
	QuoteCurrency    string
	PipLocation      int
	MinimumTradeSize float64
}

var Instruments = map[string]InstrumentMeta{
	"EUR_USD": {
		Name:             "EUR_USD",
		BaseCurrency:     "EUR",
		QuoteCurrency:    "USD",
		PipLocation:      -4,
		MinimumTradeSize: 1,
	},
	"GBP_USD": {
		Name:             "GBP_USD",
		BaseCurrency:     "GBP",
		QuoteCurrency:    "USD",
		PipLocation:      -4,
		MinimumTradeSize: 1,
	},
	"USD_JPY": {
		Name:             "USD_JPY",
		BaseCurrency:     "USD",
		QuoteCurrency:    "JPY",
		PipLocation:      -2,
		MinimumTradeSize: 1,
	},
}
