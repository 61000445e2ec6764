package universe

import "fmt"

// Instrument is static reference data for one investable key. The set is closed:
// every weight-table key must resolve here, validated at load time.
type Instrument struct {
	Key          string  `json:"key"`
	Name         string  `json:"name"`
	ISIN         string  `json:"isin"`
	Ticker       string  `json:"ticker"`
	Index        string  `json:"index"`
	ExpenseRatio float64 `json:"ter"`
}

// SimpleInstrument is one leg of the simplified 3-instrument model with its
// baseline weight under the normal regime.
type SimpleInstrument struct {
	Instrument
	BaseWeight float64 `json:"weight"`
}

// Equity region keys.
const (
	NorthAmerica    = "north_america"
	Europe          = "europe"
	EmergingMarkets = "emerging_markets"
	SmallCaps       = "small_caps"
	Japan           = "japan"
	PacificExJapan  = "pacific_ex_jp"
)

// Reserve component keys.
const (
	InflationLinked = "inflation_linked"
	MoneyMarket     = "money_market"
	Gold            = "gold"
	Cash            = "cash"
)

// Simplified model keys.
const (
	ACWIIMI = "acwi_imi"
)

// EquityOrder and ReserveOrder fix the canonical position ordering so repeated
// allocation calls with identical inputs produce identical output.
var (
	EquityOrder  = []string{NorthAmerica, Europe, EmergingMarkets, SmallCaps, Japan, PacificExJapan}
	ReserveOrder = []string{InflationLinked, MoneyMarket, Gold, Cash}
	SimpleOrder  = []string{ACWIIMI, SmallCaps, Cash}
)

var instruments = map[string]Instrument{
	NorthAmerica: {
		Key:          NorthAmerica,
		Name:         "iShares Core S&P 500 UCITS ETF",
		ISIN:         "IE00B5BMR087",
		Ticker:       "SXR8.DE",
		Index:        "S&P 500",
		ExpenseRatio: 0.0007,
	},
	Europe: {
		Key:          Europe,
		Name:         "Lyxor Core STOXX Europe 600 UCITS ETF",
		ISIN:         "LU0908500753",
		Ticker:       "MEUD.PA",
		Index:        "STOXX Europe 600",
		ExpenseRatio: 0.0007,
	},
	EmergingMarkets: {
		Key:          EmergingMarkets,
		Name:         "iShares Core MSCI EM IMI UCITS ETF",
		ISIN:         "IE00BKM4GZ66",
		Ticker:       "IS3N.DE",
		Index:        "MSCI EM IMI",
		ExpenseRatio: 0.0018,
	},
	SmallCaps: {
		Key:          SmallCaps,
		Name:         "iShares MSCI World Small Cap UCITS ETF",
		ISIN:         "IE00BF4RFH31",
		Ticker:       "IUSN.DE",
		Index:        "MSCI World Small Cap",
		ExpenseRatio: 0.0035,
	},
	Japan: {
		Key:          Japan,
		Name:         "Amundi Prime Japan UCITS ETF",
		ISIN:         "LU1931974775",
		Ticker:       "PRIJ.DE",
		Index:        "MSCI Japan",
		ExpenseRatio: 0.0005,
	},
	PacificExJapan: {
		Key:          PacificExJapan,
		Name:         "iShares MSCI Pacific ex-Japan UCITS ETF",
		ISIN:         "IE00B52MJY50",
		Ticker:       "IQQP.DE",
		Index:        "MSCI Pacific ex-Japan",
		ExpenseRatio: 0.0020,
	},
	InflationLinked: {
		Key:          InflationLinked,
		Name:         "iShares Euro Inflation Linked Govt Bond UCITS ETF",
		ISIN:         "IE00B0M62X26",
		Ticker:       "IBCI.DE",
		Index:        "Bloomberg Euro Govt Inflation-Linked",
		ExpenseRatio: 0.0020,
	},
	MoneyMarket: {
		Key:          MoneyMarket,
		Name:         "Xtrackers II EUR Overnight Rate Swap UCITS ETF",
		ISIN:         "LU0290358497",
		Ticker:       "XEON.DE",
		Index:        "EUR Overnight Rate",
		ExpenseRatio: 0.0010,
	},
	Gold: {
		Key:          Gold,
		Name:         "Xtrackers IE Physical Gold ETC",
		ISIN:         "DE000A2T0VU5",
		Ticker:       "XAD5.DE",
		Index:        "Gold Spot",
		ExpenseRatio: 0.0015,
	},
	Cash: {
		Key:          Cash,
		Name:         "Cash / High-Yield Savings",
		ISIN:         "N/A",
		Ticker:       "N/A",
		Index:        "N/A",
		ExpenseRatio: 0,
	},
}

var simpleModel = map[string]SimpleInstrument{
	ACWIIMI: {
		Instrument: Instrument{
			Key:          ACWIIMI,
			Name:         "SPDR MSCI ACWI IMI UCITS ETF",
			ISIN:         "IE00B3YLTY66",
			Ticker:       "SPYI.DE",
			Index:        "MSCI ACWI IMI",
			ExpenseRatio: 0.0017,
		},
		BaseWeight: 0.70,
	},
	SmallCaps: {
		Instrument: Instrument{
			Key:          SmallCaps,
			Name:         "iShares MSCI World Small Cap UCITS ETF",
			ISIN:         "IE00BF4RFH31",
			Ticker:       "IUSN.DE",
			Index:        "MSCI World Small Cap",
			ExpenseRatio: 0.0035,
		},
		BaseWeight: 0.10,
	},
	Cash: {
		Instrument: Instrument{
			Key:          Cash,
			Name:         "High-Yield Savings / Money Market",
			ISIN:         "N/A",
			Ticker:       "N/A",
			Index:        "N/A",
			ExpenseRatio: 0,
		},
		BaseWeight: 0.20,
	},
}

// Lookup returns instrument metadata for key.
func Lookup(key string) (Instrument, bool) {
	m, ok := instruments[key]
	return m, ok
}

// Instruments returns a copy of the full metadata table.
func Instruments() map[string]Instrument {
	out := make(map[string]Instrument, len(instruments))
	for k, v := range instruments {
		out[k] = v
	}
	return out
}

// SimpleModel returns a copy of the simplified 3-instrument table.
func SimpleModel() map[string]SimpleInstrument {
	out := make(map[string]SimpleInstrument, len(simpleModel))
	for k, v := range simpleModel {
		out[k] = v
	}
	return out
}

// SimpleLookup returns one leg of the simplified model.
func SimpleLookup(key string) (SimpleInstrument, bool) {
	m, ok := simpleModel[key]
	return m, ok
}

// Validate checks the reference tables for internal consistency. Called once at
// startup; a failure here is a programming error, not an input error.
func Validate() error {
	for _, k := range append(append([]string{}, EquityOrder...), ReserveOrder...) {
		if _, ok := instruments[k]; !ok {
			return fmt.Errorf("universe: key %q has no instrument metadata", k)
		}
	}
	for _, k := range SimpleOrder {
		if _, ok := simpleModel[k]; !ok {
			return fmt.Errorf("universe: simple model key %q missing", k)
		}
	}
	return nil
}
