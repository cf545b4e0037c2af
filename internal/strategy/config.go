package strategy

import "errors"

// Config parameterizes the buy predicate and the hold guard. The strictest
// variant (MA cross + RSI < 60 + bullish reversal candle, no minimum hold) is
// the default; the looser variants are reached by adjusting fields, not by
// separate engines.
type Config struct {
	RSIBuyThreshold      float64
	RequireBullishCandle bool
	MinHoldDays          int
}

func DefaultConfig() Config {
	return Config{
		RSIBuyThreshold:      60,
		RequireBullishCandle: true,
		MinHoldDays:          0,
	}
}

func (c Config) Validate() error {
	if c.RSIBuyThreshold <= 0 || c.RSIBuyThreshold > 100 {
		return errors.New("rsi buy threshold must be in (0, 100]")
	}
	if c.MinHoldDays < 0 {
		return errors.New("min hold days must not be negative")
	}
	return nil
}
