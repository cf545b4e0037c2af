package dto

import "fmt"

type Mode string

const (
	ModeBacktest Mode = "backtest"
	ModeLive     Mode = "live"
)

func ParseMode(value string) (Mode, error) {
	switch Mode(value) {
	case ModeBacktest, ModeLive:
		return Mode(value), nil
	default:
		return "", fmt.Errorf("unknown mode %q, expected backtest or live", value)
	}
}

const IntervalDaily = "1d"
