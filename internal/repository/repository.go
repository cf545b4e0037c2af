package repository

import (
	"rsi-sma-trading/config"
	"rsi-sma-trading/pkg/logger"
)

type Repository struct {
	YahooFinanceRepo YahooFinanceRepository
}

func NewRepository(cfg *config.Config, log *logger.Logger) *Repository {
	return &Repository{
		YahooFinanceRepo: NewYahooFinanceRepository(cfg, log),
	}
}
