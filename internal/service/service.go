package service

import (
	"rsi-sma-trading/config"
	"rsi-sma-trading/internal/repository"
	"rsi-sma-trading/internal/strategy"
	"rsi-sma-trading/pkg/cache"
	"rsi-sma-trading/pkg/logger"
)

type Service struct {
	StrategyService  StrategyService
	SchedulerService SchedulerService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	inmemoryCache cache.Cache,
	alertNotifier strategy.Notifier,
) (*Service, error) {
	strategyService, err := NewStrategyService(cfg, log, repo.YahooFinanceRepo, inmemoryCache, alertNotifier)
	if err != nil {
		return nil, err
	}

	return &Service{
		StrategyService:  strategyService,
		SchedulerService: NewSchedulerService(cfg, log, strategyService),
	}, nil
}
