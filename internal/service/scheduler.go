package service

import (
	"context"
	"time"

	"rsi-sma-trading/config"
	"rsi-sma-trading/internal/dto"
	"rsi-sma-trading/pkg/logger"

	"github.com/robfig/cron/v3"
)

// SchedulerService periodically re-evaluates the configured watch symbols in
// live mode so alerts go out without anyone touching the web form.
type SchedulerService interface {
	Start() error
	Stop()
}

type schedulerService struct {
	cfg         *config.Config
	log         *logger.Logger
	strategySvc StrategyService
	cron        *cron.Cron
}

func NewSchedulerService(cfg *config.Config, log *logger.Logger, strategySvc StrategyService) SchedulerService {
	return &schedulerService{
		cfg:         cfg,
		log:         log,
		strategySvc: strategySvc,
		cron:        cron.New(),
	}
}

func (s *schedulerService) Start() error {
	if !s.cfg.Scheduler.Enabled {
		s.log.Info("Scheduler disabled, skipping")
		return nil
	}

	_, err := s.cron.AddFunc(s.cfg.Scheduler.CronSpec, s.evaluateWatchList)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("Scheduler started",
		logger.StringField("cron_spec", s.cfg.Scheduler.CronSpec),
		logger.IntField("watch_symbols", len(s.cfg.Scheduler.WatchSymbols)),
	)
	return nil
}

func (s *schedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("Scheduler stopped")
}

func (s *schedulerService) evaluateWatchList() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(24 * time.Hour)

	for _, symbol := range s.cfg.Scheduler.WatchSymbols {
		params := dto.StrategyParams{
			Symbol:    symbol,
			StartDate: now.AddDate(0, 0, -s.cfg.Scheduler.LookbackDays),
			EndDate:   now.AddDate(0, 0, 1),
			Mode:      dto.ModeLive,
		}

		if _, err := s.strategySvc.Run(ctx, params); err != nil {
			s.log.ErrorContext(ctx, "Scheduled live evaluation failed",
				logger.StringField("symbol", symbol), logger.ErrorField(err))
		}
	}
}
