package service

import (
	"context"
	"errors"
	"fmt"

	"rsi-sma-trading/config"
	"rsi-sma-trading/internal/dto"
	"rsi-sma-trading/internal/repository"
	"rsi-sma-trading/internal/strategy"
	"rsi-sma-trading/pkg/cache"
	"rsi-sma-trading/pkg/logger"
)

// ErrDataUnavailable is returned when the market-data provider has nothing
// usable for the requested symbol and range.
var ErrDataUnavailable = errors.New("no usable price data for the requested symbol and range")

// StrategyService is the orchestrator: one call runs the full pipeline from
// raw bars through indicators and signals to the simulated trade ledger.
type StrategyService interface {
	Run(ctx context.Context, params dto.StrategyParams) (*dto.StrategyResult, error)
}

type strategyService struct {
	cfg       *config.Config
	log       *logger.Logger
	yahooRepo repository.YahooFinanceRepository
	cache     cache.Cache
	notifier  strategy.Notifier
	engineCfg strategy.Config
}

// NewStrategyService creates a new instance of strategyService. The notifier
// is injected explicitly; pass strategy.NoopNotifier when alerts are off.
func NewStrategyService(
	cfg *config.Config,
	log *logger.Logger,
	yahooRepo repository.YahooFinanceRepository,
	inmemoryCache cache.Cache,
	alertNotifier strategy.Notifier,
) (StrategyService, error) {
	engineCfg := strategy.Config{
		RSIBuyThreshold:      cfg.Strategy.RSIBuyThreshold,
		RequireBullishCandle: cfg.Strategy.RequireBullishCandle,
		MinHoldDays:          cfg.Strategy.MinHoldDays,
	}
	if err := engineCfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid strategy config: %w", err)
	}
	if alertNotifier == nil {
		alertNotifier = strategy.NoopNotifier{}
	}

	return &strategyService{
		cfg:       cfg,
		log:       log,
		yahooRepo: yahooRepo,
		cache:     inmemoryCache,
		notifier:  alertNotifier,
		engineCfg: engineCfg,
	}, nil
}

func (s *strategyService) Run(ctx context.Context, params dto.StrategyParams) (*dto.StrategyResult, error) {
	if !params.EndDate.After(params.StartDate) {
		return nil, fmt.Errorf("start date %s must be before end date %s",
			params.StartDate.Format("2006-01-02"), params.EndDate.Format("2006-01-02"))
	}

	stockData, err := s.fetchStockData(ctx, params)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to fetch price data",
			logger.StringField("symbol", params.Symbol), logger.ErrorField(err))
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	rows, err := strategy.ComputeIndicators(stockData.Bars)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	signals := strategy.ComposeSignals(rows, s.engineCfg)

	if params.Mode == dto.ModeLive {
		return s.runLive(ctx, params.Symbol, signals), nil
	}
	return s.runBacktest(ctx, params.Symbol, signals)
}

// runLive evaluates only the final bar and pushes a single status alert; no
// simulation is performed and the ledger stays empty.
func (s *strategyService) runLive(ctx context.Context, symbol string, signals []dto.SignalRow) *dto.StrategyResult {
	last := signals[len(signals)-1]

	kind := strategy.EventLiveNoSignal
	switch {
	case last.BuySignal:
		kind = strategy.EventLiveBuy
	case last.SellSignal:
		kind = strategy.EventLiveSell
	}

	s.log.InfoContext(ctx, "Live evaluation completed",
		logger.StringField("symbol", symbol),
		logger.StringField("signal", string(kind)),
		logger.StringField("date", last.Date.Format("2006-01-02")),
	)

	s.notify(ctx, strategy.Event{
		Kind:   kind,
		Symbol: symbol,
		Date:   last.Date,
		Price:  last.Close,
	})

	return &dto.StrategyResult{
		Symbol: symbol,
		Mode:   dto.ModeLive,
		Series: signals,
		Trades: dto.TradeLedger{},
	}
}

func (s *strategyService) runBacktest(ctx context.Context, symbol string, signals []dto.SignalRow) (*dto.StrategyResult, error) {
	simulator := strategy.NewSimulator(s.engineCfg, s.log, s.notifier)
	ledger, err := simulator.Run(ctx, symbol, signals)
	if err != nil {
		return nil, err
	}

	summary := summarize(ledger)

	s.log.InfoContext(ctx, "Backtest simulation completed",
		logger.StringField("symbol", symbol),
		logger.IntField("total_trades", summary.TotalTrades),
		logger.FloatField("avg_return_pct", summary.AvgReturnPct),
	)

	if len(signals) > 0 {
		s.notify(ctx, strategy.Event{
			Kind:    strategy.EventBacktestSummary,
			Symbol:  symbol,
			Date:    signals[len(signals)-1].Date,
			Summary: summary,
		})
	}

	return &dto.StrategyResult{
		Symbol:  symbol,
		Mode:    dto.ModeBacktest,
		Series:  signals,
		Trades:  ledger,
		Summary: summary,
	}, nil
}

func (s *strategyService) fetchStockData(ctx context.Context, params dto.StrategyParams) (*dto.StockData, error) {
	cacheKey := fmt.Sprintf("stockdata:%s:%s:%s",
		params.Symbol, params.StartDate.Format("2006-01-02"), params.EndDate.Format("2006-01-02"))

	if cached, found := cache.Get[*dto.StockData](s.cache, cacheKey); found {
		return cached, nil
	}

	stockData, err := s.yahooRepo.Get(ctx, dto.GetStockDataParam{
		Symbol:    params.Symbol,
		StartDate: params.StartDate,
		EndDate:   params.EndDate,
		Interval:  dto.IntervalDaily,
	})
	if err != nil {
		return nil, err
	}

	s.cache.Set(cacheKey, stockData, s.cfg.Cache.DefaultExpiration)
	return stockData, nil
}

func (s *strategyService) notify(ctx context.Context, event strategy.Event) {
	if err := s.notifier.Notify(ctx, event); err != nil {
		s.log.WarnContext(ctx, "Notification delivery failed",
			logger.StringField("event", string(event.Kind)), logger.ErrorField(err))
	}
}

func summarize(ledger dto.TradeLedger) *dto.BacktestSummary {
	summary := &dto.BacktestSummary{TotalTrades: len(ledger)}

	for _, trade := range ledger {
		if !trade.Closed() {
			continue
		}
		summary.ClosedTrades++
		summary.TotalReturnPct += *trade.ReturnPct
		if *trade.ReturnPct > 0 {
			summary.WinningTrades++
		}
	}

	if summary.ClosedTrades > 0 {
		summary.AvgReturnPct = summary.TotalReturnPct / float64(summary.ClosedTrades)
	}
	return summary
}
