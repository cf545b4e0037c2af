package repository

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"rsi-sma-trading/config"
	"rsi-sma-trading/internal/dto"
	"rsi-sma-trading/pkg/httpclient"
	"rsi-sma-trading/pkg/logger"

	"golang.org/x/time/rate"
)

type YahooFinanceRepository interface {
	Get(ctx context.Context, param dto.GetStockDataParam) (*dto.StockData, error)
}

type yahooFinanceRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

// NewYahooFinanceRepository creates a new instance of yahooFinanceRepository.
func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger) YahooFinanceRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.YahooFinance.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	return &yahooFinanceRepository{
		httpClient:     httpclient.New(cfg.YahooFinance.BaseURL, cfg.YahooFinance.Timeout),
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
	}
}

func (r *yahooFinanceRepository) Get(ctx context.Context, param dto.GetStockDataParam) (*dto.StockData, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	if !param.EndDate.After(param.StartDate) {
		return nil, fmt.Errorf("invalid period: start %s, end %s",
			param.StartDate.Format("2006-01-02"), param.EndDate.Format("2006-01-02"))
	}

	interval := param.Interval
	if interval == "" {
		interval = dto.IntervalDaily
	}

	endpoint := "/" + param.Symbol
	queryParams := map[string]string{
		"period1":        fmt.Sprintf("%d", param.StartDate.Unix()),
		"period2":        fmt.Sprintf("%d", param.EndDate.Unix()),
		"interval":       interval,
		"includePrePost": "false",
		"events":         "div,split",
	}

	headers := map[string]string{
		"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0.0.0 Safari/537.36",
		"Accept":          "application/json, text/plain, */*",
		"Accept-Language": "en-US,en;q=0.9",
		"Referer":         "https://finance.yahoo.com/",
	}

	var yahooResp dto.YahooFinanceResponse
	resp, err := r.httpClient.Get(ctx, endpoint, queryParams, headers, &yahooResp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch data from yahoo finance: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		r.logger.ErrorContext(ctx, "Yahoo Finance API returned Non-OK status",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("body", string(resp.Body)))
		return nil, fmt.Errorf("yahoo finance api returned status: %d", resp.StatusCode)
	}

	if yahooResp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo finance api error: %v", yahooResp.Chart.Error)
	}

	if len(yahooResp.Chart.Result) == 0 {
		return nil, fmt.Errorf("no data returned for symbol: %s", param.Symbol)
	}

	result := yahooResp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no quote data available for symbol: %s", param.Symbol)
	}

	quote := result.Indicators.Quote[0]

	var bars []dto.PriceBar
	for i, timestamp := range result.Timestamp {
		// Skip if any required data is missing
		if i >= len(quote.Open) || i >= len(quote.High) || i >= len(quote.Low) || i >= len(quote.Close) {
			continue
		}

		// Skip if any value is 0 (missing data)
		if quote.Open[i] == 0 || quote.High[i] == 0 || quote.Low[i] == 0 || quote.Close[i] == 0 {
			continue
		}

		bars = append(bars, dto.PriceBar{
			Date:  time.Unix(timestamp, 0).UTC().Truncate(24 * time.Hour),
			Open:  quote.Open[i],
			High:  quote.High[i],
			Low:   quote.Low[i],
			Close: quote.Close[i],
		})
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("no valid OHLC data found for symbol: %s", param.Symbol)
	}

	marketPrice := 0.0
	if result.Meta.RegularMarketPrice > 0 {
		marketPrice = result.Meta.RegularMarketPrice
	}

	return &dto.StockData{
		Symbol:      param.Symbol,
		MarketPrice: marketPrice,
		Bars:        bars,
	}, nil
}
