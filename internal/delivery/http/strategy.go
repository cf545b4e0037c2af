package http

import (
	"errors"
	"net/http"

	"rsi-sma-trading/internal/dto"
	"rsi-sma-trading/internal/service"
	"rsi-sma-trading/pkg/utils"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupStrategy(base *echo.Group) {
	strategyGroup := base.Group("/strategy")
	strategyGroup.POST("/run", h.runStrategy)
}

func (h *HttpAPIHandler) runStrategy(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.StrategyRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	params, err := parseParams(req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	result, err := h.service.StrategyService.Run(ctx, params)
	if err != nil {
		if errors.Is(err, service.ErrDataUnavailable) {
			return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to run strategy"})
	}

	return c.JSON(http.StatusOK, result)
}

// parseParams rejects malformed dates and modes before any data is fetched.
func parseParams(req *dto.StrategyRequest) (dto.StrategyParams, error) {
	mode, err := dto.ParseMode(req.Mode)
	if err != nil {
		return dto.StrategyParams{}, err
	}

	startDate, err := utils.ParseDate(req.StartDate)
	if err != nil {
		return dto.StrategyParams{}, err
	}

	endDate, err := utils.ParseDate(req.EndDate)
	if err != nil {
		return dto.StrategyParams{}, err
	}

	return dto.StrategyParams{
		Symbol:    req.Symbol,
		StartDate: startDate,
		EndDate:   endDate,
		Mode:      mode,
	}, nil
}
