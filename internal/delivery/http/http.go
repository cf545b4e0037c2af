package http

import (
	"context"
	"net/http"

	"rsi-sma-trading/internal/service"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type HttpAPIHandler struct {
	echo      *echo.Echo
	validator *goValidator.Validate
	service   *service.Service
}

func NewHttpAPIHandler(ctx context.Context, echo *echo.Echo, validator *goValidator.Validate, service *service.Service) *HttpAPIHandler {
	return &HttpAPIHandler{
		echo:      echo,
		validator: validator,
		service:   service,
	}
}

func (h *HttpAPIHandler) SetupRoutes() {
	h.echo.GET("/", h.index)

	base := h.echo.Group("/api")
	h.SetupStrategy(base)
}

func (h *HttpAPIHandler) index(c echo.Context) error {
	return c.HTML(http.StatusOK, indexHTML)
}

// Minimal form that posts to the strategy endpoint. Charting stays with the
// consumer of the series JSON.
const indexHTML = `<!DOCTYPE html>
<html>
<head><title>RSI/SMA Strategy</title></head>
<body>
<h2>📈 RSI/SMA signal generator</h2>
<form id="run-form">
  <label>Symbol <input name="symbol" value="005930.KS" required></label><br>
  <label>Start <input name="start_date" type="date" required></label><br>
  <label>End <input name="end_date" type="date" required></label><br>
  <label>Mode
    <select name="mode">
      <option value="backtest">backtest</option>
      <option value="live">live</option>
    </select>
  </label><br>
  <button type="submit">Run</button>
</form>
<pre id="result"></pre>
<script>
document.getElementById('run-form').addEventListener('submit', async (e) => {
  e.preventDefault();
  const body = Object.fromEntries(new FormData(e.target));
  const resp = await fetch('/api/strategy/run', {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify(body),
  });
  const data = await resp.json();
  document.getElementById('result').textContent = JSON.stringify(data.trades ?? data, null, 2);
});
</script>
</body>
</html>`
