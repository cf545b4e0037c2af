package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"rsi-sma-trading/internal/dto"
	"rsi-sma-trading/internal/repository"
	"rsi-sma-trading/internal/service"
	"rsi-sma-trading/pkg/utils"

	"github.com/spf13/cobra"
)

var (
	runSymbol string
	runStart  string
	runEnd    string
	runMode   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the strategy once and print the trade ledger",
	Run:   RunOnce,
}

func init() {
	runCmd.Flags().StringVar(&runSymbol, "symbol", "", "ticker symbol, e.g. 005930.KS")
	runCmd.Flags().StringVar(&runStart, "start", "", "start date (YYYY-MM-DD)")
	runCmd.Flags().StringVar(&runEnd, "end", time.Now().Format(utils.DateLayout), "end date (YYYY-MM-DD)")
	runCmd.Flags().StringVar(&runMode, "mode", string(dto.ModeBacktest), "execution mode: backtest or live")
	runCmd.MarkFlagRequired("symbol")
	runCmd.MarkFlagRequired("start")
}

func RunOnce(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	// Bad parameters are rejected here, before any dependency spins up a fetch.
	mode, err := dto.ParseMode(runMode)
	if err != nil {
		log.Fatalf("Invalid mode: %v", err)
	}
	startDate, err := utils.ParseDate(runStart)
	if err != nil {
		log.Fatalf("Invalid start date: %v", err)
	}
	endDate, err := utils.ParseDate(runEnd)
	if err != nil {
		log.Fatalf("Invalid end date: %v", err)
	}

	appDep, err := NewAppDependency(ctx)
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}

	repo := repository.NewRepository(appDep.cfg, appDep.log)
	services, err := service.NewService(appDep.cfg, appDep.log, repo, appDep.cache, appDep.notifier)
	if err != nil {
		log.Fatalf("Failed to create services: %v", err)
	}

	result, err := services.StrategyService.Run(ctx, dto.StrategyParams{
		Symbol:    runSymbol,
		StartDate: startDate,
		EndDate:   endDate,
		Mode:      mode,
	})
	if err != nil {
		log.Fatalf("Strategy run failed: %v", err)
	}

	if mode == dto.ModeLive {
		printLiveVerdict(result)
		return
	}
	printLedger(result)
}

func printLiveVerdict(result *dto.StrategyResult) {
	last := result.Series[len(result.Series)-1]
	switch {
	case last.BuySignal:
		fmt.Printf("Buy signal on %s at %s\n", utils.FormatDate(last.Date), utils.FormatPrice(last.Close))
	case last.SellSignal:
		fmt.Printf("Sell signal on %s at %s\n", utils.FormatDate(last.Date), utils.FormatPrice(last.Close))
	default:
		fmt.Printf("No signal on %s\n", utils.FormatDate(last.Date))
	}
}

func printLedger(result *dto.StrategyResult) {
	if len(result.Trades) == 0 {
		fmt.Println("No trades in period")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Buy Date\tBuy Price\tSell Date\tSell Price\tReturn (%)")
	for _, trade := range result.Trades {
		sellDate, sellPrice, returnPct := "", "", ""
		if trade.Closed() {
			sellDate = utils.FormatDate(*trade.SellDate)
			sellPrice = utils.FormatPrice(*trade.SellPrice)
			returnPct = utils.FormatPercentage(*trade.ReturnPct)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			utils.FormatDate(trade.BuyDate), utils.FormatPrice(trade.BuyPrice),
			sellDate, sellPrice, returnPct)
	}
	w.Flush()

	if result.Summary != nil && result.Summary.ClosedTrades > 0 {
		fmt.Printf("\nTrades: %d | Avg return: %s\n",
			result.Summary.TotalTrades, utils.FormatPercentage(result.Summary.AvgReturnPct))
	}
}
