package cmd

import (
	"context"
	"fmt"
	"time"

	"report-manager/core/config"
	"report-manager/core/database"
	"report-manager/core/logger"
	"report-manager/feature/report"
	"report-manager/feature/stock"
	"report-manager/feature/stock/models"
	"report-manager/feature/stock/pos"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for stock commands
	stockReportID uint
	stockDate     string
)

// stockCmd is the parent command for stock reconciliation operations.
var stockCmd = &cobra.Command{
	Use:   "stock",
	Short: "Run stock reconciliation operations from the command line",
	Long: `Operate the stock reconciliation engine without the HTTP server.
Useful for scheduled syncs and for inspecting a count in progress.`,
}

// stockSyncCmd initializes (or re-initializes) a report's stock cycle.
var stockSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync a report's stock cycle from the POS provider",
	Long: `Fetch the day's consumption from the POS provider and build the
report's line items. Re-running for the same date is a no-op; a new date
replaces the previous items.

Examples:
  # Sync today's consumption for report 12
  stock sync --report 12

  # Back-fill a specific date
  stock sync --report 12 --date 2026-08-30`,
	RunE: runStockSync,
}

// stockSummaryCmd prints the measurement progress of a report's cycle.
var stockSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show measurement progress and variance for a report's cycle",
	RunE:  runStockSummary,
}

func init() {
	stockCmd.AddCommand(stockSyncCmd)
	stockCmd.AddCommand(stockSummaryCmd)

	stockCmd.PersistentFlags().UintVar(&stockReportID, "report", 0, "Report ID (required)")
	_ = stockCmd.MarkPersistentFlagRequired("report")
	stockSyncCmd.Flags().StringVar(&stockDate, "date", "", "Count date (YYYY-MM-DD, defaults to today)")
}

// stockService builds the reconciliation service the same way the server does.
func stockService() (*stock.Service, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// The server migrates on feature load; a standalone CLI run must not
	// depend on the server having started first.
	if err := db.AutoMigrate(
		&report.Report{},
		&models.StockCycle{},
		&models.StockItem{},
		&pos.Credential{},
	); err != nil {
		return nil, nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	posClient := pos.NewClient(db, cfg.POS, l)
	reports := report.NewService(db, l)
	return stock.NewService(db, posClient, reports, l), l, nil
}

func runStockSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	svc, l, err := stockService()
	if err != nil {
		return err
	}

	date := time.Now()
	if stockDate != "" {
		date, err = time.ParseInLocation("2006-01-02", stockDate, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --date %q, want YYYY-MM-DD: %w", stockDate, err)
		}
	}

	cycle, err := svc.InitializeCycle(ctx, stockReportID, date)
	if err != nil {
		return fmt.Errorf("failed to sync stock cycle: %w", err)
	}

	l.Info("Stock cycle synced",
		zap.Uint("report_id", cycle.ReportID),
		zap.Uint("cycle_id", cycle.ID),
		zap.String("date", cycle.CountDate.Format("2006-01-02")),
		zap.Int("items", len(cycle.Items)),
	)
	return nil
}

func runStockSummary(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	svc, l, err := stockService()
	if err != nil {
		return err
	}

	summary, err := svc.Summary(ctx, stockReportID)
	if err != nil {
		return fmt.Errorf("failed to summarize cycle: %w", err)
	}

	l.Info("Cycle summary",
		zap.Uint("report_id", summary.ReportID),
		zap.Uint("cycle_id", summary.CycleID),
		zap.String("date", summary.CountDate.Format("2006-01-02")),
		zap.Int("total_items", summary.TotalItems),
		zap.Int("measured", summary.Measured),
		zap.Int("shortfalls", summary.Shortfalls),
		zap.Int("surpluses", summary.Surpluses),
		zap.Int("exact_counts", summary.ExactCounts),
		zap.String("net_variance", summary.NetVariance.String()),
		zap.Bool("complete", summary.Complete),
	)

	if !summary.Complete {
		l.Warn("Cycle has unmeasured items, the report cannot be finalized yet",
			zap.Int("remaining", summary.TotalItems-summary.Measured),
		)
	}
	return nil
}
