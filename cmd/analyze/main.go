package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"omnihedge/internal/analyzer"
	"omnihedge/internal/config"
	"omnihedge/internal/exporter"
	"omnihedge/internal/infrastructure"
	"omnihedge/internal/snapshot"
)

const summaryFileName = "hedge_analysis_summary.csv"

// minSpotObservations is the smallest spot sample the analysis accepts.
const minSpotObservations = 30

func main() {
	snapshotPath := flag.String("snapshot", "", "path to the preprocessing snapshot (defaults to <output dir>/processed_data.json)")
	summaryPath := flag.String("summary", "", "path for the analysis summary CSV (defaults next to the snapshot)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	if *snapshotPath == "" {
		*snapshotPath = filepath.Join(cfg.Paths.OutputDir, "processed_data.json")
	}
	if *summaryPath == "" {
		*summaryPath = filepath.Join(filepath.Dir(*snapshotPath), summaryFileName)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.WithRunID(context.Background(), uuid.New().String())

	logger.InfoContext(ctx, "Starting hedge necessity analysis",
		slog.String("snapshot", *snapshotPath))

	bundle, err := snapshot.Load(*snapshotPath)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load snapshot, run preprocess first", "error", err)
		os.Exit(1)
	}

	if bundle.Panel == nil || bundle.Panel.Empty() {
		logger.ErrorContext(ctx, "Snapshot contains an empty panel")
		os.Exit(1)
	}

	logger.InfoContext(ctx, "Snapshot loaded",
		slog.String("run_id", bundle.RunID),
		slog.Int("panel_rows", len(bundle.Panel.Dates)),
		slog.Int("contracts", len(bundle.ContractInfo)))

	spotCol, ok := bundle.Panel.FindColumn("spot")
	if !ok {
		logger.ErrorContext(ctx, "No spot price column in the panel")
		os.Exit(1)
	}

	spotPrices := make([]float64, 0, len(spotCol.Values))
	for _, v := range spotCol.Values {
		if v.Valid {
			spotPrices = append(spotPrices, v.Float64)
		}
	}
	if len(spotPrices) < minSpotObservations {
		logger.ErrorContext(ctx, "Insufficient spot observations for analysis",
			slog.Int("observations", len(spotPrices)),
			slog.Int("required", minSpotObservations))
		os.Exit(1)
	}

	params := analyzer.Params{
		HedgeDays:     cfg.Analysis.HedgeDays,
		Confidence:    cfg.Analysis.Confidence,
		PositionValue: cfg.Analysis.PositionValue,
		Costs: analyzer.CostRates{
			CommissionRate: cfg.Costs.CommissionRate,
			FinancingRate:  cfg.Costs.FinancingRate,
			SlippageRate:   cfg.Costs.SlippageRate,
			MarginRate:     cfg.Costs.MarginRate,
		},
	}

	result, err := analyzer.New(params, logger).Analyze(spotPrices, bundle.Panel)
	if err != nil {
		logger.ErrorContext(ctx, "Analysis failed", "error", err)
		os.Exit(1)
	}

	if err := analyzer.WriteReport(os.Stdout, params, result); err != nil {
		logger.ErrorContext(ctx, "Failed to write report", "error", err)
		os.Exit(1)
	}

	writer := exporter.NewCSVWriter(logger)
	if err := writer.WriteSummary(*summaryPath, analyzer.SummaryRows(result)); err != nil {
		logger.ErrorContext(ctx, "Failed to export summary CSV", "error", err)
		os.Exit(1)
	}

	logger.InfoContext(ctx, "Analysis complete",
		slog.String("summary_csv", *summaryPath),
		slog.String("recommendation", result.Decision.RecommendationCode))
}
