package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"omnihedge/internal/config"
	"omnihedge/internal/exporter"
	"omnihedge/internal/gateway"
	"omnihedge/internal/infrastructure"
	"omnihedge/internal/snapshot"
	"omnihedge/pkg/contracts/domain"
)

const snapshotFileName = "processed_data.json"
const panelFileName = "unified_panel.csv"

func main() {
	dir := flag.String("dir", "", "directory containing raw spot/futures data files (defaults to configured data dir)")
	out := flag.String("out", "", "output directory for the snapshot and panel CSV (defaults to configured output dir)")
	recursive := flag.Bool("recursive", true, "descend into subdirectories")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	if *dir == "" {
		*dir = cfg.Paths.DataDir
	}
	if *out == "" {
		*out = cfg.Paths.OutputDir
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	runID := uuid.New().String()
	ctx := infrastructure.WithRunID(context.Background(), runID)

	logger.InfoContext(ctx, "Starting data preprocessing",
		slog.String("input_dir", *dir),
		slog.String("output_dir", *out),
		slog.Bool("recursive", *recursive))

	scanner := gateway.NewScanner(logger)
	state, stats, err := scanner.Scan(ctx, *dir, *recursive)
	if err != nil {
		logger.ErrorContext(ctx, "Scan failed", "error", err)
		os.Exit(1)
	}

	logger.InfoContext(ctx, "Scan complete",
		slog.Int("files_seen", stats.FilesSeen),
		slog.Int("spot_count", stats.SpotCount),
		slog.Int("futures_count", stats.FuturesCount),
		slog.Int("errors", len(stats.Errors)))

	if state.Spot == nil && len(state.Contracts) == 0 {
		logger.ErrorContext(ctx, "No spot or futures series could be built from the input directory")
		os.Exit(1)
	}

	aligned := gateway.AlignSpotToFutures(state.Spot, state.Contracts)

	panel, err := gateway.BuildPanel(aligned, state)
	if err != nil {
		logger.ErrorContext(ctx, "Panel construction failed", "error", err)
		os.Exit(1)
	}

	logger.InfoContext(ctx, "Panel built",
		slog.Int("rows", len(panel.Dates)),
		slog.Int("columns", len(panel.Columns)))

	bundle := &snapshot.Bundle{
		Format:       snapshot.FormatVersion,
		RunID:        runID,
		GeneratedAt:  time.Now().UTC(),
		Panel:        panel,
		ContractInfo: gateway.ContractInfos(state),
		Quality:      gateway.Report(state),
		Stats:        stats,
		SpotData:     aligned,
		FuturesData:  futuresSeries(state),
	}

	snapshotPath := filepath.Join(*out, snapshotFileName)
	if err := snapshot.Save(snapshotPath, bundle); err != nil {
		logger.ErrorContext(ctx, "Failed to save snapshot", "error", err)
		os.Exit(1)
	}

	panelPath := filepath.Join(*out, panelFileName)
	writer := exporter.NewCSVWriter(logger)
	if err := writer.WritePanel(panelPath, panel); err != nil {
		logger.ErrorContext(ctx, "Failed to export panel CSV", "error", err)
		os.Exit(1)
	}

	for _, msg := range stats.Errors {
		fmt.Fprintf(os.Stderr, "warning: %s\n", msg)
	}

	logger.InfoContext(ctx, "Preprocessing complete",
		slog.String("snapshot", snapshotPath),
		slog.String("panel_csv", panelPath))
}

func futuresSeries(state *gateway.State) map[string]*domain.Series {
	out := make(map[string]*domain.Series, len(state.Contracts))
	for id, record := range state.Contracts {
		out[id] = record.Series
	}
	return out
}
