package gateway

import (
	"context"
	"fmt"
	"log/slog"

	apperrors "omnihedge/internal/errors"
	"omnihedge/internal/files"
	"omnihedge/pkg/contracts/domain"
)

// Scanner runs the full ingestion pass over a directory: discover files,
// load each with encoding fallback, classify, normalize, and file the
// result into the session state. Per-file failures are recorded in the
// stats and skipped; only a missing directory is fatal.
type Scanner struct {
	logger     *slog.Logger
	mapper     *FieldMapper
	classifier *Classifier
	normalizer *Normalizer
}

// NewScanner creates a scanner. A nil logger falls back to slog.Default.
func NewScanner(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	mapper := NewFieldMapper()
	return &Scanner{
		logger:     logger,
		mapper:     mapper,
		classifier: NewClassifier(mapper),
		normalizer: NewNormalizer(mapper),
	}
}

// Scan processes every data file under dir in discovery order and returns
// the populated state together with the scan statistics.
func (s *Scanner) Scan(ctx context.Context, dir string, recursive bool) (*State, *domain.ScanStats, error) {
	state := NewState()
	stats := &domain.ScanStats{}

	discovery := files.NewDiscovery(".")
	found, err := discovery.FindDataFiles(dir, recursive)
	if err != nil {
		return nil, nil, err
	}

	stats.FilesSeen = len(found)
	if len(found) == 0 {
		s.logger.WarnContext(ctx, "no data files found", slog.String("dir", dir))
		return state, stats, nil
	}

	s.logger.InfoContext(ctx, "starting scan",
		slog.String("dir", dir),
		slog.Int("file_count", len(found)))

	for _, file := range found {
		if err := s.processFile(ctx, state, stats, file); err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("%s: %v", file.Name, err))
			s.logger.WarnContext(ctx, "file skipped",
				slog.String("filename", file.Name),
				slog.String("error", err.Error()))
		}
	}

	s.logger.InfoContext(ctx, "scan complete",
		slog.Int("spot_count", stats.SpotCount),
		slog.Int("futures_count", stats.FuturesCount),
		slog.Int("error_count", len(stats.Errors)))

	return state, stats, nil
}

func (s *Scanner) processFile(ctx context.Context, state *State, stats *domain.ScanStats, file files.FileInfo) error {
	table, err := LoadTable(file.Path)
	if err != nil {
		return err
	}

	switch kind := s.classifier.Classify(table); kind {
	case domain.KindSpot:
		series, err := s.normalizer.Normalize(table, kind, files.Stem(file.Name))
		if err != nil {
			return err
		}
		state.SetSpot(series)
		stats.SpotCount++
		s.logger.InfoContext(ctx, "recognized spot series",
			slog.String("filename", file.Name),
			slog.Int("rows", series.Len()))

	case domain.KindFutures:
		id := ContractID(file.Name, table)
		series, err := s.normalizer.Normalize(table, kind, id)
		if err != nil {
			return err
		}
		state.RegisterContract(id, series)
		stats.FuturesCount++
		s.logger.InfoContext(ctx, "recognized futures series",
			slog.String("filename", file.Name),
			slog.String("contract_id", id),
			slog.Int("rows", series.Len()))

	default:
		return apperrors.NewClassifyError(file.Name)
	}

	return nil
}
