// Package snapshot persists the output of one preprocessing run as a JSON
// bundle. The bundle is an internal cache consumed by the analysis entry
// point, not a wire protocol; the only hard requirement is a lossless
// round-trip of every date, value, and absent marker.
package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	apperrors "omnihedge/internal/errors"
	"omnihedge/pkg/contracts/domain"
)

// FormatVersion identifies the bundle layout for forward compatibility.
const FormatVersion = "omnihedge_snapshot_v1"

// Bundle is everything a preprocessing run produces: the unified panel,
// per-contract diagnostics, the quality report, scan statistics, and the
// raw normalized series the panel was built from.
type Bundle struct {
	Format       string                         `json:"format"`
	RunID        string                         `json:"run_id"`
	GeneratedAt  time.Time                      `json:"generated_at"`
	Panel        *domain.Panel                  `json:"panel"`
	ContractInfo map[string]domain.ContractInfo `json:"contract_info"`
	Quality      *domain.QualityReport          `json:"quality_report"`
	Stats        *domain.ScanStats              `json:"stats"`
	SpotData     *domain.Series                 `json:"spot_data,omitempty"`
	FuturesData  map[string]*domain.Series      `json:"futures_data,omitempty"`
}

// Save writes the bundle to path, creating parent directories as needed.
func Save(path string, bundle *Bundle) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create snapshot directory", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError("failed to create snapshot file", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(bundle); err != nil {
		return apperrors.NewStorageError("failed to encode snapshot", err)
	}

	return nil
}

// Load reads a bundle back from path.
func Load(path string) (*Bundle, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError("snapshot file " + path)
		}
		return nil, apperrors.NewStorageError("failed to open snapshot file", err)
	}
	defer file.Close()

	var bundle Bundle
	if err := json.NewDecoder(file).Decode(&bundle); err != nil {
		return nil, apperrors.NewParsingError("failed to decode snapshot "+path, err)
	}

	return &bundle, nil
}
