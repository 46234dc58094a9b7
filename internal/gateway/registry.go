package gateway

import (
	"regexp"
	"sort"
	"strings"

	"omnihedge/internal/files"
	"omnihedge/pkg/contracts/domain"
)

// contractCodeRe matches commodity contract codes embedded in filenames:
// one or more letters followed by a four-digit expiry, e.g. cu2301.
var contractCodeRe = regexp.MustCompile(`([a-z]+)(\d{4})`)

// ContractID derives the stable identifier a futures table registers
// under. It tries, in order: a contract code in the lower-cased filename,
// the first cell of a column whose name mentions "contract" (or 合约), and
// finally the filename stem.
func ContractID(filename string, t *RawTable) string {
	if m := contractCodeRe.FindStringSubmatch(strings.ToLower(filename)); m != nil {
		return m[1] + m[2]
	}

	for _, col := range t.Columns {
		if strings.Contains(col, "合约") || strings.Contains(strings.ToLower(col), "contract") {
			if len(t.Rows) > 0 {
				values := t.ColumnValues(col)
				if first := strings.TrimSpace(values[0]); first != "" {
					return first
				}
			}
		}
	}

	return files.Stem(filename)
}

// State is the aggregate working state of one ingestion session: the
// optional spot series, the registered contracts, and the quality report
// once computed. It is created empty, populated incrementally during the
// scan, and treated as frozen once the panel is built; callers must not
// mutate it afterwards. Not safe for concurrent use.
type State struct {
	Spot      *domain.Series
	Contracts map[string]domain.ContractRecord
	Quality   *domain.QualityReport
}

// NewState creates an empty session state.
func NewState() *State {
	return &State{Contracts: make(map[string]domain.ContractRecord)}
}

// SetSpot installs the spot series. A later spot file replaces an earlier
// one.
func (s *State) SetSpot(series *domain.Series) {
	s.Spot = series
}

// RegisterContract stores one normalized futures series under its
// identifier. A later file deriving the same identifier overwrites the
// earlier record: last write wins, no merge. Two distinct files colliding
// on an identifier therefore silently lose one file's data; this mirrors
// the load-order-dependent behavior the pipeline has always had and is a
// documented risk, not a bug to fix here.
func (s *State) RegisterContract(id string, series *domain.Series) {
	s.Contracts[id] = domain.ContractRecord{ID: id, Series: series}
}

// ContractIDs returns the registered identifiers in sorted order, the
// deterministic iteration order used for panel assembly and diagnostics.
func (s *State) ContractIDs() []string {
	ids := make([]string, 0, len(s.Contracts))
	for id := range s.Contracts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
