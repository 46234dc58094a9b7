package gateway

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/transform"

	apperrors "omnihedge/internal/errors"
)

// RawTable is an untyped table as loaded from one file: a header and string
// rows, plus the file name it came from. It is consumed exactly once by
// classification and normalization and never mutated by them.
type RawTable struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// RowCount returns the number of data rows.
func (t *RawTable) RowCount() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of the exactly-named column.
func (t *RawTable) ColumnIndex(name string) (int, bool) {
	for i, col := range t.Columns {
		if col == name {
			return i, true
		}
	}
	return -1, false
}

// ColumnValues returns all values of the named column. Missing cells in
// ragged rows come back as empty strings.
func (t *RawTable) ColumnValues(name string) []string {
	idx, ok := t.ColumnIndex(name)
	if !ok {
		return nil
	}
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			values[i] = row[idx]
		}
	}
	return values
}

// utf8bomPrefix is the byte-order mark some exporters (Excel in
// particular) prepend to UTF-8 CSV files.
var utf8bomPrefix = []byte{0xEF, 0xBB, 0xBF}

// legacyEncodings are the CJK fallbacks tried, in priority order, after
// both UTF-8 variants fail. GB2312 input decodes under GBK (a strict
// superset), so GBK stands in for both.
var legacyEncodings = []struct {
	name string
	enc  encoding.Encoding
}{
	{"gbk", simplifiedchinese.GBK},
	{"gb18030", simplifiedchinese.GB18030},
	{"big5", traditionalchinese.Big5},
}

// LoadTable reads one data file into a RawTable, dispatching on the file
// extension. CSV files go through the encoding fallback chain; XLSX files
// are read from their first sheet.
func LoadTable(path string) (*RawTable, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return loadXLSX(path)
	default:
		return loadCSV(path)
	}
}

// loadCSV reads a CSV file, trying a fixed priority list of encodings and
// stopping at the first one that yields a non-empty table: BOM-stripped
// UTF-8, plain UTF-8, then the CJK legacy encodings.
func loadCSV(path string) (*RawTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to read "+filepath.Base(path), err)
	}
	if len(raw) == 0 {
		return nil, apperrors.NewParsingError(filepath.Base(path)+" is empty", nil)
	}

	name := filepath.Base(path)

	// BOM-aware UTF-8 first.
	if bytes.HasPrefix(raw, utf8bomPrefix) {
		stripped := raw[len(utf8bomPrefix):]
		if utf8.Valid(stripped) {
			if table, err := parseCSV(name, stripped); err == nil {
				return table, nil
			}
		}
	}

	// Plain UTF-8.
	if utf8.Valid(raw) {
		if table, err := parseCSV(name, raw); err == nil {
			return table, nil
		}
	}

	// Legacy CJK encodings.
	for _, candidate := range legacyEncodings {
		decoded, ok := decodeBytes(raw, candidate.enc)
		if !ok {
			continue
		}
		if table, err := parseCSV(name, decoded); err == nil {
			return table, nil
		}
	}

	return nil, apperrors.NewParsingError(name+" is empty or unreadable in every supported encoding", nil)
}

// decodeBytes converts raw bytes to UTF-8 under the given encoding. A
// decode that had to substitute replacement runes is treated as a miss so
// the next encoding in the chain gets a chance.
func decodeBytes(raw []byte, enc encoding.Encoding) ([]byte, bool) {
	decoded, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil {
		return nil, false
	}
	if bytes.ContainsRune(decoded, utf8.RuneError) {
		return nil, false
	}
	return decoded, true
}

// parseCSV parses decoded bytes into a RawTable. A table with a header but
// no data rows counts as a parse failure, matching the "non-empty" success
// criterion of the encoding fallback.
func parseCSV(name string, data []byte) (*RawTable, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("no data rows")
	}

	columns := make([]string, len(records[0]))
	for i, col := range records[0] {
		columns[i] = strings.TrimSpace(col)
	}

	return &RawTable{
		Name:    name,
		Columns: columns,
		Rows:    records[1:],
	}, nil
}

// loadXLSX reads the first sheet of an Excel workbook, taking the first
// non-empty row as the header.
func loadXLSX(path string) (*RawTable, error) {
	name := filepath.Base(path)

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open "+name, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewParsingError(name+" has no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read sheet of "+name, err)
	}

	headerIdx := -1
	for i, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				headerIdx = i
				break
			}
		}
		if headerIdx >= 0 {
			break
		}
	}
	if headerIdx < 0 || headerIdx+1 >= len(rows) {
		return nil, apperrors.NewParsingError(name+" has no data rows", nil)
	}

	columns := make([]string, len(rows[headerIdx]))
	for i, col := range rows[headerIdx] {
		columns[i] = strings.TrimSpace(col)
	}

	return &RawTable{
		Name:    name,
		Columns: columns,
		Rows:    rows[headerIdx+1:],
	}, nil
}
