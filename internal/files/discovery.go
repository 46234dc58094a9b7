package files

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"omnihedge/internal/errors"
)

// FileInfo represents information about a discovered data file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery provides data-file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// dataFile reports whether name looks like an ingestible table. Backup
// copies (".bak" suffix anywhere after the real extension) are excluded.
func dataFile(name string) bool {
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".bak") {
		return false
	}
	return strings.HasSuffix(lower, ".csv") || strings.HasSuffix(lower, ".xlsx")
}

// FindDataFiles finds CSV and XLSX files under dir, optionally walking
// subdirectories. Results are sorted by path so scan order is stable.
func (d *Discovery) FindDataFiles(dir string, recursive bool) ([]FileInfo, error) {
	fullPath := dir
	if !filepath.IsAbs(dir) {
		fullPath = filepath.Join(d.basePath, dir)
	}

	if _, err := os.Stat(fullPath); err != nil {
		return nil, errors.NewNotFoundError("data directory " + fullPath)
	}

	var files []FileInfo
	if recursive {
		err := filepath.WalkDir(fullPath, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if entry.IsDir() || !dataFile(entry.Name()) {
				return nil
			}
			info, err := entry.Info()
			if err != nil {
				return nil
			}
			files = append(files, FileInfo{
				Path:    path,
				Name:    entry.Name(),
				Size:    info.Size(),
				ModTime: info.ModTime(),
			})
			return nil
		})
		if err != nil {
			return nil, errors.NewStorageError("failed to walk directory "+fullPath, err)
		}
	} else {
		entries, err := os.ReadDir(fullPath)
		if err != nil {
			return nil, errors.NewStorageError("failed to read directory "+fullPath, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !dataFile(entry.Name()) {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			files = append(files, FileInfo{
				Path:    filepath.Join(fullPath, entry.Name()),
				Name:    entry.Name(),
				Size:    info.Size(),
				ModTime: info.ModTime(),
			})
		}
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	return files, nil
}

// Stem returns the file name without its extension.
func Stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
