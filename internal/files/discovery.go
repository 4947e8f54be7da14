package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	apperrors "timecardcli/internal/errors"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance. Relative directories
// are resolved against basePath.
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindExcelFiles lists the .xlsx workbooks in dir, sorted by name. Office
// lock files (~$name.xlsx), hidden files and subdirectories are skipped.
func (d *Discovery) FindExcelFiles(dir string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !IsWorkbookName(name) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}

// ResolveInputs returns the workbooks to analyze: the explicit paths in the
// order given, followed by the workbooks found in dir. With neither,
// fallback is used. A dir without workbooks is an input-load error.
func (d *Discovery) ResolveInputs(paths []string, dir, fallback string) ([]string, error) {
	inputs := make([]string, 0, len(paths))
	for _, p := range paths {
		inputs = append(inputs, d.resolve(p))
	}

	if dir != "" {
		found, err := d.FindExcelFiles(dir)
		if err != nil {
			return nil, apperrors.NewInputLoadError("failed to list input directory", err)
		}
		if len(found) == 0 {
			return nil, apperrors.NewInputLoadError(fmt.Sprintf("no .xlsx workbooks in %s", d.resolve(dir)), nil)
		}
		for _, f := range found {
			inputs = append(inputs, f.Path)
		}
	}

	if len(inputs) == 0 && fallback != "" {
		inputs = append(inputs, d.resolve(fallback))
	}
	return inputs, nil
}

// IsWorkbookName reports whether name looks like a readable workbook
func IsWorkbookName(name string) bool {
	if strings.HasPrefix(name, "~$") || strings.HasPrefix(name, ".") {
		return false
	}
	return strings.EqualFold(filepath.Ext(name), ".xlsx")
}

func (d *Discovery) resolve(path string) string {
	if filepath.IsAbs(path) || d.basePath == "" {
		return path
	}
	return filepath.Join(d.basePath, path)
}
