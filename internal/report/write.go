package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// File names inside a run's output directory.
const (
	JSONFile   = "report.json"
	LedgerFile = "ledger.csv"
	XLSXFile   = "report.xlsx"

	runDirLayout = "20060102-150405"
)

// RunDir returns the directory a report is written to under outDir.
func RunDir(outDir string, rep *Report) string {
	return filepath.Join(outDir, rep.GeneratedAt.UTC().Format(runDirLayout))
}

// Write writes rep in each requested format to RunDir(outDir, rep) and
// returns the paths written.
func Write(outDir string, rep *Report, formats []string) ([]string, error) {
	dir := RunDir(outDir, rep)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	var paths []string
	for _, format := range formats {
		var (
			name  string
			write func(io.Writer) error
		)
		switch format {
		case FormatJSON:
			name, write = JSONFile, func(w io.Writer) error { return WriteJSON(w, rep) }
		case FormatCSV:
			name, write = LedgerFile, func(w io.Writer) error { return WriteLines(w, rep.Reconciliation.Lines) }
		case FormatXLSX:
			name, write = XLSXFile, func(w io.Writer) error { return WriteXLSX(w, rep) }
		default:
			return paths, fmt.Errorf("unknown output format %q", format)
		}

		path := filepath.Join(dir, name)
		if err := writeFile(path, write); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
