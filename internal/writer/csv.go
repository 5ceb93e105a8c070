// Package writer persists processed datasets as CSV and XLSX artifacts.
package writer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/abarbosa-dev/vinexport/internal/model"
	"github.com/abarbosa-dev/vinexport/internal/pipeline"
)

const (
	fileStem        = "Embrapa_vitibrasil"
	unifiedFileName = fileStem + "_exp.csv"
)

// Writer writes artifacts under a base directory, creating it if needed.
type Writer struct {
	dir string
}

// New creates a Writer rooted at dir.
func New(dir string) *Writer {
	return &Writer{dir: dir}
}

// WriteYearly writes one CSV per year table, named after the year label
// (Embrapa_vitibrasil_exp_2020.csv). Returns the written paths in order.
func (w *Writer) WriteYearly(results pipeline.Results) ([]string, error) {
	paths := make([]string, 0, len(results))
	for _, yt := range results {
		path := filepath.Join(w.dir, fmt.Sprintf("%s_%s.csv", fileStem, yt.Label))
		if err := w.writeCSV(path, yt.Rows); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// WriteUnified writes the concatenated multi-year dataset to a single CSV and
// returns its path.
func (w *Writer) WriteUnified(rows []model.EnrichedRow) (string, error) {
	path := filepath.Join(w.dir, unifiedFileName)
	if err := w.writeCSV(path, rows); err != nil {
		return "", err
	}
	return path, nil
}

func (w *Writer) writeCSV(path string, rows []model.EnrichedRow) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return eris.Wrap(err, "writer: create output dir")
	}

	data, err := csvutil.Marshal(rows)
	if err != nil {
		return eris.Wrapf(err, "writer: marshal %s", filepath.Base(path))
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "writer: write %s", filepath.Base(path))
	}

	zap.L().Info("csv written",
		zap.String("component", "writer"),
		zap.String("path", path),
		zap.Int("rows", len(rows)),
	)
	return nil
}

// ReadCSV reads an artifact back into enriched rows. Used by consumers that
// introspect previous runs, and by round-trip checks.
func ReadCSV(path string) ([]model.EnrichedRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "writer: read %s", filepath.Base(path))
	}

	var rows []model.EnrichedRow
	if err := csvutil.Unmarshal(data, &rows); err != nil {
		return nil, eris.Wrapf(err, "writer: unmarshal %s", filepath.Base(path))
	}
	return rows, nil
}
