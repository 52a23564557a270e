package document

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/sync/errgroup"
)

// PDFPageCount returns the page count of a PDF file.
func PDFPageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("page count %s: %w", path, err)
	}
	return n, nil
}

// MaterializeSections writes one trimmed PDF per section into outDir, named
// seccion_<index>.pdf. Sections are materialized concurrently with a bounded
// group; the first failure cancels the rest.
func MaterializeSections(ctx context.Context, logger *slog.Logger, pdfPath, outDir string, sections []Section, maxParallel int) ([]string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if maxParallel <= 0 {
		maxParallel = 4
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	paths := make([]string, len(sections))
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(maxParallel)

	for i, sec := range sections {
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outPath := filepath.Join(outDir, fmt.Sprintf("seccion_%d.pdf", sec.Index))
			// pdfcpu page selections are 1-based inclusive.
			selection := []string{fmt.Sprintf("%d-%d", sec.StartPage+1, sec.EndPage+1)}
			if err := api.TrimFile(pdfPath, outPath, selection, nil); err != nil {
				return fmt.Errorf("section %d (%s): %w", sec.Index, selection[0], err)
			}
			paths[i] = outPath
			logger.Debug("section materialized",
				"section", sec.Index,
				"pages", selection[0],
				"out", outPath,
			)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("materialize sections: %w", err)
	}
	return paths, nil
}
