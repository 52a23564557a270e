package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/glosalabs/glosaflow/internal/batch"
	"github.com/glosalabs/glosaflow/internal/config"
	"github.com/glosalabs/glosaflow/internal/document"
	"github.com/glosalabs/glosaflow/internal/export"
	"github.com/glosalabs/glosaflow/internal/extract"
	"github.com/glosalabs/glosaflow/internal/llm"
	"github.com/glosalabs/glosaflow/internal/segment"
)

var (
	processText     string
	processOutDir   string
	processStrategy string
	processSplitPDF bool
)

var processCmd = &cobra.Command{
	Use:   "process <file>",
	Short: "Run the full extraction pipeline over a glosa document",
	Long: `Segment the document into per-patient sections, extract each section
concurrently, and write the results.

Outputs under --out:
  seccion_<n>.json   structured result per section
  resultado.csv      flattened rows, one per procedure line
  seccion_<n>.pdf    trimmed per-section PDFs (with --split-pdf)

Examples:
  glosaflow process liquidacion.txt
  glosaflow process liquidacion.pdf --text liquidacion.txt --split-pdf
  glosaflow process liquidacion.txt --strategy pattern_only`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		ctx := cmd.Context()

		mgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := mgr.Get()

		doc, err := loadDocument(args[0], processText)
		if err != nil {
			return err
		}
		if ok, found := document.LooksLikeSOAT(doc.Text()); !ok {
			logger.Warn("document does not look like a SOAT glosa", "indicators", found)
		}

		strategy := cfg.Extraction.Strategy
		if processStrategy != "" {
			strategy = processStrategy
		}
		extractor, err := buildExtractor(cfg, strategy, logger)
		if err != nil {
			return err
		}

		sections := segment.New(logger).Segment(doc)

		orch := batch.NewOrchestrator(batch.Config{
			Store:         batch.NewMemoryStore(),
			Workers:       cfg.Batch.MaxWorkers,
			RetryAttempts: uint(cfg.Batch.RetryAttempts),
			RetryDelay:    time.Duration(cfg.Batch.RetryDelaySec) * time.Second,
			Logger:        logger,
		})

		run := func(ctx context.Context, sec document.Section) (*extract.Result, error) {
			text := sec.Text(doc)
			if text == "" {
				return nil, fmt.Errorf("section %d has no source text", sec.Index)
			}
			return extractor.Extract(ctx, text), nil
		}

		batchID, err := orch.Process(ctx, doc, sections, run)
		if err != nil {
			return err
		}
		orch.StartMonitor(ctx, batchID)
		progress, err := orch.Wait(ctx, batchID)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(processOutDir, 0o755); err != nil {
			return err
		}
		if err := writeResults(orch, batchID, processOutDir); err != nil {
			return err
		}
		if processSplitPDF {
			if filepath.Ext(args[0]) != ".pdf" {
				return fmt.Errorf("--split-pdf requires a PDF input")
			}
			pages, err := document.PDFPageCount(args[0])
			if err != nil {
				return fmt.Errorf("read pdf: %w", err)
			}
			if pages < doc.PageCount() {
				return fmt.Errorf("pdf has %d pages but the text has %d", pages, doc.PageCount())
			}
			if _, err := document.MaterializeSections(ctx, logger, args[0], processOutDir, sections, cfg.Batch.MaxWorkers); err != nil {
				return err
			}
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(progress)
	},
}

func init() {
	processCmd.Flags().StringVar(&processText, "text", "", "extracted page texts for a PDF input (form-feed separated)")
	processCmd.Flags().StringVar(&processOutDir, "out", "resultados", "output directory")
	processCmd.Flags().StringVar(&processStrategy, "strategy", "", "override extraction strategy: pattern_only, ai_only, hybrid")
	processCmd.Flags().BoolVar(&processSplitPDF, "split-pdf", false, "also write one trimmed PDF per section")
}

// buildExtractor wires the configured AI provider into the extraction
// engine. A missing or disabled provider is not fatal: the engine
// downgrades to pattern_only on its own.
func buildExtractor(cfg *config.Config, strategy string, logger *slog.Logger) (*extract.Extractor, error) {
	opts := []extract.Option{extract.WithStrategy(extract.ParseStrategy(strategy))}

	if p, ok := cfg.GetAIProvider(cfg.Extraction.AIProvider); ok && p.Enabled {
		apiKey := config.ResolveEnvVars(p.APIKey)
		if apiKey == "" {
			logger.Warn("AI provider has no API key, falling back to patterns", "provider", cfg.Extraction.AIProvider)
		} else {
			client, err := llm.NewOpenAIClient(llm.OpenAIConfig{
				APIKey:    apiKey,
				Model:     p.Model,
				BaseURL:   p.BaseURL,
				RateLimit: int(p.RateLimit),
				Logger:    logger,
			})
			if err != nil {
				return nil, err
			}
			opts = append(opts, extract.WithAI(llm.NewExtractor(client, logger)))
		}
	}

	return extract.NewExtractor(logger, opts...), nil
}

// writeResults persists per-section JSON plus the flattened CSV.
func writeResults(orch *batch.Orchestrator, batchID uuid.UUID, outDir string) error {
	sections, err := orch.Sections(batchID)
	if err != nil {
		return err
	}

	csvFile, err := os.Create(filepath.Join(outDir, "resultado.csv"))
	if err != nil {
		return err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(export.Columns); err != nil {
		return err
	}

	for _, sec := range sections {
		if sec.Result == nil {
			continue
		}
		data, err := json.MarshalIndent(sec.Result, "", "  ")
		if err != nil {
			return err
		}
		name := fmt.Sprintf("seccion_%d.json", sec.Index)
		if err := os.WriteFile(filepath.Join(outDir, name), data, 0o644); err != nil {
			return err
		}
		for _, row := range export.Flatten(sec.Result) {
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}
