package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/glosalabs/glosaflow/internal/document"
	"github.com/glosalabs/glosaflow/internal/segment"
)

var (
	segmentText     string
	segmentSplitDir string
)

type sectionOut struct {
	Index       int    `json:"index"`
	StartPage   int    `json:"start_page"`
	EndPage     int    `json:"end_page"`
	PatientHint string `json:"patient_hint,omitempty"`
}

var segmentCmd = &cobra.Command{
	Use:   "segment <file>",
	Short: "Detect per-patient sections in a glosa document",
	Long: `Scan the document's page texts for section anchors and print the
detected page ranges as JSON.

The input is either a form-feed paginated .txt file, or a .pdf given
together with --text pointing at its extracted page texts. With
--split-out and a PDF input, one trimmed PDF per section is written to
the given directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		doc, err := loadDocument(args[0], segmentText)
		if err != nil {
			return err
		}

		sections := segment.New(logger).Segment(doc)

		out := make([]sectionOut, 0, len(sections))
		for _, sec := range sections {
			out = append(out, sectionOut{
				Index:       sec.Index,
				StartPage:   sec.StartPage,
				EndPage:     sec.EndPage,
				PatientHint: sec.PatientHint,
			})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return err
		}

		if segmentSplitDir != "" && len(sections) > 0 {
			if !strings.EqualFold(filepath.Ext(args[0]), ".pdf") {
				return fmt.Errorf("--split-out requires a PDF input")
			}
			files, err := document.MaterializeSections(cmd.Context(), logger, args[0], segmentSplitDir, sections, 4)
			if err != nil {
				return err
			}
			logger.Info("sections written", "count", len(files), "dir", segmentSplitDir)
		}
		return nil
	},
}

func init() {
	segmentCmd.Flags().StringVar(&segmentText, "text", "", "extracted page texts for a PDF input (form-feed separated)")
	segmentCmd.Flags().StringVar(&segmentSplitDir, "split-out", "", "write one trimmed PDF per section into this directory")
}

// loadDocument builds a SourceDocument from either a paginated text file
// or a PDF plus a --text sidecar. Text extraction/OCR happens upstream;
// the pipeline consumes page texts.
func loadDocument(path, textPath string) (*document.SourceDocument, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		if textPath == "" {
			return nil, fmt.Errorf("PDF input needs --text with its extracted page texts")
		}
		return document.FromTextFile(path, textPath)
	default:
		return document.FromTextFile("", path)
	}
}
