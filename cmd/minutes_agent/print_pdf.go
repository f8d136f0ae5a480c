package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/committee-minutes/internal/printing"
)

var printPDFCmd = &cobra.Command{
	Use:   "print-pdf",
	Short: "Print an HTML document to PDF with headless Chrome",
	Long:  "Render an HTML file (for example formatted minutes) to PDF. Requires Chrome or Chromium to be installed.",
	RunE:  runPrintPDF,
}

var (
	printInputFile  string
	printOutputFile string
	printLandscape  bool
	printMargin     float64
)

func init() {
	printPDFCmd.Flags().StringVarP(&printInputFile, "in", "i", "", "Path to the HTML file (required)")
	printPDFCmd.Flags().StringVarP(&printOutputFile, "out", "o", "", "Path to the PDF file (default: input with .pdf extension)")
	printPDFCmd.Flags().BoolVar(&printLandscape, "landscape", false, "Use landscape orientation")
	printPDFCmd.Flags().Float64Var(&printMargin, "margin", printing.DefaultOptions().Margin, "Page margin in inches")

	_ = printPDFCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(printPDFCmd)
}

func runPrintPDF(cmd *cobra.Command, _ []string) error {
	html, err := os.ReadFile(printInputFile)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	outPath := printOutputFile
	if outPath == "" {
		outPath = strings.TrimSuffix(printInputFile, ".html") + ".pdf"
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := printing.DefaultOptions()
	opts.Landscape = printLandscape
	opts.Margin = printMargin

	pdf, err := printing.NewPrinter(opts, newLogger(cfg)).Print(cmd.Context(), string(html))
	if err != nil {
		return fmt.Errorf("failed to print PDF: %w", err)
	}
	if err := os.WriteFile(outPath, pdf, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	pages, err := printing.PageCount(pdf)
	if err != nil {
		return fmt.Errorf("printed PDF is unreadable: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d pages, %d bytes)\n", outPath, pages, len(pdf))
	return nil
}
