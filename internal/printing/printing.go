// Package printing renders HTML documents to PDF in headless Chrome.
package printing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFMIMEType is the media type of printed documents.
const PDFMIMEType = "application/pdf"

// DefaultTimeout bounds a single print job.
const DefaultTimeout = 30 * time.Second

// ErrEmptyHTML is returned when there is nothing to print.
var ErrEmptyHTML = errors.New("html document is empty")

// Options controls page layout. Sizes are in inches.
type Options struct {
	PaperWidth      float64
	PaperHeight     float64
	Margin          float64
	Landscape       bool
	PrintBackground bool
	Timeout         time.Duration
}

// DefaultOptions prints on US Letter with half-inch margins.
func DefaultOptions() Options {
	return Options{
		PaperWidth:      8.5,
		PaperHeight:     11,
		Margin:          0.5,
		PrintBackground: true,
		Timeout:         DefaultTimeout,
	}
}

// Printer prints HTML to PDF.
type Printer struct {
	opts   Options
	logger *slog.Logger
}

// NewPrinter creates a printer. A nil logger discards output.
func NewPrinter(opts Options, logger *slog.Logger) *Printer {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Printer{opts: opts, logger: logger.With("component", "printing")}
}

// PrintHTML renders html with the default options.
// Requires Chrome/Chromium to be installed on the system.
func PrintHTML(ctx context.Context, html string) ([]byte, error) {
	return NewPrinter(DefaultOptions(), nil).Print(ctx, html)
}

// Print renders html in a headless browser and returns the PDF bytes.
func (p *Printer) Print(ctx context.Context, html string) ([]byte, error) {
	if len(bytes.TrimSpace([]byte(html))) == 0 {
		return nil, ErrEmptyHTML
	}

	p.logger.Debug("starting headless browser", "html_bytes", len(html))

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, p.opts.Timeout)
	defer cancel()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPaperWidth(p.opts.PaperWidth).
				WithPaperHeight(p.opts.PaperHeight).
				WithMarginTop(p.opts.Margin).
				WithMarginBottom(p.opts.Margin).
				WithMarginLeft(p.opts.Margin).
				WithMarginRight(p.opts.Margin).
				WithLandscape(p.opts.Landscape).
				WithPrintBackground(p.opts.PrintBackground).
				Do(ctx)
			pdf = buf
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("pdf rendering failed: %w", err)
	}

	p.logger.Debug("rendered pdf", "pdf_bytes", len(pdf))
	return pdf, nil
}

// PageCount returns the number of pages in a PDF document.
func PageCount(pdf []byte) (int, error) {
	count, err := api.PageCount(bytes.NewReader(pdf), model.NewDefaultConfiguration())
	if err != nil {
		return 0, fmt.Errorf("failed to read pdf page count: %w", err)
	}
	return count, nil
}

// BrowserAvailable reports whether a Chrome or Chromium binary is on PATH.
func BrowserAvailable() bool {
	for _, name := range []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "chrome", "headless-shell"} {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}
