package renderer

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cvchef-backend/internal/domain"
	"cvchef-backend/pkg/logger"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const (
	// layoutWidthPx is 210mm at 96 dpi.
	layoutWidthPx  = 794
	layoutHeightPx = 1123
	deviceScale    = 2.0
)

type Config struct {
	ChromePath    string
	MaxPixelWidth int
	Timeout       time.Duration
}

// ChromeRenderer rasterises the layout in headless Chrome and embeds the
// bitmap into a one-page A4 PDF.
type ChromeRenderer struct {
	cfg Config
}

func NewChromeRenderer(cfg Config) *ChromeRenderer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &ChromeRenderer{cfg: cfg}
}

func (r *ChromeRenderer) RenderPDF(ctx context.Context, resume domain.ResumeFields) ([]byte, error) {
	layout, err := RenderLayout(resume)
	if err != nil {
		return nil, err
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.cfg.ChromePath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, r.cfg.Timeout)
	defer cancelRun()

	tmpDir, err := os.MkdirTemp("", "cvchef-export-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	layoutPath := filepath.Join(tmpDir, "resume.html")
	if err := os.WriteFile(layoutPath, []byte(layout), 0o600); err != nil {
		return nil, err
	}

	var shot []byte
	err = chromedp.Run(runCtx,
		chromedp.EmulateViewport(layoutWidthPx, layoutHeightPx, chromedp.EmulateScale(deviceScale)),
		chromedp.Navigate("file://"+layoutPath),
		chromedp.WaitReady("#resume", chromedp.ByQuery),
		chromedp.Screenshot("#resume", &shot, chromedp.NodeVisible, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("rasterize layout: %w", err)
	}

	shot, w, h, err := Downscale(shot, r.cfg.MaxPixelWidth)
	if err != nil {
		return nil, err
	}
	box := FitToPage(w, h, PageWidthMM, PageHeightMM)
	logger.Log.Debug("Resume rasterized", "width", w, "height", h, "fit_width_mm", box.Width, "fit_height_mm", box.Height)

	pageHTML, err := renderPage("data:image/png;base64,"+base64.StdEncoding.EncodeToString(shot), box)
	if err != nil {
		return nil, err
	}
	pagePath := filepath.Join(tmpDir, "page.html")
	if err := os.WriteFile(pagePath, []byte(pageHTML), 0o600); err != nil {
		return nil, err
	}

	var pdf []byte
	err = chromedp.Run(runCtx,
		chromedp.Navigate("file://"+pagePath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4: 210mm x 297mm -> inches: 8.27 x 11.69
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("print pdf: %w", err)
	}
	return pdf, nil
}
