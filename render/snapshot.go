package render

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	"car-dashboard/models"
	"car-dashboard/utils"
)

// Snapshotter turns chart pages into PNG files with a headless Chrome.
// One browser is started per Snapshotter; every capture opens its own tab,
// so Capture may be called from several goroutines.
type Snapshotter struct {
	logger *utils.Logger

	browserCtx    context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
}

// NewSnapshotter launches the browser. chromeBin may be empty, in which case
// the usual install locations are searched.
func NewSnapshotter(ctx context.Context, chromeBin string, logger *utils.Logger) (*Snapshotter, error) {
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	if chromeBin != "" {
		logger.Debug("[snapshot] Using browser binary: %s", chromeBin)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.WindowSize(svgWidth, svgHeight),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("snapshot: start browser: %w", err)
	}

	return &Snapshotter{
		logger:        logger,
		browserCtx:    browserCtx,
		cancelBrowser: cancelBrowser,
		cancelAlloc:   cancelAlloc,
	}, nil
}

// Capture renders chart c to pngPath. The intermediate HTML page is written
// next to it with the .html extension.
func (s *Snapshotter) Capture(c models.Chart, pngPath string) error {
	htmlPath := pngPath[:len(pngPath)-len(filepath.Ext(pngPath))] + ".html"
	f, err := os.Create(htmlPath)
	if err != nil {
		return fmt.Errorf("snapshot: create page: %w", err)
	}
	if err := WriteHTML(f, c); err != nil {
		f.Close()
		return fmt.Errorf("snapshot: write page: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("snapshot: write page: %w", err)
	}

	abs, err := filepath.Abs(htmlPath)
	if err != nil {
		return err
	}

	tabCtx, cancelTab := chromedp.NewContext(s.browserCtx)
	defer cancelTab()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, 30*time.Second)
	defer cancelTimeout()

	var png []byte
	err = chromedp.Run(tabCtx,
		chromedp.Navigate("file://"+abs),
		chromedp.WaitVisible("svg", chromedp.ByQuery),
		chromedp.Screenshot("svg", &png, chromedp.NodeVisible, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("snapshot: capture %q: %w", c.Title, err)
	}

	if err := os.WriteFile(pngPath, png, 0644); err != nil {
		return fmt.Errorf("snapshot: write png: %w", err)
	}
	s.logger.Debug("[snapshot] %s → %s (%d bytes)", c.Title, pngPath, len(png))
	return nil
}

// Close shuts the browser down.
func (s *Snapshotter) Close() {
	s.cancelBrowser()
	s.cancelAlloc()
}

// findChromeBinary looks for a Chrome or Chromium executable on PATH and in
// the usual install locations. CHROME_BIN wins when set.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
