package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sethvargo/go-retry"
)

var (
	ErrBrowserLaunch = errors.New("failed to launch browser")
	ErrPDFGeneration = errors.New("failed to generate PDF")
	ErrEmptyPDF      = errors.New("generated PDF is empty")
)

// BrowserLauncher starts a headless browser instance.
type BrowserLauncher interface {
	Launch(ctx context.Context) (Browser, error)
}

// Browser is a running browser. Close must be safe to call after the
// caller's context is done.
type Browser interface {
	NewPage(ctx context.Context) (Page, error)
	Close() error
}

// Page is a single browser tab.
type Page interface {
	SetContent(ctx context.Context, html string) error
	PDF(ctx context.Context) ([]byte, error)
	Close() error
}

const (
	defaultLaunchAttempts = 3
	defaultLaunchBackoff  = time.Second
	defaultRenderTimeout  = 30 * time.Second
)

// PDFExporter rasterizes HTML through a freshly launched browser per call.
type PDFExporter struct {
	Launcher BrowserLauncher
	// LaunchAttempts is the total number of launch tries.
	LaunchAttempts int
	// LaunchBackoff is the base of the linear backoff: attempt n waits n × base.
	LaunchBackoff time.Duration
	// RenderTimeout bounds content loading and printing. Rendering is never
	// retried.
	RenderTimeout time.Duration
}

// NewPDFExporter returns an exporter with the default retry and timeout
// settings.
func NewPDFExporter(l BrowserLauncher) *PDFExporter {
	return &PDFExporter{
		Launcher:       l,
		LaunchAttempts: defaultLaunchAttempts,
		LaunchBackoff:  defaultLaunchBackoff,
		RenderTimeout:  defaultRenderTimeout,
	}
}

// ToPDF returns the complete PDF for html or an error, never a partial
// document. The page and browser are closed on every path.
func (e *PDFExporter) ToPDF(ctx context.Context, html string) ([]byte, error) {
	browser, err := e.launch(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := browser.Close(); cerr != nil {
			log.Printf("pdf: warning: closing browser: %v", cerr)
		}
	}()

	timeout := e.RenderTimeout
	if timeout <= 0 {
		timeout = defaultRenderTimeout
	}
	renderCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	page, err := browser.NewPage(renderCtx)
	if err != nil {
		return nil, fmt.Errorf("%w: open page: %w", ErrPDFGeneration, err)
	}
	defer func() {
		if cerr := page.Close(); cerr != nil {
			log.Printf("pdf: warning: closing page: %v", cerr)
		}
	}()

	if err := page.SetContent(renderCtx, html); err != nil {
		return nil, fmt.Errorf("%w: set content: %w", ErrPDFGeneration, err)
	}

	data, err := page.PDF(renderCtx)
	if err != nil {
		return nil, fmt.Errorf("%w: print: %w", ErrPDFGeneration, err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyPDF
	}
	return data, nil
}

func (e *PDFExporter) launch(ctx context.Context) (Browser, error) {
	if e.Launcher == nil {
		return nil, fmt.Errorf("%w: no launcher configured", ErrBrowserLaunch)
	}

	attempts := e.LaunchAttempts
	if attempts <= 0 {
		attempts = defaultLaunchAttempts
	}
	base := e.LaunchBackoff
	if base < 0 {
		base = 0
	}

	var waits int64
	var backoff retry.Backoff = retry.BackoffFunc(func() (time.Duration, bool) {
		waits++
		return base * time.Duration(waits), false
	})
	backoff = retry.WithMaxRetries(uint64(attempts-1), backoff)

	var browser Browser
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		b, err := e.Launcher.Launch(ctx)
		if err != nil {
			log.Printf("pdf: browser launch attempt %d/%d failed: %v", attempt, attempts, err)
			return retry.RetryableError(err)
		}
		browser = b
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBrowserLaunch, err)
	}
	return browser, nil
}
