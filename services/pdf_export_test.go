package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeLauncher fails the first failLaunches calls and records every handle
// it hands out so tests can check that all of them were closed.
type fakeLauncher struct {
	mu           sync.Mutex
	failLaunches int
	launches     int
	browsers     []*fakeBrowser

	pageErr    error
	contentErr error
	pdfErr     error
	pdf        []byte
	blockPDF   bool
}

func (l *fakeLauncher) Launch(ctx context.Context) (Browser, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.launches++
	if l.launches <= l.failLaunches {
		return nil, errors.New("chrome exited")
	}
	b := &fakeBrowser{l: l}
	l.browsers = append(l.browsers, b)
	return b, nil
}

func (l *fakeLauncher) openHandles() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	open := 0
	for _, b := range l.browsers {
		if b.closed != 1 {
			open++
		}
		for _, p := range b.pages {
			if p.closed != 1 {
				open++
			}
		}
	}
	return open
}

type fakeBrowser struct {
	l      *fakeLauncher
	closed int
	pages  []*fakePage
}

func (b *fakeBrowser) NewPage(ctx context.Context) (Page, error) {
	if b.l.pageErr != nil {
		return nil, b.l.pageErr
	}
	p := &fakePage{l: b.l}
	b.pages = append(b.pages, p)
	return p, nil
}

func (b *fakeBrowser) Close() error {
	b.closed++
	return nil
}

type fakePage struct {
	l       *fakeLauncher
	closed  int
	content string
}

func (p *fakePage) SetContent(ctx context.Context, html string) error {
	if p.l.contentErr != nil {
		return p.l.contentErr
	}
	p.content = html
	return nil
}

func (p *fakePage) PDF(ctx context.Context) ([]byte, error) {
	if p.l.blockPDF {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if p.l.pdfErr != nil {
		return nil, p.l.pdfErr
	}
	return p.l.pdf, nil
}

func (p *fakePage) Close() error {
	p.closed++
	return nil
}

func newTestExporter(l *fakeLauncher) *PDFExporter {
	e := NewPDFExporter(l)
	e.LaunchBackoff = time.Millisecond
	e.RenderTimeout = time.Second
	return e
}

func TestToPDF_Success(t *testing.T) {
	l := &fakeLauncher{pdf: []byte("%PDF-1.7 fake")}

	data, err := newTestExporter(l).ToPDF(context.Background(), "<html></html>")
	if err != nil {
		t.Fatalf("ToPDF() error = %v", err)
	}
	if string(data) != "%PDF-1.7 fake" {
		t.Errorf("unexpected PDF bytes %q", data)
	}
	if got := l.browsers[0].pages[0].content; got != "<html></html>" {
		t.Errorf("page content = %q", got)
	}
	if n := l.openHandles(); n != 0 {
		t.Errorf("%d handle(s) left open", n)
	}
}

func TestToPDF_LaunchRetriedThenSucceeds(t *testing.T) {
	l := &fakeLauncher{failLaunches: 2, pdf: []byte("%PDF")}

	if _, err := newTestExporter(l).ToPDF(context.Background(), "<html></html>"); err != nil {
		t.Fatalf("ToPDF() error = %v", err)
	}
	if l.launches != 3 {
		t.Errorf("launches = %d, want 3", l.launches)
	}
	if n := l.openHandles(); n != 0 {
		t.Errorf("%d handle(s) left open", n)
	}
}

func TestToPDF_LaunchFailsThreeTimes(t *testing.T) {
	l := &fakeLauncher{failLaunches: 10, pdf: []byte("%PDF")}

	data, err := newTestExporter(l).ToPDF(context.Background(), "<html></html>")
	if !errors.Is(err, ErrBrowserLaunch) {
		t.Fatalf("expected ErrBrowserLaunch, got %v", err)
	}
	if data != nil {
		t.Error("expected no PDF bytes on failure")
	}
	if l.launches != 3 {
		t.Errorf("launches = %d, want exactly 3", l.launches)
	}
	if len(l.browsers) != 0 || l.openHandles() != 0 {
		t.Error("expected zero browser handles after failed launches")
	}
}

func TestToPDF_LinearBackoff(t *testing.T) {
	l := &fakeLauncher{failLaunches: 10}
	e := newTestExporter(l)
	e.LaunchBackoff = 20 * time.Millisecond

	start := time.Now()
	_, err := e.ToPDF(context.Background(), "<html></html>")
	if !errors.Is(err, ErrBrowserLaunch) {
		t.Fatalf("expected ErrBrowserLaunch, got %v", err)
	}
	// 1×20ms + 2×20ms between the three attempts.
	if elapsed := time.Since(start); elapsed < 60*time.Millisecond {
		t.Errorf("expected at least 60ms of backoff, got %v", elapsed)
	}
}

func TestToPDF_RenderErrorsCloseEverything(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name string
		l    *fakeLauncher
	}{
		{"new page fails", &fakeLauncher{pageErr: boom}},
		{"set content fails", &fakeLauncher{contentErr: boom}},
		{"print fails", &fakeLauncher{pdfErr: boom}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := newTestExporter(tt.l).ToPDF(context.Background(), "<html></html>")
			if !errors.Is(err, ErrPDFGeneration) {
				t.Fatalf("expected ErrPDFGeneration, got %v", err)
			}
			if !errors.Is(err, boom) {
				t.Errorf("expected cause to be wrapped, got %v", err)
			}
			if data != nil {
				t.Error("expected no PDF bytes on failure")
			}
			if tt.l.launches != 1 {
				t.Errorf("render failures must not be retried, launches = %d", tt.l.launches)
			}
			if n := tt.l.openHandles(); n != 0 {
				t.Errorf("%d handle(s) left open", n)
			}
		})
	}
}

func TestToPDF_EmptyResult(t *testing.T) {
	l := &fakeLauncher{pdf: nil}

	_, err := newTestExporter(l).ToPDF(context.Background(), "<html></html>")
	if !errors.Is(err, ErrEmptyPDF) {
		t.Fatalf("expected ErrEmptyPDF, got %v", err)
	}
	if n := l.openHandles(); n != 0 {
		t.Errorf("%d handle(s) left open", n)
	}
}

func TestToPDF_Timeout(t *testing.T) {
	l := &fakeLauncher{blockPDF: true}
	e := newTestExporter(l)
	e.RenderTimeout = 20 * time.Millisecond

	_, err := e.ToPDF(context.Background(), "<html></html>")
	if !errors.Is(err, ErrPDFGeneration) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected timeout wrapped in ErrPDFGeneration, got %v", err)
	}
	if n := l.openHandles(); n != 0 {
		t.Errorf("%d handle(s) left open", n)
	}
}

func TestToPDF_CallerCancelledStillCloses(t *testing.T) {
	l := &fakeLauncher{blockPDF: true}
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	if _, err := newTestExporter(l).ToPDF(ctx, "<html></html>"); err == nil {
		t.Fatal("expected error after cancellation")
	}
	if n := l.openHandles(); n != 0 {
		t.Errorf("%d handle(s) left open", n)
	}
}
