package services

import (
	"context"
	"errors"
	"fmt"

	cdppage "github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// ChromeLauncher starts headless Chrome through chromedp. An empty ExecPath
// lets chromedp locate the binary.
type ChromeLauncher struct {
	ExecPath string
}

func (l *ChromeLauncher) Launch(ctx context.Context) (Browser, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)
	if l.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(l.ExecPath))
	}

	// The browser outlives the launch call; ctx only bounds the start-up.
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.WithoutCancel(ctx), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	cancel := func() {
		browserCancel()
		allocCancel()
	}

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		return nil, fmt.Errorf("start chrome: %w", err)
	}
	return &chromeBrowser{ctx: browserCtx, cancel: cancel}, nil
}

type chromeBrowser struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func (b *chromeBrowser) NewPage(ctx context.Context) (Page, error) {
	tabCtx, tabCancel := chromedp.NewContext(b.ctx)
	stop := context.AfterFunc(ctx, tabCancel)

	if err := chromedp.Run(tabCtx); err != nil {
		stop()
		tabCancel()
		return nil, fmt.Errorf("open tab: %w", err)
	}
	return &chromePage{ctx: tabCtx, cancel: tabCancel, stop: stop}, nil
}

func (b *chromeBrowser) Close() error {
	err := chromedp.Cancel(b.ctx)
	b.cancel()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

type chromePage struct {
	ctx    context.Context
	cancel context.CancelFunc
	stop   func() bool
}

// bind derives a tab context carrying ctx's deadline and cancellation.
func (p *chromePage) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithCancel(p.ctx)
	if deadline, ok := ctx.Deadline(); ok {
		runCtx, cancel = context.WithDeadline(p.ctx, deadline)
	}
	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}

// SetContent replaces the document and waits for its load event.
func (p *chromePage) SetContent(ctx context.Context, html string) error {
	runCtx, cancel := p.bind(ctx)
	defer cancel()

	return chromedp.Run(runCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := cdppage.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}

			loaded := make(chan struct{}, 1)
			lctx, lcancel := context.WithCancel(ctx)
			defer lcancel()
			chromedp.ListenTarget(lctx, func(ev any) {
				if _, ok := ev.(*cdppage.EventLoadEventFired); ok {
					select {
					case loaded <- struct{}{}:
					default:
					}
				}
			})

			if err := cdppage.SetDocumentContent(tree.Frame.ID, html).Do(ctx); err != nil {
				return err
			}

			select {
			case <-loaded:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}),
	)
}

func (p *chromePage) PDF(ctx context.Context) ([]byte, error) {
	runCtx, cancel := p.bind(ctx)
	defer cancel()

	var data []byte
	err := chromedp.Run(runCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		buf, _, err := cdppage.PrintToPDF().
			WithPrintBackground(true).
			WithPreferCSSPageSize(true).
			Do(ctx)
		if err != nil {
			return err
		}
		data = buf
		return nil
	}))
	return data, err
}

func (p *chromePage) Close() error {
	p.stop()
	err := chromedp.Cancel(p.ctx)
	p.cancel()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
