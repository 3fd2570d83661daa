package marketplace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"

	"pricewatch/pkg/logx"
)

// ChromedpBrowser reads Mercari prices through chromedp. Each call gets its
// own allocator, so the browser process never outlives the call.
type ChromedpBrowser struct {
	opts BrowserOptions
}

func NewChromedpBrowser(opts BrowserOptions) *ChromedpBrowser {
	return &ChromedpBrowser{opts: opts}
}

func (c *ChromedpBrowser) FetchPrice(ctx context.Context, url string) (int64, bool, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:], //nolint:gocritic
		chromedp.Flag("headless", c.opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)

	if c.opts.Bin != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(c.opts.Bin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	defer cancelTask()

	if err := chromedp.Run(taskCtx, chromedp.Navigate(url)); err != nil {
		return 0, false, fmt.Errorf("chromedp.Navigate: %w", err)
	}

	waitCtx, cancelWait := context.WithTimeout(taskCtx, c.opts.WaitTimeout)
	defer cancelWait()

	var prices []*cdp.Node

	if err := chromedp.Run(waitCtx, chromedp.Nodes(priceSelector, &prices, chromedp.ByQuery)); err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return 0, false, fmt.Errorf("%w within %s", ErrPriceElementTimeout, c.opts.WaitTimeout)
		}

		return 0, false, fmt.Errorf("chromedp.Nodes: %w", err)
	}

	var children []*cdp.Node

	err := chromedp.Run(taskCtx, chromedp.Nodes(
		priceChildSelector,
		&children,
		chromedp.ByQueryAll,
		chromedp.FromNode(prices[0]),
		chromedp.AtLeast(0),
	))
	if err != nil {
		return 0, false, fmt.Errorf("chromedp.Nodes: %w", err)
	}

	if len(children) == 0 {
		return 0, false, nil
	}

	var text string

	err = chromedp.Run(taskCtx, chromedp.Text(
		[]cdp.NodeID{children[0].NodeID},
		&text,
		chromedp.ByNodeID,
	))
	if err != nil {
		return 0, false, fmt.Errorf("chromedp.Text: %w", err)
	}

	logger(ctx).Debug("price text read", slog.String(logx.FieldURL, url), slog.String("text", text))

	price, err := ParsePrice(text)
	if err != nil {
		return 0, false, err
	}

	return price, true, nil
}
