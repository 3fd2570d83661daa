package marketplace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"

	"pricewatch/pkg/contextx"
	"pricewatch/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// BrowserOptions configures a headless browser price source.
type BrowserOptions struct {
	Bin         string
	Headless    bool
	WaitTimeout time.Duration
}

// RodBrowser reads Mercari prices through go-rod with the stealth page
// patches applied. Each call runs in its own browser process.
type RodBrowser struct {
	opts BrowserOptions
}

func NewRodBrowser(opts BrowserOptions) *RodBrowser {
	return &RodBrowser{opts: opts}
}

func (r *RodBrowser) FetchPrice(ctx context.Context, url string) (int64, bool, error) {
	bin := r.opts.Bin
	if bin == "" {
		bin, _ = launcher.LookPath()
	}

	if bin == "" {
		path, err := launcher.NewBrowser().Get()
		if err != nil {
			return 0, false, fmt.Errorf("download browser: %w", err)
		}

		bin = path
	}

	l := launcher.New().
		Context(ctx).
		Headless(r.opts.Headless).
		Bin(bin).
		NoSandbox(true).
		Set("disable-dev-shm-usage", "true").
		Set("disable-gpu", "true")

	wsURL, err := l.Launch()
	if err != nil {
		return 0, false, fmt.Errorf("launch browser: %w", err)
	}

	defer l.Cleanup()

	browser := rod.New().Context(ctx).ControlURL(wsURL)
	if err := browser.Connect(); err != nil {
		l.Kill()

		return 0, false, fmt.Errorf("connect browser: %w", err)
	}

	defer func() {
		if err := browser.Close(); err != nil {
			logger(ctx).Warn("browser.Close", logx.Error(err))
			l.Kill()
		}
	}()

	page, err := stealth.Page(browser)
	if err != nil {
		return 0, false, fmt.Errorf("stealth.Page: %w", err)
	}

	if err := page.Navigate(url); err != nil {
		return 0, false, fmt.Errorf("page.Navigate: %w", err)
	}

	waitPage := page.Timeout(r.opts.WaitTimeout)
	defer waitPage.CancelTimeout()

	el, err := waitPage.Element(priceSelector)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return 0, false, fmt.Errorf("%w within %s", ErrPriceElementTimeout, r.opts.WaitTimeout)
		}

		return 0, false, fmt.Errorf("page.Element: %w", err)
	}

	children, err := el.Elements(priceChildSelector)
	if err != nil {
		return 0, false, fmt.Errorf("el.Elements: %w", err)
	}

	if children.Empty() {
		return 0, false, nil
	}

	text, err := children.First().Text()
	if err != nil {
		return 0, false, fmt.Errorf("el.Text: %w", err)
	}

	logger(ctx).Debug("price text read", slog.String(logx.FieldURL, url), slog.String("text", text))

	price, err := ParsePrice(text)
	if err != nil {
		return 0, false, err
	}

	return price, true, nil
}
