package marketplace

import (
	"fmt"
	"time"
)

const (
	EngineRod      = "rod"
	EngineChromedp = "chromedp"
)

// NewBrowserSource builds the price source for the named engine, wrapped in
// Cached when cacheTTL is positive.
func NewBrowserSource(engine string, opts BrowserOptions, cacheTTL time.Duration) (PriceSource, error) {
	var src PriceSource

	switch engine {
	case EngineRod:
		src = NewRodBrowser(opts)
	case EngineChromedp:
		src = NewChromedpBrowser(opts)
	default:
		return nil, fmt.Errorf("unknown browser engine %q", engine)
	}

	if cacheTTL > 0 {
		src = NewCached(src, cacheTTL)
	}

	return src, nil
}
