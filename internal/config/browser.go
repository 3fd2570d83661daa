package config

import (
	"fmt"
	"time"
)

const (
	EngineRod      = "rod"
	EngineChromedp = "chromedp"
)

type Browser struct {
	Engine      string        `env:"BROWSER_ENGINE"       envDefault:"rod"`
	Bin         string        `env:"BROWSER_BIN"`
	Headless    bool          `env:"BROWSER_HEADLESS"     envDefault:"true"`
	WaitTimeout time.Duration `env:"BROWSER_WAIT_TIMEOUT" envDefault:"30s"`
	CacheTTL    time.Duration `env:"PRICE_CACHE_TTL"      envDefault:"0"`
}

func (b Browser) validate() error {
	switch b.Engine {
	case EngineRod, EngineChromedp:
		return nil
	default:
		return fmt.Errorf("unknown browser engine %q", b.Engine)
	}
}
