package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

type Discord struct {
	WebhookURL  string        `env:"DISCORD_WEBHOOK_URL,required,notEmpty" json:"-"`
	EmbedFields bool          `env:"DISCORD_EMBED_FIELDS"                  envDefault:"false"`
	Timeout     time.Duration `env:"WEBHOOK_TIMEOUT"                       envDefault:"30s"`
}

// The URL itself is a secret, so errors name only the offending part.
func (d Discord) validate() error {
	u, err := url.Parse(d.WebhookURL)
	if err != nil {
		return errors.New("DISCORD_WEBHOOK_URL is not a URL")
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("DISCORD_WEBHOOK_URL scheme %q is not http(s)", u.Scheme)
	}

	if u.Host == "" {
		return errors.New("DISCORD_WEBHOOK_URL has no host")
	}

	return nil
}
