package config

type Telegram struct {
	BotToken string `env:"TELEGRAM_BOT_TOKEN" json:"-"`
	ChatID   int64  `env:"TELEGRAM_CHAT_ID"   envDefault:"0"`
}

// Enabled reports whether the Telegram mirror is configured.
func (t Telegram) Enabled() bool {
	return t.BotToken != "" && t.ChatID != 0
}
