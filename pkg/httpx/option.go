package httpx

type Option func(*LoggingRoundTripper)

// WithLogFieldMaxLen truncates logged request and response dumps. Zero keeps them whole.
func WithLogFieldMaxLen(logFieldMaxLen int) Option {
	return func(rt *LoggingRoundTripper) {
		rt.logFieldMaxLen = logFieldMaxLen
	}
}

func WithSensitiveDataMasker(sensitiveDataMasker sensitiveDataMasker) Option {
	return func(rt *LoggingRoundTripper) {
		rt.sensitiveDataMasker = sensitiveDataMasker
	}
}

// WithoutBodies logs only the request and status lines.
func WithoutBodies() Option {
	return func(rt *LoggingRoundTripper) {
		rt.dumpBodies = false
	}
}
