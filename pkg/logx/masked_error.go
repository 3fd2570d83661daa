package logx

type maskedError struct {
	msg   string
	cause error
}

func (e *maskedError) Error() string {
	return e.msg
}

func (e *maskedError) Unwrap() error {
	return e.cause
}

// MaskError hides secrets in err's text. Transport errors quote the request
// URL, which for webhooks and bot APIs carries the token. The cause chain is
// kept for errors.Is and errors.As.
func MaskError(err error) error {
	if err == nil {
		return nil
	}

	return &maskedError{
		msg:   string(NewSensitiveDataMasker().Mask([]byte(err.Error()))),
		cause: err,
	}
}
