package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	ConfigInvalid      failure.ErrorCode = "ConfigInvalid"
	InvalidURL         failure.ErrorCode = "InvalidURL"
	UnsupportedEngine  failure.ErrorCode = "UnsupportedEngine"
	InvalidSchedule    failure.ErrorCode = "InvalidSchedule"
	ListingsUnreadable failure.ErrorCode = "ListingsUnreadable"
	ListingsMalformed  failure.ErrorCode = "ListingsMalformed"
	ListingInvalid     failure.ErrorCode = "ListingInvalid"
)
