package logx

const (
	FieldAddress        = "address"
	FieldAppName        = "app-name"
	FieldAppVersion     = "app-version"
	FieldCode           = "code"
	FieldCount          = "count"
	FieldDurationMs     = "duration-ms"
	FieldEngine         = "engine"
	FieldError          = "error"
	FieldHTTPMethod     = "http-method"
	FieldHTTPRequest    = "http-request"
	FieldHTTPResponse   = "http-response"
	FieldListing        = "listing"
	FieldMarketplace    = "marketplace"
	FieldPath           = "path"
	FieldPrice          = "price"
	FieldRemoteAddr     = "remote-addr"
	FieldRequestBody    = "request-body"
	FieldRequestID      = "request-id"
	FieldResponseBody   = "response-body"
	FieldResponseStatus = "response-status"
	FieldRunID          = "run-id"
	FieldSchedule       = "schedule"
	FieldStack          = "stack"
	FieldThreshold      = "threshold"
	FieldURL            = "url"
)
