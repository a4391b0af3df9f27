package utils

// Error codes returned in the "code" field of API error bodies.
const (
	ErrorTokenAuthFail = 1001
	ErrorMissingViewer = 1002
	ErrorBadRequest    = 1003
	ErrorNotFound      = 1004
	ErrorForbidden     = 1005
	ErrorConflict      = 1006
	ErrorInternal      = 1007
)
