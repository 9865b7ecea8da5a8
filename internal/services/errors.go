package services

import "errors"

// ErrMissingAPIKey is the configuration error reported before any network
// attempt when no key is available for the selected provider.
var ErrMissingAPIKey = errors.New("no API key configured for the selected provider")

// ErrBatchCountMismatch fails a whole metadata batch whose response count
// differs from the request count.
var ErrBatchCountMismatch = errors.New("metadata batch returned a different number of results than requested")
