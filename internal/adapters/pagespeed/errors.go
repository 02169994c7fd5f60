package pagespeed

import "errors"

var (
	// ErrRequestFailed is returned when the PageSpeed request cannot be sent
	ErrRequestFailed = errors.New("pagespeed request failed")
	// ErrUnexpectedStatus is returned when PageSpeed answers with a non-2xx status
	ErrUnexpectedStatus = errors.New("unexpected pagespeed response status")
	// ErrDecodeResponse is returned when the PageSpeed body is not the expected JSON
	ErrDecodeResponse = errors.New("invalid pagespeed response body")
)
