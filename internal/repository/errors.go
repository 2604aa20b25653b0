package repository

import "errors"

var (
	ErrFetchFailed     = errors.New("fetch failed")
	ErrFetchTimeout    = errors.New("fetch timed out")
	ErrBadStatus       = errors.New("unexpected response status")
	ErrParseFailed     = errors.New("page could not be parsed")
	ErrExtractFailed   = errors.New("field extraction failed")
	ErrWriteFailed     = errors.New("row could not be written")
	ErrMalformedRecord = errors.New("malformed source record")
	ErrInvalidLocator  = errors.New("invalid locator")
	ErrNotFound        = errors.New("not found")
)
