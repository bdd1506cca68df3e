package service

import "errors"

var (
	// ErrNotStarted is returned by report methods before Start.
	ErrNotStarted = errors.New("service not started")
	// ErrNoFetcher is returned by Start when no upstream client was set.
	ErrNoFetcher = errors.New("service has no upstream fetcher")
)
