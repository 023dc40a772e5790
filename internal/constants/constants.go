package constants

import "time"

const (
	// LoaderConcurrency caps how many tournament files are parsed at once.
	LoaderConcurrency = 8
	LoadTimeout       = 30 * time.Second
)

const (
	DatabaseTimeout = 5 * time.Second
	DBBusyTimeout   = 5000 // ms
)

const (
	ShutdownTimeout = 5 * time.Second
)
