package config

import "time"

// Application constants
const (
	AppName   = "UPSC Results Dashboard"
	AppBinary = "upscdash"

	// Network timeouts
	DefaultHTTPTimeout  = 30 * time.Second
	WebSocketPingPeriod = 30 * time.Second
	WebSocketPongWait   = 60 * time.Second

	// Export file names, formatted with a timestamp
	ExportFilePattern = "upsc_results_%s.%s"
	ExportTimeLayout  = "20060102_150405"
)
