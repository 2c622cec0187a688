package models

import "time"

// ScraperConfig contains runtime options shared by site adapters.
type ScraperConfig struct {
	Proxies    []string
	Timeout    time.Duration
	Delay      time.Duration
	UserAgents []string
}
