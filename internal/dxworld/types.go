// Package dxworld implements the DX-World pipeline (component C/H for this
// feed): drive a headless browser to capture the timeline page, parse its
// HTML with targeted regexes, and publish a snapshot + rendered PNG.
package dxworld

import "time"

// DxPedition is one entry on the DX-World timeline.
type DxPedition struct {
	Callsign      string `json:"callsign"`
	Location      string `json:"location"`
	URL           string `json:"url,omitempty"`
	StartDay      *int   `json:"start_day,omitempty"`
	DurationDays  *int   `json:"duration_days,omitempty"`
}

// Timeline is the parsed DX-World page: a month's worth of DX-peditions.
type Timeline struct {
	Month      string       `json:"month"`
	LastUpdate *time.Time   `json:"last_update,omitempty"`
	Peditions  []DxPedition `json:"peditions"`
	FetchedAt  time.Time    `json:"fetched_at"`
}
