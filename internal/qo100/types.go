// Package qo100 implements the QO-100 DX-cluster JSON feed pipeline: fetch
// the spot list, normalise frequency display, and render a PNG snapshot.
package qo100

import "time"

// Spot is one normalised QO-100 DX-cluster spot.
type Spot struct {
	Callsign  string    `json:"callsign"`
	Frequency string    `json:"frequency"`
	Comment   string    `json:"comment"`
	Spotter   string    `json:"spotter"`
	Time      string    `json:"time"`
	Source    string    `json:"source"`
}

// Snapshot is the latest parsed, reversed (newest-first) spot list.
type Snapshot struct {
	Spots     []Spot    `json:"spots"`
	FetchedAt time.Time `json:"fetched_at"`
}

// rawSpot mirrors the cluster API's actual JSON shape before normalisation:
// "dx" is the DX callsign, "de" is the spotter, "datetime" the timestamp
// string, "spot_source" the originating cluster.
type rawSpot struct {
	Callsign    string  `json:"dx"`
	FrequencyHz float64 `json:"frequency"`
	Comment     string  `json:"comment"`
	Spotter     string  `json:"de"`
	Time        string  `json:"datetime"`
	Source      string  `json:"spot_source"`
}

type spotsResponse struct {
	Spots []rawSpot `json:"spots"`
}
