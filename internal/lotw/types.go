// Package lotw implements the ARRL Logbook of the World queue-status
// pipeline: fetch the HTML status page, parse its table, and render a PNG
// snapshot.
package lotw

import "time"

// QueueRow is one parsed row of the ARRL logbook queue-status table.
type QueueRow struct {
	Epoch         string `json:"epoch"`
	Logs          int64  `json:"logs"`
	QSOs          int64  `json:"qsos"`
	Bytes         int64  `json:"bytes"`
	Processing    string `json:"processing"`
	LatencySecs   int64  `json:"latency_secs"`
	LatencyBad    bool   `json:"latency_bad"`
}

// Snapshot is the latest parsed queue-status table.
type Snapshot struct {
	Rows      []QueueRow `json:"rows"`
	FetchedAt time.Time  `json:"fetched_at"`
}
