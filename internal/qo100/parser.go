package qo100

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/n0sat/satbot/internal/errors"
)

const (
	bandLow       = 10_489_500
	bandHigh      = 10_490_000
	bandBase      = 10_489_000
	maxRenderRows = 50
	maxCommentLen = 40
)

// ParseResponse decodes the cluster's {"spots": [...]} JSON, normalises
// each spot's frequency display, and reverses the list so newest is first
// (the API returns oldest-first), per §4.8.
func ParseResponse(r io.Reader) ([]Spot, error) {
	var resp spotsResponse
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return nil, errors.Wrap(err, "failed to decode qo-100 spots response")
	}

	spots := make([]Spot, len(resp.Spots))
	for i, raw := range resp.Spots {
		spots[len(resp.Spots)-1-i] = Spot{
			Callsign:  raw.Callsign,
			Frequency: formatFrequency(raw.FrequencyHz),
			Comment:   raw.Comment,
			Spotter:   raw.Spotter,
			Time:      raw.Time,
			Source:    raw.Source,
		}
	}
	return spots, nil
}

// formatFrequency displays the offset within the QO-100 transponder band as
// ".<offset>", or "--" outside it.
func formatFrequency(hz float64) string {
	f := int64(hz)
	if f >= bandLow && f < bandHigh {
		return fmt.Sprintf(".%d", f-bandBase)
	}
	return "--"
}

// TruncateComment shortens comments over maxCommentLen chars with "...".
func TruncateComment(comment string) string {
	runes := []rune(comment)
	if len(runes) <= maxCommentLen {
		return comment
	}
	return string(runes[:maxCommentLen]) + "..."
}
