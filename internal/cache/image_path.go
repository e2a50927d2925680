package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Feed identifies which pipeline an image path belongs to, for both the
// filename scheme and the eviction worker's per-feed retention lookup.
type Feed string

const (
	FeedSatellite Feed = "sat"
	FeedLoTW      Feed = "lotw"
	FeedQO100     Feed = "qo100"
	FeedDXWorld   Feed = "dxw"
)

// SatellitePath computes the deterministic path for a satellite-query
// image, timestamp floored to 15 minutes per §4.6 so repeat queries within
// the same bucket hit the same file.
func SatellitePath(dir string, fetchedAt time.Time, names []string) string {
	bucket := fetchedAt.Truncate(15 * time.Minute).UTC()
	joined := strings.Join(names, "-")
	return filepath.Join(dir, fmt.Sprintf("sat_%s_%s_%s.png",
		bucket.Format("20060102"), bucket.Format("1504"), joined))
}

// FeedPath computes the deterministic path for a feed render, using the
// feed's exact fetched_at (not floored) per §4.6.
func FeedPath(dir string, feed Feed, fetchedAt time.Time) string {
	fetchedAt = fetchedAt.UTC()
	if feed == FeedDXWorld {
		return filepath.Join(dir, fmt.Sprintf("%s_%s.png", feed, fetchedAt.Format("20060102_150405")))
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%s_%s.png", feed, fetchedAt.Format("20060102"), fetchedAt.Format("1504")))
}

// LatestAliasPath is the stable "<feed>_latest.png" path command handlers
// return, rewritten after every successful feed render.
func LatestAliasPath(dir string, feed Feed) string {
	return filepath.Join(dir, fmt.Sprintf("%s_latest.png", feed))
}

// Exists reports whether a path already exists — the cache-hit check that
// short-circuits rendering.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// PublishLatest copies src over the feed's latest-alias path. Copy rather
// than rename/symlink: src is a timestamped artifact callers may still want
// to keep independently addressable after this call.
func PublishLatest(dir string, feed Feed, src string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(LatestAliasPath(dir, feed), data, 0o644)
}

// WriteAndPublish writes data to path and rewrites the feed's latest-alias,
// the common tail of every feed pipeline's render step.
func WriteAndPublish(dir string, feed Feed, path string, data []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	return os.WriteFile(LatestAliasPath(dir, feed), data, 0o644)
}
