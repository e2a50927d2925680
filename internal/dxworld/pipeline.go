package dxworld

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/n0sat/satbot/internal/cache"
	"github.com/n0sat/satbot/internal/errors"
)

// Capturer is the browser collaborator contract from §9:
// fetch_dx_world_html_and_png(url) -> (html, png). Satisfied by wrapping
// browser.ChromeRasterizer.FetchDXWorld in a CapturerFunc at wiring time, so
// this package does not need to depend on the browser package's types.
type Capturer interface {
	FetchDXWorld(ctx context.Context, url string) (html string, png []byte, err error)
}

// CapturerFunc adapts a plain function to the Capturer interface.
type CapturerFunc func(ctx context.Context, url string) (string, []byte, error)

// FetchDXWorld implements Capturer.
func (f CapturerFunc) FetchDXWorld(ctx context.Context, url string) (string, []byte, error) {
	return f(ctx, url)
}

// Pipeline fetches, parses, persists, and caches the DX-World timeline.
type Pipeline struct {
	url          string
	imageDir     string
	snapshotPath string
	capturer     Capturer
	snapshots    *cache.SnapshotCache[Timeline]
}

// NewPipeline builds a DX-World pipeline writing images to imageDir and the
// JSON snapshot to snapshotPath.
func NewPipeline(url, imageDir, snapshotPath string, capturer Capturer) *Pipeline {
	return &Pipeline{
		url:          url,
		imageDir:     imageDir,
		snapshotPath: snapshotPath,
		capturer:     capturer,
		snapshots:    cache.New[Timeline](),
	}
}

// Latest returns the most recently published timeline, if any.
func (p *Pipeline) Latest() (Timeline, bool) {
	return p.snapshots.Get()
}

// Run captures the page, parses it, persists the HTML/PNG with timestamped
// names, publishes the "latest" alias, and updates the in-memory snapshot.
// Per §4.9/§5 the browser capture itself is a non-cancellable black box;
// ctx governs everything around it.
func (p *Pipeline) Run(ctx context.Context, now time.Time) (Timeline, error) {
	html, png, err := p.capturer.FetchDXWorld(ctx, p.url)
	if err != nil {
		return Timeline{}, errors.Wrap(err, "dx-world capture failed")
	}

	timeline := ParseHTML(html, now)

	if err := os.MkdirAll(p.imageDir, 0o755); err != nil {
		return Timeline{}, errors.Wrapf(err, "failed to create image dir %s", p.imageDir)
	}

	pngPath := cache.FeedPath(p.imageDir, cache.FeedDXWorld, now)
	htmlPath := pngPath[:len(pngPath)-len(".png")] + ".html"

	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return Timeline{}, errors.Wrapf(err, "failed to write %s", htmlPath)
	}
	if err := cache.WriteAndPublish(p.imageDir, cache.FeedDXWorld, pngPath, png); err != nil {
		return Timeline{}, errors.Wrap(err, "failed to write dx-world image")
	}

	if err := p.persistSnapshot(timeline); err != nil {
		return Timeline{}, err
	}

	p.snapshots.Set(timeline)
	return timeline, nil
}

func (p *Pipeline) persistSnapshot(t Timeline) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal dx-world snapshot")
	}
	if dir := filepath.Dir(p.snapshotPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "failed to create directory %s", dir)
		}
	}
	if err := os.WriteFile(p.snapshotPath, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write snapshot %s", p.snapshotPath)
	}
	return nil
}
