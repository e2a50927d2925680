package lotw

import (
	"context"
	"net/http"
	"time"

	"github.com/n0sat/satbot/internal/cache"
	"github.com/n0sat/satbot/internal/errors"
	"github.com/n0sat/satbot/internal/httpclient"
	"github.com/n0sat/satbot/internal/logger"
	"github.com/n0sat/satbot/internal/render"
)

// Pipeline fetches, parses, renders, and publishes the LoTW snapshot.
type Pipeline struct {
	url       string
	client    *httpclient.SaferClient
	engine    *render.Engine
	imageDir  string
	snapshots *cache.SnapshotCache[Snapshot]
}

// NewPipeline builds a LoTW pipeline.
func NewPipeline(url string, client *httpclient.SaferClient, engine *render.Engine, imageDir string) *Pipeline {
	return &Pipeline{
		url:       url,
		client:    client,
		engine:    engine,
		imageDir:  imageDir,
		snapshots: cache.New[Snapshot](),
	}
}

// Latest returns the most recently published snapshot, if any.
func (p *Pipeline) Latest() (Snapshot, bool) {
	return p.snapshots.Get()
}

// Run fetches and parses the queue-status page, renders it, publishes the
// PNG, and updates the in-memory snapshot. The snapshot is published even
// if some rows were malformed, as long as at least one row survived.
func (p *Pipeline) Run(ctx context.Context, now time.Time) (Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "failed to build lotw request")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "lotw fetch failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return Snapshot{}, errors.Newf("lotw fetch returned status %d", resp.StatusCode)
	}

	rows, warnings, err := ParseHTML(resp.Body)
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "failed to parse lotw response")
	}
	for _, w := range warnings {
		logger.With(logger.SymFetch).Warnw("lotw row skipped", "reason", w)
	}
	if len(rows) == 0 {
		return Snapshot{}, errors.New("no valid lotw rows parsed, snapshot not published")
	}

	snap := Snapshot{Rows: rows, FetchedAt: now}

	pngPath := cache.FeedPath(p.imageDir, cache.FeedLoTW, now)
	png, err := p.engine.RenderPNG(ctx, BuildTokens(snap))
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "failed to render lotw snapshot")
	}
	if err := cache.WriteAndPublish(p.imageDir, cache.FeedLoTW, pngPath, png); err != nil {
		return Snapshot{}, errors.Wrap(err, "failed to write lotw image")
	}

	p.snapshots.Set(snap)
	return snap, nil
}
