package qo100

import (
	"context"
	"net/http"
	"time"

	"github.com/n0sat/satbot/internal/cache"
	"github.com/n0sat/satbot/internal/errors"
	"github.com/n0sat/satbot/internal/httpclient"
	"github.com/n0sat/satbot/internal/render"
)

// Pipeline fetches, parses, renders, and publishes the QO-100 snapshot.
type Pipeline struct {
	url       string
	client    *httpclient.SaferClient
	engine    *render.Engine
	imageDir  string
	snapshots *cache.SnapshotCache[Snapshot]
}

// NewPipeline builds a QO-100 pipeline.
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

// Run fetches, parses, renders, and publishes the QO-100 cluster snapshot.
func (p *Pipeline) Run(ctx context.Context, now time.Time) (Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "failed to build qo-100 request")
	}
	// Required by the cluster's backend to return JSON instead of an HTML page.
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	resp, err := p.client.Do(req)
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "qo-100 fetch failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return Snapshot{}, errors.Newf("qo-100 fetch returned status %d", resp.StatusCode)
	}

	spots, err := ParseResponse(resp.Body)
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{Spots: spots, FetchedAt: now}

	pngPath := cache.FeedPath(p.imageDir, cache.FeedQO100, now)
	png, err := p.engine.RenderPNG(ctx, BuildTokens(snap))
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "failed to render qo-100 snapshot")
	}
	if err := cache.WriteAndPublish(p.imageDir, cache.FeedQO100, pngPath, png); err != nil {
		return Snapshot{}, errors.Wrap(err, "failed to write qo-100 image")
	}

	p.snapshots.Set(snap)
	return snap, nil
}
