package facade

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/n0sat/satbot/internal/cache"
	"github.com/n0sat/satbot/internal/errors"
	"github.com/n0sat/satbot/internal/httpclient"
	"github.com/n0sat/satbot/internal/logger"
	"github.com/n0sat/satbot/internal/render"
	"github.com/n0sat/satbot/internal/satellite"
)

// Facade wires the satellite store/search/render path and the three feed
// pipelines' latest-image lookups into the command-response contract from
// §4.5/§6.
type Facade struct {
	satStore    *satellite.Store
	freqStore   *satellite.FrequencyStore
	engine      *render.Engine
	imageDir    string
	mediaClient *httpclient.SaferClient
	mediaURL    string // empty disables the health probe

	hasDXWorld bool
	hasLoTW    bool
	hasQO100   bool
}

// Options configures a Facade.
type Options struct {
	SatStore    *satellite.Store
	FreqStore   *satellite.FrequencyStore
	Engine      *render.Engine
	ImageDir    string
	MediaClient *httpclient.SaferClient
	MediaURL    string
}

// New builds a Facade.
func New(opts Options) *Facade {
	return &Facade{
		satStore:    opts.SatStore,
		freqStore:   opts.FreqStore,
		engine:      opts.Engine,
		imageDir:    opts.ImageDir,
		mediaClient: opts.MediaClient,
		mediaURL:    opts.MediaURL,
	}
}

// SetFeedAvailability lets the caller report whether each feed pipeline has
// published at least one snapshot, since dxw/lotw/qo100 just return the
// latest-alias path rather than running a pipeline synchronously.
func (f *Facade) SetFeedAvailability(dxworld, lotw, qo100 bool) {
	f.hasDXWorld = dxworld
	f.hasLoTW = lotw
	f.hasQO100 = qo100
}

func newMessageID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails on a broken entropy source; fall back to v4
		// rather than surfacing an error from every response.
		return uuid.NewString()
	}
	return id.String()
}

func textResponse(success bool, message string) Response {
	return Response{Success: success, Message: message, MessageID: newMessageID(), ContentType: ContentText}
}

func imagePathToMessage(path string) string {
	return "file://" + path
}

// Handle dispatches a chat message: parses it as a command, runs the
// matching action, and returns the response envelope. Never returns an
// error itself — all failure modes degrade to a text Response per §5's
// error-handling table.
func (f *Facade) Handle(ctx context.Context, msg Message) Response {
	cmd, ok := ParseCommand(msg.Content)
	if !ok {
		return textResponse(false, "Unknown command")
	}

	switch {
	case isQueryCommand(cmd.Name):
		return f.handleQuery(ctx, cmd.Args)
	case cmd.Name == cmdDXWorld:
		return f.handleLatestFeed(ctx, cache.FeedDXWorld, f.hasDXWorld)
	case cmd.Name == cmdLoTW:
		return f.handleLatestFeed(ctx, cache.FeedLoTW, f.hasLoTW)
	case isQO100Command(cmd.Name):
		return f.handleLatestFeed(ctx, cache.FeedQO100, f.hasQO100)
	default:
		return textResponse(false, "Unknown command")
	}
}

func (f *Facade) handleQuery(ctx context.Context, query string) Response {
	results := satellite.Search(query, f.satStore.All())
	if len(results) == 0 {
		return textResponse(false, "No matching satellites found")
	}

	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Entry.APIName)
	}

	now := time.Now()
	path := cache.SatellitePath(f.imageDir, now, names)

	if !cache.Exists(path) {
		png, err := f.engine.RenderPNG(ctx, satellite.BuildTokens(results, f.freqStore))
		if err != nil {
			logger.With(logger.SymFacade).Errorw("satellite render failed", "error", err)
			return textResponse(false, "Failed to render satellite image")
		}
		if err := cache.WriteAndPublish(f.imageDir, cache.FeedSatellite, path, png); err != nil {
			logger.With(logger.SymFacade).Errorw("satellite image write failed", "error", err)
			return textResponse(false, "Failed to render satellite image")
		}
	}

	return f.imageResponse(ctx, path)
}

func (f *Facade) handleLatestFeed(ctx context.Context, feed cache.Feed, published bool) Response {
	if !published {
		return textResponse(false, fmt.Sprintf("No %s data available yet", feed))
	}
	path := cache.LatestAliasPath(f.imageDir, feed)
	if !cache.Exists(path) {
		return textResponse(false, fmt.Sprintf("No %s data available yet", feed))
	}
	return f.imageResponse(ctx, path)
}

// imageResponse applies the media health probe (§5 Egress) before
// returning an IMAGE response; on any probe failure it downgrades to text.
func (f *Facade) imageResponse(ctx context.Context, path string) Response {
	if f.mediaURL != "" {
		if err := f.probeMediaHealth(ctx); err != nil {
			logger.With(logger.SymFacade).Warnw("media server unhealthy, downgrading response", "error", err)
			return textResponse(false, "Media server down")
		}
	}
	return Response{
		Success:     true,
		Message:     imagePathToMessage(path),
		MessageID:   newMessageID(),
		ContentType: ContentImage,
	}
}

func (f *Facade) probeMediaHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://"+f.mediaURL+"/health", nil)
	if err != nil {
		return errors.Wrap(err, "failed to build media health request")
	}
	resp, err := f.mediaClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "media health request failed")
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return errors.Newf("media health check returned status %d", resp.StatusCode)
	}
	return nil
}
