package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/n0sat/satbot/internal/browser"
	"github.com/n0sat/satbot/internal/config"
	"github.com/n0sat/satbot/internal/dxworld"
	"github.com/n0sat/satbot/internal/errors"
	"github.com/n0sat/satbot/internal/facade"
	"github.com/n0sat/satbot/internal/history"
	"github.com/n0sat/satbot/internal/httpclient"
	"github.com/n0sat/satbot/internal/logger"
	"github.com/n0sat/satbot/internal/lotw"
	"github.com/n0sat/satbot/internal/qo100"
	"github.com/n0sat/satbot/internal/render"
	"github.com/n0sat/satbot/internal/satellite"
	"github.com/n0sat/satbot/internal/schedule"
)

// ServeCmd runs the scheduler and command façade until interrupted.
var ServeCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"server"},
	Short:   "Run the scheduler and command façade",
	Long:    "Start every scheduled worker (AMSAT update, LoTW, QO-100, DX-World, image GC) and block until SIGINT/SIGTERM, persisting stores and images along the way.",
	RunE:    runServe,
}

// fixedTrigger adapts schedule.NextFixedTrigger's (now, interval) signature
// to the single-argument schedule.TriggerFunc shape.
func fixedTrigger(interval time.Duration) schedule.TriggerFunc {
	return func(now time.Time) time.Time {
		return schedule.NextFixedTrigger(now, interval)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	log := logger.With(logger.SymSchedule)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpClient := httpclient.New(30 * time.Second)
	amsatClient := httpclient.New(60 * time.Second)

	satStore := satellite.NewStore(time.Now)
	if err := satStore.Load(cfg.Satellite.SnapshotPath); err != nil {
		return errors.Wrap(err, "failed to load satellite snapshot")
	}

	freqStore, err := satellite.EnsureFrequencyCSV(ctx, httpClient, cfg.Satellite.FrequencyCSVURL, cfg.Satellite.FrequencyCSVPath)
	if err != nil {
		return errors.Wrap(err, "failed to load frequency metadata")
	}
	log.Infow("frequency metadata loaded", "norad_ids", freqStore.Len())

	aliasOverrides, err := satellite.LoadAliasOverrides(cfg.Satellite.AliasOverridesPath)
	if err != nil {
		return errors.Wrap(err, "failed to load alias overrides")
	}

	chrome := browser.New(ctx)
	defer chrome.Close()

	satTemplate, err := render.LoadTemplate(cfg.Render.TemplatePath)
	if err != nil {
		return errors.Wrap(err, "failed to load satellite render template")
	}
	lotwTemplate, err := render.LoadTemplate(cfg.Render.LoTWTemplatePath)
	if err != nil {
		return errors.Wrap(err, "failed to load lotw render template")
	}
	qo100Template, err := render.LoadTemplate(cfg.Render.QO100TemplatePath)
	if err != nil {
		return errors.Wrap(err, "failed to load qo-100 render template")
	}

	satEngine := render.NewEngine(satTemplate, chrome)
	lotwEngine := render.NewEngine(lotwTemplate, chrome)
	qo100Engine := render.NewEngine(qo100Template, chrome)

	lotwPipeline := lotw.NewPipeline(cfg.LoTW.FeedURL, httpClient, lotwEngine, cfg.Render.ImageCacheDir)
	qo100Pipeline := qo100.NewPipeline(cfg.QO100.FeedURL, httpClient, qo100Engine, cfg.Render.ImageCacheDir)
	dxworldPipeline := dxworld.NewPipeline(cfg.DXWorld.URL, cfg.Render.ImageCacheDir, cfg.DXWorld.SnapshotPath,
		dxworld.CapturerFunc(func(ctx context.Context, url string) (string, []byte, error) {
			capture, err := chrome.FetchDXWorld(ctx, url)
			return capture.HTML, capture.PNG, err
		}))

	historyStore, err := history.Open(cfg.History.DatabasePath)
	if err != nil {
		return errors.Wrap(err, "failed to open execution history store")
	}
	defer historyStore.Close()

	f := facade.New(facade.Options{
		SatStore:    satStore,
		FreqStore:   freqStore,
		Engine:      satEngine,
		ImageDir:    cfg.Render.ImageCacheDir,
		MediaClient: httpClient,
		MediaURL:    cfg.Server.MediaServerURL,
	})

	manager := schedule.NewManager(ctx)

	manager.Register(&schedule.Worker{
		Name:        "amsat-update",
		Trigger:     schedule.NextAMSATTrigger,
		Timeout:     time.Duration(cfg.Schedule.UpdateTimeoutSeconds) * time.Second,
		Retry:       schedule.AMSATRetry,
		InitialTick: cfg.Schedule.PerformInitialUpdate,
		Body: recordingBody(historyStore, "amsat-update", func(ctx context.Context) (schedule.Outcome, error) {
			return runAMSATUpdate(ctx, amsatClient, cfg, satStore, aliasOverrides)
		}),
	})

	manager.Register(&schedule.Worker{
		Name:        "lotw-update",
		Trigger:     fixedTrigger(60 * time.Minute),
		Timeout:     30 * time.Second,
		Retry:       schedule.LoTWQO100Retry,
		InitialTick: cfg.Schedule.PerformInitialUpdate,
		Body: recordingBody(historyStore, "lotw-update", func(ctx context.Context) (schedule.Outcome, error) {
			snap, err := lotwPipeline.Run(ctx, time.Now())
			if err != nil {
				return schedule.Outcome{}, err
			}
			f.SetFeedAvailability(dxworldPublished(dxworldPipeline), true, qo100Published(qo100Pipeline))
			return schedule.Outcome{Summary: "lotw snapshot published", Fields: []interface{}{"rows", len(snap.Rows)}}, nil
		}),
	})

	manager.Register(&schedule.Worker{
		Name:        "qo100-update",
		Trigger:     fixedTrigger(10 * time.Minute),
		Timeout:     30 * time.Second,
		Retry:       schedule.LoTWQO100Retry,
		InitialTick: cfg.Schedule.PerformInitialUpdate,
		Body: recordingBody(historyStore, "qo100-update", func(ctx context.Context) (schedule.Outcome, error) {
			snap, err := qo100Pipeline.Run(ctx, time.Now())
			if err != nil {
				return schedule.Outcome{}, err
			}
			f.SetFeedAvailability(dxworldPublished(dxworldPipeline), true, true)
			return schedule.Outcome{Summary: "qo-100 snapshot published", Fields: []interface{}{"spots", len(snap.Spots)}}, nil
		}),
	})

	manager.Register(&schedule.Worker{
		Name:        "dxworld-scrape",
		Trigger:     fixedTrigger(10 * time.Minute),
		Timeout:     30 * time.Second,
		Retry:       schedule.LoTWQO100Retry,
		InitialTick: cfg.Schedule.PerformInitialUpdate,
		Body: recordingBody(historyStore, "dxworld-scrape", func(ctx context.Context) (schedule.Outcome, error) {
			timeline, err := dxworldPipeline.Run(ctx, time.Now())
			if err != nil {
				return schedule.Outcome{}, err
			}
			f.SetFeedAvailability(true, lotwPublished(lotwPipeline), qo100Published(qo100Pipeline))
			return schedule.Outcome{Summary: "dx-world timeline published", Fields: []interface{}{"peditions", len(timeline.Peditions)}}, nil
		}),
	})

	manager.Register(&schedule.Worker{
		Name:    "image-gc",
		Trigger: schedule.NextImageGCTrigger,
		Retry:   schedule.NoRetry,
		Body: recordingBody(historyStore, "image-gc", func(ctx context.Context) (schedule.Outcome, error) {
			deleted, err := satellite.EvictImages(ctx, cfg.Render.ImageCacheDir, time.Duration(cfg.Schedule.ImageRetentionDays)*24*time.Hour, time.Now())
			if err != nil {
				return schedule.Outcome{}, err
			}
			return schedule.Outcome{Summary: "image cache swept", Fields: []interface{}{"deleted", deleted}}, nil
		}),
	})

	manager.Start()
	log.Infow("satbotd serving", "image_dir", cfg.Render.ImageCacheDir)

	<-ctx.Done()
	log.Infow("shutdown signal received")
	manager.Shutdown()

	if err := satStore.Persist(cfg.Satellite.SnapshotPath); err != nil {
		log.Errorw("failed to persist satellite snapshot on shutdown", "error", err)
	}

	return nil
}

// runAMSATUpdate implements §4.4's update cycle: scrape the satellite-name
// dropdown (falling back to the baseline list on empty/failed scrape),
// batch-fetch reports, merge them into the store, apply alias overrides, and
// persist the snapshot.
func runAMSATUpdate(ctx context.Context, client *httpclient.SaferClient, cfg *config.Config, store *satellite.Store, overrides satellite.AliasOverrides) (schedule.Outcome, error) {
	scraped, err := satellite.ScrapeSatelliteNames(ctx, client, cfg.Satellite.AmsatURL)
	if err != nil {
		logger.With(logger.SymSatellite).Warnw("amsat name scrape failed, using fallback list", "error", err)
		scraped = nil
	}
	names := satellite.SatelliteNames(scraped)

	for _, name := range names {
		store.Upsert(name)
	}

	outcomes := satellite.BatchFetch(ctx, client, cfg.Satellite.AmsatURL,
		names, time.Hour, time.Duration(cfg.Satellite.RequestDelayMS)*time.Millisecond)
	store.ApplyFetchOutcomes(outcomes)
	store.ApplyAliasOverrides(overrides)

	if err := store.Persist(cfg.Satellite.SnapshotPath); err != nil {
		return schedule.Outcome{}, errors.Wrap(err, "failed to persist satellite snapshot")
	}

	return schedule.Outcome{
		Summary: satellite.DescribeBatch(outcomes),
		Fields:  []interface{}{"satellites", len(names)},
	}, nil
}

func recordingBody(store *history.Store, name string, fn schedule.WorkBody) schedule.WorkBody {
	return func(ctx context.Context) (schedule.Outcome, error) {
		started := time.Now()
		outcome, err := fn(ctx)
		run := history.Run{
			Worker:     name,
			StartedAt:  started,
			DurationMs: time.Since(started).Milliseconds(),
			Success:    err == nil,
			Summary:    outcome.Summary,
		}
		if err != nil {
			run.Error = err.Error()
		}
		if recErr := store.Record(run); recErr != nil {
			logger.With(logger.SymHistory).Warnw("failed to record worker run", "worker", name, "error", recErr)
		}
		return outcome, err
	}
}

func dxworldPublished(p *dxworld.Pipeline) bool {
	_, ok := p.Latest()
	return ok
}

func lotwPublished(p *lotw.Pipeline) bool {
	_, ok := p.Latest()
	return ok
}

func qo100Published(p *qo100.Pipeline) bool {
	_, ok := p.Latest()
	return ok
}
