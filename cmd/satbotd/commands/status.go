package commands

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/spf13/cobra"

	"github.com/n0sat/satbot/internal/config"
	"github.com/n0sat/satbot/internal/errors"
	"github.com/n0sat/satbot/internal/history"
	"github.com/n0sat/satbot/internal/satellite"
)

// StatusCmd shows each worker's last-recorded execution and basic process
// health, without running the scheduler itself.
var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show worker execution history and store sizes",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	store, err := history.Open(cfg.History.DatabasePath)
	if err != nil {
		return errors.Wrap(err, "failed to open execution history store")
	}
	defer store.Close()

	runs, err := store.LatestPerWorker()
	if err != nil {
		return errors.Wrap(err, "failed to query worker history")
	}

	pterm.DefaultSection.Println("Worker status")
	rows := pterm.TableData{{"Worker", "Last Run", "Duration", "Result", "Summary"}}
	for _, r := range runs {
		result := pterm.Green("ok")
		if !r.Success {
			result = pterm.Red("failed: " + r.Error)
		}
		rows = append(rows, []string{
			r.Worker,
			r.StartedAt.UTC().Format(time.RFC3339),
			fmt.Sprintf("%dms", r.DurationMs),
			result,
			r.Summary,
		})
	}
	if len(rows) == 1 {
		pterm.Info.Println("No worker runs recorded yet")
	} else if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		return errors.Wrap(err, "failed to render status table")
	}

	pterm.DefaultSection.Println("Satellite store")
	satStore := satellite.NewStore(time.Now)
	if err := satStore.Load(cfg.Satellite.SnapshotPath); err != nil {
		return errors.Wrap(err, "failed to load satellite snapshot")
	}
	pterm.Printf("%d entries tracked\n", len(satStore.All()))

	if v, err := mem.VirtualMemory(); err == nil {
		pterm.DefaultSection.Println("Host memory")
		pterm.Printf("%d MB used / %d MB total\n", (v.Total-v.Available)/1024/1024, v.Total/1024/1024)
	}

	return nil
}
