package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/clawdeck/clawdeck/api"
	"github.com/clawdeck/clawdeck/browser"
	"github.com/clawdeck/clawdeck/cache"
	"github.com/clawdeck/clawdeck/config"
	"github.com/clawdeck/clawdeck/logging"
	"github.com/clawdeck/clawdeck/models"
)

// TickMsg is sent on the refresh interval to trigger a fetch cycle
type TickMsg time.Time

// FetchResultMsg carries one fetch outcome back to the update loop. Cycle is
// the monotonic id of the fetch that produced it.
type FetchResultMsg struct {
	Cycle    uint64
	Snapshot *models.UsageSnapshot
	Err      error
}

// ConfigUpdateMsg carries a reloaded configuration into the running program
type ConfigUpdateMsg struct {
	Config *config.Config
}

// RefreshRequestMsg requests an immediate fetch (manual refresh control)
type RefreshRequestMsg struct{}

// tickCmd schedules the next scheduler tick
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// fetchCmd performs one fetch cycle off the update loop. When reauth is set,
// credentials are re-resolved from the browser store first; a resolution
// failure is reported as the cycle's result.
func fetchCmd(client *api.Client, resolver *browser.Resolver, timeout time.Duration, cycle uint64, reauth bool) tea.Cmd {
	return func() tea.Msg {
		if reauth {
			creds, err := resolver.Resolve()
			if err != nil {
				return FetchResultMsg{Cycle: cycle, Err: err}
			}
			client.SetCredentials(creds)
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		snap, err := client.FetchUsage(ctx)
		return FetchResultMsg{Cycle: cycle, Snapshot: snap, Err: err}
	}
}

// persistCmd writes a snapshot to the cache in the background. Failures are
// logged only; the cache is best-effort.
func persistCmd(store *cache.SnapshotStore, snap *models.UsageSnapshot) tea.Cmd {
	if store == nil || snap == nil {
		return nil
	}
	return func() tea.Msg {
		if err := store.Put(snap); err != nil {
			logging.GetLogger().Warnf("persist snapshot: %v", err)
		}
		return nil
	}
}
