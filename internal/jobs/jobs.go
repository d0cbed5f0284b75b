package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	log "github.com/sirupsen/logrus"

	"github.com/cineniche/cineniche/internal/metrics"
	"github.com/cineniche/cineniche/internal/models"
)

// Job identifiers.
const (
	CatalogSyncID    = "catalog-sync"
	PruneSessionsID  = "prune-sessions"
	RefreshPostersID = "refresh-posters"
)

// RegisterAll adds every built-in job to the manager.
func RegisterAll(jm *JobManager) {
	jm.Register(CatalogSyncID, "Catalog Sync", RunCatalogSync)
	jm.Register(PruneSessionsID, "Prune Expired Sessions", RunPruneSessions)
	jm.Register(RefreshPostersID, "Refresh Poster Manifest", RunRefreshPosters)
}

// StartJobs starts the background job scheduler.
func StartJobs(app JobContext) *gocron.Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	startCatalogSyncJob(s, app)
	schedule(s, app, PruneSessionsID, 6*60)

	log.Info("Starting background job scheduler...")
	s.StartAsync()
	return s
}

func startCatalogSyncJob(s *gocron.Scheduler, app JobContext) {
	interval := app.Config().Catalog.SyncInterval
	if interval == 0 || app.Upstream() == nil {
		log.Info("Catalog sync interval is 0 or no upstream is configured, scheduled sync is disabled.")
		return
	}
	schedule(s, app, CatalogSyncID, interval)
}

func schedule(s *gocron.Scheduler, app JobContext, id string, minutes int) {
	log.Infof("Scheduling job: '%s' to run every %d minutes.", id, minutes)
	_, err := s.Every(minutes).Minutes().WaitForSchedule().Do(func() {
		log.Debugf("Scheduler is triggering job: %s", id)
		// Submit through the manager so scheduled and manual runs never overlap.
		if err := app.JobManager().RunJob(id, app); err != nil {
			log.Warnf("Scheduled job '%s' could not start: %v", id, err)
		}
	})
	if err != nil {
		log.Errorf("Error scheduling '%s' job: %v", id, err)
	}
}

func sendProgress(app JobContext, id, message string, progress float64, done bool) {
	status := "running"
	if done {
		status = "completed"
	}
	app.WsHub().BroadcastJSON(models.ProgressUpdate{
		JobID:    id,
		Message:  message,
		Progress: progress,
		Status:   status,
		Done:     done,
	})
}

func fail(app JobContext, id string, err error) {
	msg := err.Error()
	log.Errorf("Job '%s' failed: %v", id, err)
	if jm := app.JobManager(); jm != nil {
		jm.Fail(id, msg)
	}
	app.WsHub().BroadcastJSON(models.ProgressUpdate{JobID: id, Message: msg, Progress: 100, Status: "failed", Done: true})
}

// RunCatalogSync replaces the local catalog with the upstream one.
func RunCatalogSync(app JobContext) {
	source := app.Upstream()
	if source == nil {
		fail(app, CatalogSyncID, fmt.Errorf("no catalog upstream is configured"))
		metrics.CatalogSyncs.WithLabelValues("skipped").Inc()
		return
	}
	sendProgress(app, CatalogSyncID, "Fetching catalog...", 0, false)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	items, err := source.FetchCatalog(ctx)
	if err != nil {
		metrics.CatalogSyncs.WithLabelValues("failure").Inc()
		fail(app, CatalogSyncID, err)
		return
	}
	sendProgress(app, CatalogSyncID, fmt.Sprintf("Fetched %d titles, saving...", len(items)), 50, false)

	result, err := app.Store().ReplaceCatalog(items)
	if err != nil {
		metrics.CatalogSyncs.WithLabelValues("failure").Inc()
		fail(app, CatalogSyncID, fmt.Errorf("failed to save catalog: %w", err))
		return
	}
	app.Catalog().Invalidate()
	metrics.CatalogSyncs.WithLabelValues("success").Inc()
	if titles, err := app.Catalog().Titles(); err == nil {
		metrics.CatalogTitles.Set(float64(len(titles)))
	}

	sendProgress(app, CatalogSyncID, fmt.Sprintf("Catalog synced: %d added, %d updated, %d removed.",
		result.Added, result.Updated, result.Removed), 100, true)
}

// RunPruneSessions deletes expired sessions.
func RunPruneSessions(app JobContext) {
	n, err := app.Store().PruneExpiredSessions()
	if err != nil {
		fail(app, PruneSessionsID, err)
		return
	}
	sendProgress(app, PruneSessionsID, fmt.Sprintf("Removed %d expired sessions.", n), 100, true)
}

// RunRefreshPosters rescans the poster directory.
func RunRefreshPosters(app JobContext) {
	m := app.Posters()
	if m == nil {
		fail(app, RefreshPostersID, fmt.Errorf("no poster directory is configured"))
		return
	}
	if err := m.Refresh(); err != nil {
		fail(app, RefreshPostersID, err)
		return
	}
	sendProgress(app, RefreshPostersID, fmt.Sprintf("Found %d posters.", m.Len()), 100, true)
}
