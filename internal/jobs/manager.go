package jobs

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/cineniche/cineniche/internal/catalog"
	"github.com/cineniche/cineniche/internal/config"
	"github.com/cineniche/cineniche/internal/posters"
	"github.com/cineniche/cineniche/internal/store"
	"github.com/cineniche/cineniche/internal/upstream"
	"github.com/cineniche/cineniche/internal/websocket"
)

// JobContext provides the dependencies a job needs. core.App implements it.
type JobContext interface {
	Store() *store.Store
	Config() *config.Config
	Catalog() *catalog.Service
	Posters() *posters.Manifest
	Upstream() upstream.Source
	WsHub() *websocket.Hub
	JobManager() *JobManager
}

// Errors returned by RunJob.
var (
	ErrJobRunning  = errors.New("a job is already running")
	ErrJobNotFound = errors.New("job not found")
)

type jobTask func(ctx JobContext)

type JobStatus struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"` // "idle", "running", "success", "failed"
	Message   string    `json:"message"`
	StartTime time.Time `json:"start_time,omitempty"`
	EndTime   time.Time `json:"end_time,omitempty"`
}

// JobManager runs registered jobs one at a time.
type JobManager struct {
	mu      sync.Mutex
	jobs    map[string]jobTask
	status  map[string]*JobStatus
	running bool
	appCtx  JobContext // used by scheduled runs
}

func NewManager(appCtx JobContext) *JobManager {
	return &JobManager{
		jobs:   make(map[string]jobTask),
		status: make(map[string]*JobStatus),
		appCtx: appCtx,
	}
}

func (jm *JobManager) Register(id, name string, task jobTask) {
	jm.mu.Lock()
	defer jm.mu.Unlock()
	jm.jobs[id] = task
	jm.status[id] = &JobStatus{ID: id, Name: name, Status: "idle"}
}

// RunJob starts job id in the background. It fails when another job is
// already running or id is unknown.
func (jm *JobManager) RunJob(id string, ctx JobContext) error {
	jm.mu.Lock()
	if jm.running {
		jm.mu.Unlock()
		return ErrJobRunning
	}

	task, ok := jm.jobs[id]
	if !ok {
		jm.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}

	jm.running = true
	status := jm.status[id]
	status.Status = "running"
	status.StartTime = time.Now()
	status.EndTime = time.Time{}
	status.Message = "Job started..."
	jm.mu.Unlock()

	log.Infof("Starting job: %s", id)
	go func() {
		defer func() {
			jm.mu.Lock()
			if r := recover(); r != nil {
				log.Errorf("Job '%s' panicked: %v", id, r)
				status.Status = "failed"
				status.Message = fmt.Sprintf("Job panicked: %v", r)
			}
			status.EndTime = time.Now()
			if status.Status == "running" {
				status.Status = "success"
				status.Message = "Job completed successfully."
			}
			jm.running = false
			jm.mu.Unlock()
			log.Infof("Finished job: %s", id)
		}()

		task(ctx)
	}()
	return nil
}

// Fail marks the running job id as failed with message. Tasks call it
// instead of returning errors.
func (jm *JobManager) Fail(id, message string) {
	jm.mu.Lock()
	defer jm.mu.Unlock()
	if s, ok := jm.status[id]; ok && s.Status == "running" {
		s.Status = "failed"
		s.Message = message
	}
}

// GetStatus returns a snapshot of every job's status, ordered by id.
func (jm *JobManager) GetStatus() []JobStatus {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	statuses := make([]JobStatus, 0, len(jm.status))
	for _, s := range jm.status {
		statuses = append(statuses, *s)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].ID < statuses[j].ID })
	return statuses
}

// Running reports whether a job is in progress.
func (jm *JobManager) Running() bool {
	jm.mu.Lock()
	defer jm.mu.Unlock()
	return jm.running
}
