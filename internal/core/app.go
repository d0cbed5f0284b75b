package core

import (
	"database/sql"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/cineniche/cineniche/internal/assets"
	"github.com/cineniche/cineniche/internal/auth"
	"github.com/cineniche/cineniche/internal/catalog"
	"github.com/cineniche/cineniche/internal/config"
	"github.com/cineniche/cineniche/internal/db"
	"github.com/cineniche/cineniche/internal/jobs"
	"github.com/cineniche/cineniche/internal/models"
	"github.com/cineniche/cineniche/internal/posters"
	"github.com/cineniche/cineniche/internal/recommend"
	"github.com/cineniche/cineniche/internal/store"
	"github.com/cineniche/cineniche/internal/upstream"
	"github.com/cineniche/cineniche/internal/websocket"
)

// App holds the core components of the application that are shared
// between the server, the CLI and the background jobs.
type App struct {
	config      *config.Config
	db          *sql.DB
	store       *store.Store
	catalog     *catalog.Service
	recommender *recommend.Service
	posters     *posters.Manifest
	thumbs      *posters.ThumbnailCache
	upstream    upstream.Source
	wsHub       *websocket.Hub
	jobManager  *jobs.JobManager
	closers     []func() error
	Version     string
}

// New opens the database, runs migrations and assembles the application.
func New(cfg *config.Config) (*App, error) {
	database, err := db.InitDB(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.RunMigrations(database, assets.MigrationsFS); err != nil {
		// We can't proceed without a valid database schema.
		database.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	app := NewWithDB(cfg, database)
	log.Info("Core application setup complete.")
	return app, nil
}

// NewWithDB assembles the application around an already migrated database.
func NewWithDB(cfg *config.Config, database *sql.DB) *App {
	app := &App{
		config:  cfg,
		db:      database,
		store:   store.New(database),
		posters: posters.NewManifest(cfg.Posters.Path),
		thumbs:  posters.NewThumbnailCache(),
		wsHub:   websocket.NewHub(),
		Version: "development",
	}

	app.catalog = catalog.NewService(app.store, cfg.GenrePriority(), cfg.GenreFallback(), app.posters)
	app.posters.OnChange(func() {
		app.catalog.Invalidate()
		app.thumbs.Clear()
	})

	var source recommend.Source
	if cfg.Recommender.BaseURL != "" {
		client := recommend.NewClient(recommend.ClientOptions{
			BaseURL:     cfg.Recommender.BaseURL,
			Timeout:     time.Duration(cfg.Recommender.TimeoutSeconds) * time.Second,
			MaxFailures: cfg.Recommender.MaxFailures,
			Cooldown:    time.Duration(cfg.Recommender.CooldownSeconds) * time.Second,
		})
		app.closers = append(app.closers, client.Close)
		source = client
		log.Infof("Using recommendation service at %s", cfg.Recommender.BaseURL)
	} else {
		source = recommend.NewLocal(app.catalog, app.store, cfg.Recommender.Limit)
		log.Info("No recommendation service configured, using the built-in recommender.")
	}
	app.recommender = recommend.NewService(source, cfg.Recommender.Limit)

	if cfg.Catalog.UpstreamURL != "" {
		fetcher := upstream.NewFetcher(cfg.Catalog.UpstreamURL, time.Minute)
		app.closers = append(app.closers, fetcher.Close)
		app.upstream = fetcher
	}

	app.jobManager = jobs.NewManager(app)
	jobs.RegisterAll(app.jobManager)
	return app
}

func (a *App) Config() *config.Config              { return a.config }
func (a *App) DB() *sql.DB                         { return a.db }
func (a *App) Store() *store.Store                 { return a.store }
func (a *App) Catalog() *catalog.Service           { return a.catalog }
func (a *App) Recommender() *recommend.Service     { return a.recommender }
func (a *App) Posters() *posters.Manifest          { return a.posters }
func (a *App) Thumbnails() *posters.ThumbnailCache { return a.thumbs }
func (a *App) Upstream() upstream.Source           { return a.upstream }
func (a *App) WsHub() *websocket.Hub               { return a.wsHub }
func (a *App) JobManager() *jobs.JobManager        { return a.jobManager }

// SetUpstream replaces the catalog source used by the sync job.
func (a *App) SetUpstream(src upstream.Source) { a.upstream = src }

// SetRecommender replaces the recommendation source.
func (a *App) SetRecommender(src recommend.Source) {
	a.recommender = recommend.NewService(src, a.config.Recommender.Limit)
}

// EnsureAdmin creates the configured administrator account when no
// Administrator exists yet. It returns the generated password, or "" when
// nothing was created.
func (a *App) EnsureAdmin() (string, error) {
	count, err := a.store.CountUsersWithRole(models.RoleAdministrator)
	if err != nil {
		return "", fmt.Errorf("could not count administrators: %w", err)
	}
	if count > 0 {
		return "", nil
	}

	password, err := auth.GeneratePassword(16)
	if err != nil {
		return "", err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", err
	}
	if _, err := a.store.CreateUser(a.config.Admin.Email, hash, models.RoleAdministrator); err != nil {
		return "", fmt.Errorf("could not create default administrator: %w", err)
	}

	log.Info("==================================================")
	log.Info("Default administrator created.")
	log.Infof("Email: %s", a.config.Admin.Email)
	log.Infof("Password: %s", password)
	log.Info("Please change this password immediately.")
	log.Info("==================================================")
	return password, nil
}

// Close releases the HTTP clients and the database connection.
func (a *App) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			log.Warnf("Error while closing: %v", err)
		}
	}
	if a.db != nil {
		a.db.Close()
	}
}
