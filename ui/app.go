package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"gqaudit/internal"
	"gqaudit/ports"
)

//go:embed templates/*
var embeddedFiles embed.FS

// App is the report browser: it serves the markdown artifacts written
// by the file sink, rendered to HTML, plus a JSON view of the run
// archive when one is configured.
type App struct {
	router    *chi.Mux
	reportDir string
	archive   ports.RunRepository // nil when DATABASE_URL is unset
	templates *template.Template
	log       *internal.Logger
	port      string
}

// Config holds report browser configuration
type Config struct {
	Port      string
	ReportDir string
	Archive   ports.RunRepository
	Log       *internal.Logger
}

// NewApp creates the report browser application
func NewApp(config Config) (*App, error) {
	if config.Log == nil {
		config.Log = internal.DefaultLogger
	}

	templates, err := template.ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	app := &App{
		router:    chi.NewRouter(),
		reportDir: config.ReportDir,
		archive:   config.Archive,
		templates: templates,
		log:       config.Log,
		port:      config.Port,
	}

	app.setupMiddleware()
	app.setupRoutes()

	return app, nil
}

func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Get("/reports/{name}", a.handleReport)

	a.router.Get("/api/reports", a.handleListReports)
	a.router.Get("/api/runs", a.handleListRuns)
	a.router.Get("/api/runs/{id}", a.handleGetRun)
}

// Start runs the HTTP server
func (a *App) Start() error {
	a.log.Info("report browser listening on :%s (reports from %s)", a.port, a.reportDir)
	return http.ListenAndServe(":"+a.port, a.router)
}

// Router exposes the handler for tests
func (a *App) Router() http.Handler {
	return a.router
}
