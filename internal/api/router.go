package api

import (
	"github.com/gin-gonic/gin"
	"github.com/timmy/jobnest/internal/api/handler"
	"github.com/timmy/jobnest/internal/api/middleware"
	"github.com/timmy/jobnest/internal/logger"
)

// Deps are the collaborators the HTTP layer needs. Queue may be nil, in
// which case POST /api/v1/sync runs the sync inline.
type Deps struct {
	Tokens  middleware.TokenVerifier
	Runner  handler.SyncRunner
	Queue   handler.SyncEnqueuer
	Logs    handler.SyncLogLister
	Sources handler.SourceLister
	Jobs    handler.JobCatalog
	Users   handler.PreferenceStore
	Health  map[string]handler.Pinger
	Logger  *logger.Logger
}

// RouterConfig holds HTTP-level settings.
type RouterConfig struct {
	Mode string
	CORS middleware.CORSConfig
}

// SetupRouter configures the Gin router with all routes.
func SetupRouter(deps Deps, cfg RouterConfig) *gin.Engine {
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	log := deps.Logger
	if log == nil {
		log = logger.GetDefault()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.CORS(cfg.CORS))

	healthHandler := handler.NewHealthHandler(deps.Health)
	syncHandler := handler.NewSyncHandler(deps.Runner, deps.Queue, deps.Logs)
	sourceHandler := handler.NewSourceHandler(deps.Sources, deps.Jobs)
	jobHandler := handler.NewJobHandler(deps.Jobs)
	prefsHandler := handler.NewPreferencesHandler(deps.Users)

	r.GET("/health", healthHandler.Health)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.Auth(deps.Tokens))
	{
		// Sync
		v1.POST("/sync", syncHandler.Trigger)
		v1.GET("/sync/logs", syncHandler.ListLogs)

		// Sources
		v1.GET("/sources", sourceHandler.List)

		// Jobs
		v1.GET("/jobs", jobHandler.List)
		v1.PATCH("/jobs/:id/status", jobHandler.UpdateStatus)

		// Preferences
		v1.GET("/preferences", prefsHandler.Get)
		v1.PUT("/preferences", prefsHandler.Update)
	}

	return r
}
