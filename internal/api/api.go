package api

import (
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/gdelafosse/seerrbridge/internal/catalog"
	"github.com/gdelafosse/seerrbridge/internal/history"
	"github.com/gdelafosse/seerrbridge/internal/library"
	"github.com/gdelafosse/seerrbridge/internal/logger"
	"github.com/gdelafosse/seerrbridge/internal/media"
	"github.com/gdelafosse/seerrbridge/internal/seerr"
	"github.com/gdelafosse/seerrbridge/internal/settings"
	"github.com/gdelafosse/seerrbridge/internal/workflow"
)

// Options bundles the dependencies of the HTTP surface
type Options struct {
	Client      *seerr.Client
	Settings    settings.Store
	History     *history.History
	Resolver    library.Resolver
	Images      media.ImageBases
	CORSOrigins []string
	AskFourK    bool

	// DefaultMovieView and DefaultTVView seed the view-mode hints
	// until the store carries a preference
	DefaultMovieView string
	DefaultTVView    string

	// HealthCheck reports database health for the health endpoint
	HealthCheck func() error
}

// Server is the HTTP bridge surface consumed by the host UI
type Server struct {
	router    *gin.Engine
	client    *seerr.Client
	paginator *catalog.Paginator
	engine    *workflow.Engine
	history   *history.History
	settings  settings.Store
	resolver  library.Resolver
	opts      Options
	logger    *logger.Logger
}

// NewServer creates the API server and wires its routes
func NewServer(opts Options) *Server {
	log := logger.AppLogger()

	router := gin.New()
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(log))
	router.Use(recoveryMiddleware(log))

	if len(opts.CORSOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = opts.CORSOrigins
		corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "X-Request-ID")
		router.Use(cors.New(corsConfig))
	}

	s := &Server{
		router:    router,
		client:    opts.Client,
		paginator: catalog.NewPaginator(opts.Client),
		engine:    workflow.NewEngine(opts.Client, noopPrompter{}, noopNotifier{}, false),
		history:   opts.History,
		settings:  opts.Settings,
		resolver:  opts.Resolver,
		opts:      opts,
		logger:    log,
	}

	s.setupRoutes()

	return s
}

// Run starts the API server on the specified port
func (s *Server) Run(port int) error {
	return s.router.Run(fmt.Sprintf(":%d", port))
}

// Router exposes the gin engine, for serving and for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/browse", s.browse)
		v1.GET("/genres", s.genres)

		v1.GET("/search", s.search)
		v1.GET("/search/history", s.searchHistory)
		v1.DELETE("/search/history", s.clearSearchHistory)

		v1.GET("/tv/:id/seasons", s.tvSeasons)
		v1.GET("/tv/:id/season/:n/episodes", s.seasonEpisodes)

		v1.POST("/request", s.createRequest)
		v1.GET("/requests", s.requestProgress)

		v1.GET("/library/resolve", s.resolveLibrary)
	}
}
