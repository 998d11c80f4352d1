package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clearcheck/config"
	"clearcheck/internal/commands"
	"clearcheck/internal/handler"
	"clearcheck/internal/middleware"
	"clearcheck/internal/redis"
	"clearcheck/internal/transport/httpdto"
	"clearcheck/pkg/database"
	"clearcheck/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
}

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

type Handlers struct {
	Order      *handler.OrderHandler
	Clock      *handler.SlaClockHandler
	Projection *handler.ProjectionHandler
}

func New(cfg *config.Config, l *logger.Logger) *Server {
	if cfg.AppMode == ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.AppMode == TestMode {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.AppPort),
			Handler: engine,
		},
		engine: engine,
		config: cfg,
		logger: l,
	}
}

func (s *Server) SetupRoutes(handlers *Handlers, limiter *redis.RateLimiter) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.ErrorHandler(s.logger))

	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "pong"}))
	})

	s.engine.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(); err != nil {
			c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse(err.Error(), "UNHEALTHY"))
			return
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"status": "healthy"}))
	})

	writeLimit := middleware.CommandRateLimitMiddleware(limiter)

	orders := s.engine.Group("/v1/orders")
	{
		orders.POST("", writeLimit, handlers.Order.Create)
		orders.GET("/:id", handlers.Order.GetByID)
		orders.GET("/:id/summary", handlers.Order.GetSummary)
		orders.GET("/:id/clocks", handlers.Clock.ListForOrder)

		orders.POST("/:id/invite", writeLimit, handlers.Order.Invite)
		orders.POST("/:id/intake/start", writeLimit, handlers.Order.StartIntake)
		orders.POST("/:id/intake/submit", writeLimit, handlers.Order.SubmitIntake)

		orders.POST("/:id/ready-for-fulfillment", writeLimit, handlers.Order.Transition(commands.CommandMarkReadyForFulfillment))
		orders.POST("/:id/fulfillment/begin", writeLimit, handlers.Order.Transition(commands.CommandBeginFulfillment))
		orders.POST("/:id/ready-for-report", writeLimit, handlers.Order.Transition(commands.CommandMarkReadyForReport))
		orders.POST("/:id/close", writeLimit, handlers.Order.Transition(commands.CommandCloseOrder))
		orders.POST("/:id/block", writeLimit, handlers.Order.Transition(commands.CommandBlockOrder))
		orders.POST("/:id/resume", writeLimit, handlers.Order.Transition(commands.CommandResumeOrder))
		orders.POST("/:id/cancel", writeLimit, handlers.Order.Transition(commands.CommandCancelOrder))
	}

	s.engine.GET("/v1/order-summaries", handlers.Order.ListSummaries)

	clocks := s.engine.Group("/v1/clocks")
	{
		clocks.POST("", writeLimit, handlers.Clock.Start)
		clocks.GET("/:id", handlers.Clock.GetByID)
		clocks.POST("/:id/pause", writeLimit, handlers.Clock.Pause)
		clocks.POST("/:id/resume", writeLimit, handlers.Clock.Resume)
	}

	s.engine.POST("/v1/projections/:name/run",
		middleware.RebuildRateLimitMiddleware(limiter), handlers.Projection.Run)
}

func (s *Server) Start() error {
	go func() {
		if s.logger != nil {
			s.logger.Infof("Starting the server on port %s...", s.config.AppPort)
		}
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.Errorf("Error in starting the server: %s", err)
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	if s.logger != nil {
		s.logger.Infof("Server is running on :%s", s.config.AppPort)
	}

	<-quit

	if s.logger != nil {
		s.logger.Infof("Quitting signal received.. Shutting down after 5 seconds")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		if s.logger != nil {
			s.logger.Infof("Error in the graceful shutdown of the server: %s", err)
		}
		return err
	}

	if s.logger != nil {
		s.logger.Infof("Server stopped gracefully")
	}

	return nil
}
