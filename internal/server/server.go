// Package server assembles repositories, services and routes into the HTTP
// application.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	applicationRepository "github.com/festy23/workmatch/internal/application/repository"
	applicationService "github.com/festy23/workmatch/internal/application/service"
	"github.com/festy23/workmatch/internal/authz"
	"github.com/festy23/workmatch/internal/clock"
	"github.com/festy23/workmatch/internal/config"
	"github.com/festy23/workmatch/internal/health"
	interviewHandler "github.com/festy23/workmatch/internal/interview/handler"
	interviewRepository "github.com/festy23/workmatch/internal/interview/repository"
	interviewRouter "github.com/festy23/workmatch/internal/interview/router"
	interviewService "github.com/festy23/workmatch/internal/interview/service"
	"github.com/festy23/workmatch/internal/lock"
	matchingHandler "github.com/festy23/workmatch/internal/matching/handler"
	matchingRouter "github.com/festy23/workmatch/internal/matching/router"
	matchingService "github.com/festy23/workmatch/internal/matching/service"
	memberHandler "github.com/festy23/workmatch/internal/member/handler"
	memberRepository "github.com/festy23/workmatch/internal/member/repository"
	memberRouter "github.com/festy23/workmatch/internal/member/router"
	memberService "github.com/festy23/workmatch/internal/member/service"
	"github.com/festy23/workmatch/internal/metrics"
	"github.com/festy23/workmatch/internal/middleware"
	postRepository "github.com/festy23/workmatch/internal/post/repository"
	recRepository "github.com/festy23/workmatch/internal/recommendation/repository"
	recService "github.com/festy23/workmatch/internal/recommendation/service"
	statisticsHandler "github.com/festy23/workmatch/internal/statistics/handler"
	statisticsRepository "github.com/festy23/workmatch/internal/statistics/repository"
	statisticsRouter "github.com/festy23/workmatch/internal/statistics/router"
	statisticsService "github.com/festy23/workmatch/internal/statistics/service"
	teamHandler "github.com/festy23/workmatch/internal/team/handler"
	teamRepository "github.com/festy23/workmatch/internal/team/repository"
	teamRouter "github.com/festy23/workmatch/internal/team/router"
	teamService "github.com/festy23/workmatch/internal/team/service"
	"github.com/festy23/workmatch/pkg/logger"
)

// Deps carries the infrastructure the application is built from. Redis,
// Selector and Metrics may be nil.
type Deps struct {
	DB       *gorm.DB
	Redis    redis.UniversalClient
	Node     *snowflake.Node
	Clock    clock.Clock
	Matching *config.MatchingConfigHolder
	Selector recService.CandidateSelector
	Metrics  *metrics.Metrics
	Logger   *zap.SugaredLogger
}

// App holds the wired services and the gin engine.
type App struct {
	Assigner recService.Service
	engine   *gin.Engine
	logger   *zap.SugaredLogger
}

// New wires every module and registers its routes.
func New(deps Deps) (*App, error) {
	if deps.DB == nil {
		return nil, errors.New("database connection is nil")
	}
	if deps.Node == nil {
		return nil, errors.New("snowflake node is nil")
	}
	if deps.Clock == nil {
		deps.Clock = clock.System{}
	}
	if deps.Matching == nil {
		deps.Matching = config.NewStaticMatchingConfigHolder(config.DefaultMatchingConfig())
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop().Sugar()
	}
	log := deps.Logger

	posts := postRepository.New(deps.DB)
	members := memberRepository.New(deps.DB)
	teams := teamRepository.New(deps.DB)
	recommendations := recRepository.New(deps.DB)
	applications := applicationRepository.New(deps.DB)

	selector := deps.Selector
	if selector == nil {
		selector = recService.NewFirstNSelector(posts, members, teams)
	}

	var locker lock.Locker
	if deps.Redis != nil {
		locker = lock.NewRedisLocker(deps.Redis)
	}

	assigner := recService.New(recommendations, posts, members, deps.DB, logger.Component(log, "assignment"), recService.Options{
		Selector: selector,
		Config:   deps.Matching,
		Clock:    deps.Clock,
		Node:     deps.Node,
		Locker:   locker,
		Metrics:  deps.Metrics,
	})
	memberSvc := memberService.New(members, logger.Component(log, "member"))
	applicationSvc := applicationService.New(
		applications, posts, deps.DB, logger.Component(log, "application"), deps.Node, deps.Clock, deps.Matching,
	)
	teamSvc := teamService.New(
		teams, members, applicationSvc, deps.DB, logger.Component(log, "team"), deps.Matching, deps.Metrics,
	)
	matchingSvc := matchingService.New(matchingService.Deps{
		Assigner:     assigner,
		Entries:      recommendations,
		Posts:        posts,
		Members:      memberSvc,
		Applications: applicationSvc,
		Teams:        teamSvc,
		Config:       deps.Matching,
	}, logger.Component(log, "matching"))
	interviewSvc := interviewService.New(interviewService.Deps{
		Interviews:      interviewRepository.New(deps.DB),
		Applications:    applications,
		Posts:           posts,
		Recommendations: recommendations,
		Members:         memberSvc,
		Teams:           teams,
		Node:            deps.Node,
		Clock:           deps.Clock,
	}, deps.DB, logger.Component(log, "interview"))
	statisticsSvc := statisticsService.New(
		statisticsRepository.New(deps.DB, logger.Component(log, "statistics")),
		deps.Clock,
		deps.Matching,
		logger.Component(log, "statistics"),
	)

	az, err := authz.New(log)
	if err != nil {
		return nil, fmt.Errorf("failed to build authorizer: %w", err)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Recovery(log),
		middleware.Metrics(deps.Metrics),
	)

	r.GET("/health", health.New(deps.DB, deps.Redis, log).Check)
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	api := r.Group("/", middleware.Identity(accountResolver{members: members, posts: posts}, log))
	matchingRouter.RegisterRoutes(api, matchingHandler.New(matchingSvc, log), az, log)
	interviewRouter.RegisterRoutes(api, interviewHandler.New(interviewSvc, log), az, log)
	teamRouter.RegisterRoutes(api, teamHandler.New(teamSvc, log), az, log)
	memberRouter.RegisterRoutes(api, memberHandler.New(memberSvc, log), az, log)
	statisticsRouter.RegisterRoutes(api, statisticsHandler.New(statisticsSvc, log), az, log)

	return &App{Assigner: assigner, engine: r, logger: log}, nil
}

// Handler returns the HTTP handler of the application.
func (a *App) Handler() http.Handler {
	return a.engine
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context, cfg config.ServerConfig) error {
	srv := &http.Server{
		Addr:         cfg.GetAddress(),
		Handler:      a.engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infow("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Infow("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	return nil
}
