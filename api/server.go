package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aitoolhub/search-service/analytics"
	"github.com/aitoolhub/search-service/config"
	"github.com/aitoolhub/search-service/db"
	"github.com/aitoolhub/search-service/db/searchdb"
	"github.com/aitoolhub/search-service/embedding"
	"github.com/aitoolhub/search-service/logger"
	"github.com/aitoolhub/search-service/ratelimit"
	"github.com/aitoolhub/search-service/services/search"
	"github.com/aitoolhub/search-service/validation"
	"github.com/redis/go-redis/v9"
)

type server struct {
	router     *gin.Engine
	httpServer *http.Server
	cfg        *config.Config
	searchdb   searchdb.DB
	redis      *redis.Client
	emitter    *analytics.Emitter
	service    *search.Service
	validator  *validation.Validator
	limiter    *ratelimit.Limiter
	logger     logger.Logger
}

func Run(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)

	defer cancel()

	s := &server{
		cfg:    cfg,
		logger: logger.New(),
	}
	if err := s.setupDependencies(ctx); err != nil {
		return err
	}
	s.setupRouter()
	s.setupHTTPServer()
	s.setupGracefulShutdown(ctx)

	return nil
}

func (s *server) setupDependencies(ctx context.Context) error {
	var err error
	s.searchdb, err = searchdb.New(ctx, s.logger, s.cfg)
	if err != nil {
		s.logger.Error("error connecting to search backend", "err", err.Error())
		return err
	}

	var limiterStore ratelimit.Store
	if redisURL := s.cfg.GetRedisURL(); len(redisURL) > 0 {
		s.redis, err = db.NewRedisClient(ctx, redisURL)
		if err != nil {
			s.logger.Error("error connecting to redis", "err", err.Error())
			return err
		}
		limiterStore = ratelimit.NewRedisStore(s.redis)
		s.emitter = analytics.New(s.redis, s.cfg.GetAnalyticsQueue(), nil, s.logger)
	} else {
		s.logger.Warn("redis not configured, using in-process rate limiting and no analytics")
		limiterStore = ratelimit.NewMemoryStore(s.cfg.GetRateLimitMaxKeys())
	}
	s.limiter = ratelimit.New(limiterStore, s.logger)

	var embedder embedding.Embedder
	if host := s.cfg.GetEmbeddingHost(); len(host) > 0 {
		embedder, err = embedding.NewOpenAIEmbedder(host, s.cfg.GetEmbeddingModel(), os.Getenv("EMBEDDING_API_KEY"), s.logger)
		if err != nil {
			s.logger.Error("error creating embedder", "err", err.Error())
			return err
		}
	} else {
		s.logger.Warn("embedding host not configured, semantic search disabled")
	}

	s.validator, err = validation.New(s.logger)
	if err != nil {
		s.logger.Error("error creating validator", "err", err.Error())
		return err
	}

	s.service = search.New(s.logger, s.searchdb, embedder, s.emitter,
		s.cfg.GetSimilarityThreshold(),
		time.Duration(s.cfg.GetEmbedTimeoutMS())*time.Millisecond)

	return nil
}

func (s *server) setupRouter() {
	router := newRouter(s.logger)

	setupRoutes(router, s.logger, s.service, s.validator, s.limiter)

	s.router = router
}

func (s *server) setupHTTPServer() {

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", s.cfg.GetPort()),
		Handler: s.router.Handler(),
	}
	s.httpServer = httpServer
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()
}

func (s *server) setupGracefulShutdown(ctx context.Context) {

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		s.logger.Info("starting to shut down http server")
		shutdownCtx := context.Background()
		shutdownCtx, cancel := context.WithTimeout(shutdownCtx, 10*time.Second)
		defer cancel()
		if s.emitter != nil {
			s.emitter.Flush()
		}
		s.searchdb.Close()
		if s.redis != nil {
			s.redis.Close()
		}
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error shutting down http server", "err", err)
			return
		}
		s.logger.Info("shut down http server successfully")
	}()

	wg.Wait()
}
