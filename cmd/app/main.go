package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	dbadapter "postapi/internal/adapters/database"
	"postapi/internal/adapters/httpapi"
	redisadapter "postapi/internal/adapters/redis"
	"postapi/internal/config"
	postapp "postapi/internal/core/post/service"
	postPort "postapi/internal/ports/post"
	"postapi/internal/workers"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const eventQueueSize = 256

func main() {
	conf, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := config.InitLogger(conf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	if !conf.DotEnvLoaded {
		logger.Info("No .env file found, using system environment variables")
	}

	if err := run(conf, logger); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(conf *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.InitDB(conf, logger)
	if err != nil {
		return err
	}

	redisClient, err := config.InitRedis(ctx, conf.Redis, logger)
	if err != nil {
		closeResources(logger, db, nil)
		return err
	}
	defer closeResources(logger, db, redisClient)

	var publisher postPort.EventPublisher = postPort.NopPublisher{}
	var wg sync.WaitGroup
	workerCtx, cancelWorker := context.WithCancel(context.Background())
	defer func() {
		cancelWorker()
		wg.Wait()
	}()
	if redisClient != nil {
		worker := workers.NewEventWorker(
			redisadapter.NewPostEventPublisherRedis(redisClient, conf.EventsChannel, logger),
			eventQueueSize,
			logger,
		)
		publisher = worker

		wg.Add(1)
		go func() {
			defer wg.Done()
			worker.Run(workerCtx)
		}()
	}

	if !conf.Development() {
		gin.SetMode(gin.ReleaseMode)
	}

	postRepo := dbadapter.NewPostRepositoryDatabase(db)
	postSvc := postapp.NewPostService(postRepo, publisher, logger)
	r := httpapi.SetupRoutes(postSvc, logger)

	srv := &http.Server{
		Addr:    fmt.Sprintf("0.0.0.0:%d", conf.Port),
		Handler: r,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("App is running...", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("timeout", conf.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), conf.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// closeResources closes the Redis and database connections.
func closeResources(logger *zap.Logger, db *gorm.DB, redisClient *redis.Client) {
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Error closing Redis connection", zap.Error(err))
		}
	}

	if err := config.CloseDB(db); err != nil {
		logger.Error("Error closing database connection", zap.Error(err))
	}
}
