package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/yankaics/OnlineJudge/internal/api"
	"github.com/yankaics/OnlineJudge/internal/config"
	"github.com/yankaics/OnlineJudge/internal/judge"
	"github.com/yankaics/OnlineJudge/internal/repository"
	"github.com/yankaics/OnlineJudge/internal/service"
	"github.com/yankaics/OnlineJudge/internal/websocket"
	"github.com/yankaics/OnlineJudge/pkg/broker"
	"github.com/yankaics/OnlineJudge/pkg/database"
	"github.com/yankaics/OnlineJudge/pkg/distributed"
	jwtutil "github.com/yankaics/OnlineJudge/pkg/jwt"
	"github.com/yankaics/OnlineJudge/pkg/logger"
	"github.com/yankaics/OnlineJudge/pkg/ratelimit"
)

func main() {
	// 설정 로드
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 로거 초기화
	logger.Init(cfg.Env, cfg.LogLevel)
	defer logger.Sync()

	logger.Info("Starting OnlineJudge backend",
		"port", cfg.Port,
		"env", cfg.Env,
		"judgeBroker", cfg.JudgeBroker,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 데이터베이스 연결 + 스키마
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}
	logger.Info("Database connection established")

	// Redis (큐 깊이 카운터, 재채점 락, rate limit, redis 브로커)
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal("Invalid REDIS_URL", "error", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("Failed to connect to redis", "error", err)
	}

	// 채점 큐
	var taskQueue judge.TaskQueue
	switch cfg.JudgeBroker {
	case config.BrokerNATS:
		nc, err := broker.Connect(cfg.NATSURL)
		if err != nil {
			logger.Fatal("Failed to connect to NATS", "error", err)
		}
		defer drain(nc)
		taskQueue = judge.NewNATSTaskQueue(broker.NewPublisher(nc, cfg.JudgeSubject))
	default:
		taskQueue = judge.NewRedisTaskQueue(distributed.NewRedisQueue(redisClient, cfg.JudgeQueueName, cfg.JudgeQueueMaxSize))
	}

	queueLength := distributed.NewRedisCounter(redisClient, cfg.QueueLengthKey)
	dispatcher := judge.NewDispatcher(taskQueue, queueLength, cfg.JudgeDispatchTimeout, logger.Named("judge"))

	// WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run(ctx)

	// Repository
	submissionRepo := repository.NewSubmissionRepository(db)
	problemRepo := repository.NewProblemRepository(db)
	contestRepo := repository.NewContestRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Service
	jwtManager := jwtutil.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	lockTTL := 2*cfg.JudgeDispatchTimeout + time.Second

	submissionService := service.NewSubmissionService(submissionRepo, problemRepo, contestRepo, dispatcher, cfg.MaxCodeLength).
		WithRejudgeLocker(service.NewRedisRejudgeLocker(distributed.NewRedisLockManager(redisClient), lockTTL)).
		WithNotifier(hub)

	router := api.SetupRouter(api.Dependencies{
		Env:                cfg.Env,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		JWTManager:         jwtManager,
		AuthService:        service.NewAuthService(userRepo, jwtManager),
		SubmissionService:  submissionService,
		ContestGate:        service.NewContestGate(contestRepo),
		SubmitLimiter:      ratelimit.NewRedisRateLimiter(redisClient, "ratelimit:submit:", cfg.SubmissionRateLimit, cfg.SubmissionRateWindow),
		QueueDepth:         queueLength,
		Hub:                hub,
	})

	// 서버 설정
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown 대기
	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}

func drain(nc *nats.Conn) {
	if err := nc.Drain(); err != nil {
		logger.Warn("Failed to drain NATS connection", "error", err)
	}
}
