package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"chat-core/internal/cache"
	"chat-core/internal/config"
	"chat-core/internal/db"
	"chat-core/internal/grpcserver"
	"chat-core/internal/handlers"
	"chat-core/internal/middleware"
	"chat-core/internal/observability"
	"chat-core/internal/rabbitmq"
	"chat-core/internal/repositories"
	"chat-core/internal/services"
	"chat-core/internal/telemetry"
)

const serviceName = "chat-core"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("chat-core stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, serviceName, cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer shutdownTracing(context.Background())

	database, err := db.Connect(ctx, cfg.DBDriver, cfg.DBDSN, logger)
	if err != nil {
		return err
	}
	defer database.Close()

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger)
	defer publisher.Close()
	logger.Info("event publisher ready",
		zap.String("mode", rabbitmq.PublisherMode(publisher)),
		zap.String("noop_reason", rabbitmq.PublisherNoopReason(publisher)),
	)
	auditEmitter := telemetry.NewAuditEmitter(publisher, cfg.AuditRoutingKey, serviceName, cfg.Environment, logger)

	summaryCache, closeCache := newSummaryCache(cfg, logger)
	defer closeCache()

	media, err := services.NewMediaResolver(cfg.MediaBaseURL)
	if err != nil {
		return err
	}

	userRepo := repositories.NewUserRepo(database)
	serverRepo := repositories.NewServerRepo(database)
	roleRepo := repositories.NewRoleRepo(database)
	conversationRepo := repositories.NewConversationRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	reactionRepo := repositories.NewReactionRepo(database)
	friendRepo := repositories.NewFriendRepo(database)

	authors := services.NewAuthorResolver(userRepo, serverRepo, media)
	threads := services.NewCachedSummarizer(services.NewReplySummarizer(messageRepo, authors), summaryCache, logger)
	permissions := services.NewPermissionService(serverRepo, roleRepo)

	routes := handlers.Routes{
		Users: handlers.NewUserHandler(services.NewUserService(userRepo), auditEmitter, logger),
		Messages: handlers.NewMessageHandler(
			services.NewMessageService(messageRepo, conversationRepo, serverRepo, friendRepo, threads, publisher, logger),
			services.NewAssembler(messageRepo, reactionRepo, conversationRepo, serverRepo, authors, threads, media, logger),
			services.NewReactionService(messageRepo, reactionRepo, conversationRepo, serverRepo, friendRepo, publisher, logger),
			auditEmitter,
			logger,
		),
		Conversations: handlers.NewConversationHandler(
			services.NewConversationService(conversationRepo, serverRepo, userRepo, friendRepo, publisher, logger),
			permissions,
			auditEmitter,
			logger,
		),
		Servers: handlers.NewServerHandler(
			services.NewServerService(serverRepo, roleRepo, permissions, publisher, logger),
			services.NewRoleService(roleRepo, serverRepo, permissions),
			auditEmitter,
			logger,
		),
		Friends: handlers.NewFriendHandler(services.NewFriendService(friendRepo, userRepo), auditEmitter, logger),
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		otelgin.Middleware(serviceName),
		observability.HTTPMetricsMiddleware(),
		middleware.AccessLog(logger),
	)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterDebugRoutes(router, auditEmitter, cfg.DebugRoutes)
	routes.Register(router, middleware.AuthMiddleware())

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	grpcServer := grpcserver.New(logger)
	grpcListener, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return grpcServer.Serve(gctx, grpcListener)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	grpcServer.SetServing(true)
	return g.Wait()
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	if cfg.Environment != "production" {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = level
	return zcfg.Build(zap.Fields(zap.String("service", serviceName), zap.String("env", cfg.Environment)))
}

// newSummaryCache prefers Redis and falls back to process memory when it is
// not configured or not reachable at startup.
func newSummaryCache(cfg config.Config, logger *zap.Logger) (services.SummaryCache, func()) {
	if cfg.RedisAddr == "" {
		logger.Info("thread summaries cached in memory")
		return cache.NewLocalSummaryCache(cfg.SummaryCacheSize, cfg.SummaryTTL), func() {}
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unreachable, caching thread summaries in memory", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		client.Close()
		return cache.NewLocalSummaryCache(cfg.SummaryCacheSize, cfg.SummaryTTL), func() {}
	}
	logger.Info("thread summaries cached in redis", zap.String("addr", cfg.RedisAddr))
	return cache.NewRedisSummaryCache(client, cfg.SummaryTTL, logger), func() { client.Close() }
}
