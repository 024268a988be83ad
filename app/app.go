package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"gorm.io/gorm"

	messaginggrpc "messaging-service/ddd/adapter/grpc"
	_ "messaging-service/ddd/adapter/http"
	"messaging-service/ddd/infrastructure/database"
	"messaging-service/ddd/infrastructure/database/persistence"
	"messaging-service/internal/resource"
	"messaging-service/pkg/auth"
	"messaging-service/pkg/cache"
	"messaging-service/pkg/config"
	"messaging-service/pkg/grpcutil"
	"messaging-service/pkg/logger"
	"messaging-service/pkg/manager"
	"messaging-service/pkg/middleware"
	"messaging-service/pkg/redisclient"
	"messaging-service/pkg/repository"
)

const serviceName = "messaging-service"

// Run is the entrypoint of messaging-service.
func Run(cfgPath string) {
	fmt.Println("[STARTUP] Starting messaging service...")

	cfg := mustLoadConfig(cfgPath)
	logService := logger.NewLogger(cfg)
	logger.SetGlobalLogger(logService)
	logger.Infof("Messaging service starting config=%s mode=%s", cfgPath, cfg.Server.Mode)

	if cfg.Auth.JWTSecret == "" {
		logger.Fatal("auth.jwt_secret is required")
	}
	if cfg.Auth.ServiceToken == "" {
		logger.Warnf("auth.service_token is empty, /internal routes reject every call")
	}

	logger.Infof("Initializing database connection...")
	db, err := repository.NewDatabase(&cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to initialize database error=%v", err)
	}
	defer db.Close()
	resource.SetMainDB(db.Self)
	if err := migrate(db.Self, cfg); err != nil {
		logger.Fatalf("Failed to migrate database error=%v", err)
	}
	resource.RegisterHealthCheck("database", pingDB(db.Self))
	logger.Infof("Database connected driver=%s", cfg.Database.Driver)

	// Redis 可选：不可用时退回进程内缓存
	identityStore := cache.Store(cache.NewMemoryStore(cfg.Cache.IdentityTTL, nil))
	redisCli, err := redisclient.New(cfg.Redis)
	switch {
	case errors.Is(err, redisclient.ErrDisabled):
		logger.Infof("Redis disabled, identity cache is process-local")
	case err != nil:
		logger.Errorf("Failed to initialize redis, identity cache is process-local error=%v", err)
	default:
		defer func() {
			logger.Infof("Closing Redis client...")
			_ = redisCli.Close()
		}()
		identityStore = cache.NewRedisStore(redisCli.Raw(), serviceName, cfg.Cache.IdentityTTL)
		resource.RegisterHealthCheck("redis", redisCli.Ping)
	}
	resource.SetIdentityCache(identityStore)

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestContextMiddleware(),
		middleware.RequestLogMiddleware(),
		middleware.Metrics(),
	)

	logger.Infof("Registering routes...")
	manager.RegisterAllRoutes(router, routeGuards(db.Self, cfg.Auth))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var (
		grpcServer   *grpc.Server
		grpcListener net.Listener
		grpcAddr     string
	)
	if cfg.GRPC.Port > 0 {
		grpcAddr = fmt.Sprintf("%s:%d", listenHost(cfg), cfg.GRPC.Port)
		grpcListener, err = net.Listen(cfg.GRPC.Network, grpcAddr)
		if err != nil {
			logger.Fatalf("Failed to listen on gRPC port address=%s error=%v", grpcAddr, err)
		}
		grpcServer = grpc.NewServer(
			grpc.ChainUnaryInterceptor(grpcutil.UnaryServerRequestIDInterceptor),
			grpc.MaxRecvMsgSize(cfg.GRPC.MaxRecvMsgSize),
			grpc.MaxSendMsgSize(cfg.GRPC.MaxSendMsgSize),
		)
		healthServer := messaginggrpc.NewHealthServer(resource.HealthChecks, 10*time.Second)
		healthpb.RegisterHealthServer(grpcServer, healthServer)
		go healthServer.Run(ctx)

		go func() {
			if err := grpcServer.Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				logger.Errorf("gRPC server exited unexpectedly error=%v", err)
			}
		}()
		logger.Infof("gRPC health server started address=%s", grpcAddr)
	} else {
		logger.Warnf("gRPC port is not configured, skipping gRPC health server startup")
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("HTTP server starting address=%s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to start HTTP server error=%v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Received shutdown signal, shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if grpcServer != nil {
		logger.Infof("Stopping gRPC server address=%s", grpcAddr)
		grpcServer.GracefulStop()
	}
	if grpcListener != nil {
		_ = grpcListener.Close()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server forced to close error=%v", err)
	}

	logger.Infof("Server exited safely")
	logService.Close()
}

// Migrate creates or updates the service's tables and exits.
func Migrate(cfgPath string) error {
	cfg := mustLoadConfig(cfgPath)
	logService := logger.NewLogger(cfg)
	logger.SetGlobalLogger(logService)
	defer logService.Close()

	db, err := repository.NewDatabase(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := migrate(db.Self, cfg); err != nil {
		return err
	}
	logger.Infof("Migration finished driver=%s", cfg.Database.Driver)
	return nil
}

func migrate(db *gorm.DB, cfg *config.Config) error {
	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	// users 表归身份服务所有，仅本地 sqlite 环境自建
	if cfg.Database.Driver == "sqlite" {
		return database.AutoMigrateDirectory(db)
	}
	return nil
}

// routeGuards 构建鉴权中间件。鉴权直接读库，不走身份缓存，禁用或降级立即生效。
func routeGuards(db *gorm.DB, cfg config.AuthConfig) manager.RouteGuards {
	return manager.RouteGuards{
		Auth:  middleware.Auth(auth.NewHMACVerifier(cfg.JWTSecret), persistence.NewUserDirectory(db, nil)),
		Admin: middleware.Admin(),
		Inner: middleware.ServiceToken(cfg.ServiceToken),
	}
}

func mustLoadConfig(cfgPath string) *config.Config {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("[ERROR] Failed to load config (%s): %v\n", cfgPath, err)
		os.Exit(1)
	}
	config.SetGlobalConfig(cfg)
	return cfg
}

func pingDB(db *gorm.DB) resource.HealthCheck {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

func listenHost(cfg *config.Config) string {
	if cfg.Server.Host == "" {
		return "0.0.0.0"
	}
	return cfg.Server.Host
}

// ResolveConfigPath determines which config file to use.
func ResolveConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	if env := os.Getenv("CONFIG_ENV"); env != "" {
		return fmt.Sprintf("configs/config.%s.yaml", env)
	}
	return "configs/config.dev.yaml"
}
