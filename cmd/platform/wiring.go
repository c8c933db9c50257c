package main

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/opsdesk/platform/internal/api"
	"github.com/opsdesk/platform/internal/core/policy"
	"github.com/opsdesk/platform/internal/core/ports"
	"github.com/opsdesk/platform/internal/core/service"
	"github.com/opsdesk/platform/internal/gateway"
	"github.com/opsdesk/platform/internal/infrastructure/db/gormstore"
	"github.com/opsdesk/platform/internal/infrastructure/db/memory"
	mongostore "github.com/opsdesk/platform/internal/infrastructure/db/mongo"
	redisstore "github.com/opsdesk/platform/internal/infrastructure/db/redis"
	"github.com/opsdesk/platform/internal/pkg/config"
	"github.com/opsdesk/platform/internal/pkg/token"
)

// identityBackend holds the stores the users and orders services share.
type identityBackend struct {
	users  ports.CredentialStore
	orders ports.OrderRepository
	checks api.Checks
	close  func(ctx context.Context)
}

func openIdentityBackend(ctx context.Context, driver string, mc config.MongoConfig, log zerolog.Logger) (*identityBackend, error) {
	switch driver {
	case "memory":
		log.Warn().Msg("using in-memory stores; data is lost on exit")
		return &identityBackend{
			users:  memory.NewUserStore(),
			orders: memory.NewOrderStore(),
			checks: api.Checks{},
			close:  func(context.Context) {},
		}, nil

	case "mongo":
		store, err := mongostore.Open(ctx, mongostore.Config{URI: mc.URI, Database: mc.Database})
		if err != nil {
			return nil, err
		}
		log.Info().Str("database", mc.Database).Msg("connected to MongoDB")

		return &identityBackend{
			users:  store.Users,
			orders: store.Orders,
			checks: api.Checks{"mongodb": store.Ping},
			close:  func(ctx context.Context) { _ = store.Close(ctx) },
		}, nil

	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q (supported: mongo, memory)", driver)
	}
}

func usersServer(ctx context.Context, cfg *config.UsersConfig, b *identityBackend, log zerolog.Logger) (*echo.Echo, func(), error) {
	checks := api.Checks{}
	for name, fn := range b.checks {
		checks[name] = fn
	}
	cleanup := func() {}

	var limiter service.LoginLimiter
	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, login throttling disabled")
		} else {
			limiter = redisstore.NewLoginLimiter(rdb, cfg.Login.MaxAttempts, cfg.Login.Window)
			checks["redis"] = redisstore.Check(rdb)
			cleanup = func() { _ = rdb.Close() }
		}
	}

	tokens := token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	auth := service.NewAuthService(b.users, tokens, limiter, log)

	return api.NewUsersRouter(api.UsersDeps{Auth: auth, Log: log, Checks: checks}), cleanup, nil
}

func ordersServer(cfg *config.OrdersConfig, b *identityBackend, log zerolog.Logger) *echo.Echo {
	tokens := token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	// Token subjects resolve against the users collection; no limiter here.
	auth := service.NewAuthService(b.users, tokens, nil, log)

	return api.NewOrdersRouter(api.OrdersDeps{
		Auth:   auth,
		Orders: service.NewOrderService(b.orders, log),
		Log:    log,
		Checks: b.checks,
	})
}

func managerServer(ctx context.Context, cfg *config.ManagerConfig, log zerolog.Logger) (*echo.Echo, *gorm.DB, error) {
	db, err := gormstore.Open(ctx, gormstore.Config{Driver: cfg.DB.Driver, DSN: cfg.DB.DSN})
	if err != nil {
		return nil, nil, err
	}
	log.Info().Str("driver", cfg.DB.Driver).Msg("database ready")

	users := gormstore.NewUserStore(db)
	projects := gormstore.NewProjectStore(db)
	tokens := token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	e := api.NewManagerRouter(api.ManagerDeps{
		Auth:       service.NewAuthService(users, tokens, nil, log),
		Projects:   service.NewProjectService(projects, log),
		Tasks:      service.NewTaskService(gormstore.NewTaskStore(db), projects, users, log),
		Authorizer: policy.ActiveOnly{},
		Log:        log,
		Checks: api.Checks{
			"database": func(ctx context.Context) error { return gormstore.Ping(ctx, db) },
		},
	})
	return e, db, nil
}

func gatewayServer(cfg *config.GatewayConfig, log zerolog.Logger) (*echo.Echo, error) {
	table, err := gateway.Backends(cfg.UsersURL, cfg.OrdersURL, cfg.ManagerURL)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("users", cfg.UsersURL).
		Str("orders", cfg.OrdersURL).
		Str("manager", cfg.ManagerURL).
		Dur("timeout", cfg.Timeout).
		Msg("gateway routes loaded")

	return api.NewGatewayRouter(api.GatewayDeps{
		Proxy: gateway.NewProxy(table, cfg.Timeout, log),
		Log:   log,
	}), nil
}
