package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opsdesk/platform/internal/core/domain"
	"github.com/opsdesk/platform/internal/core/ports"
	"github.com/opsdesk/platform/internal/core/service"
	"github.com/opsdesk/platform/internal/infrastructure/db/gormstore"
	"github.com/opsdesk/platform/internal/pkg/config"
	"github.com/opsdesk/platform/internal/pkg/token"
	"github.com/opsdesk/platform/pkg/logger"
)

// platform gateway: public entry point.
var gatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Start the API gateway",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load[config.GatewayConfig](cmd.Context())
		if err != nil {
			return err
		}
		log := initLogger(cfg.Common, "gateway")

		e, err := gatewayServer(cfg, log)
		if err != nil {
			return err
		}
		return serve(cmd.Context(), log, listener{name: "gateway", addr: ":" + cfg.Port, e: e})
	},
}

// platform users: registration, login and identities.
var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Start the users service",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := config.Load[config.UsersConfig](ctx)
		if err != nil {
			return err
		}
		log := initLogger(cfg.Common, "users")

		backend, err := openIdentityBackend(ctx, cfg.StoreDriver, cfg.Mongo, log)
		if err != nil {
			return err
		}
		defer backend.close(context.Background())

		e, cleanup, err := usersServer(ctx, cfg, backend, log)
		if err != nil {
			return err
		}
		defer cleanup()

		return serve(ctx, log, listener{name: "users", addr: ":" + cfg.Port, e: e})
	},
}

// platform orders: order management.
var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Start the orders service",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := config.Load[config.OrdersConfig](ctx)
		if err != nil {
			return err
		}
		log := initLogger(cfg.Common, "orders")

		backend, err := openIdentityBackend(ctx, cfg.StoreDriver, cfg.Mongo, log)
		if err != nil {
			return err
		}
		defer backend.close(context.Background())

		return serve(ctx, log, listener{name: "orders", addr: ":" + cfg.Port, e: ordersServer(cfg, backend, log)})
	},
}

// platform manager: projects and tasks with their own accounts.
var managerCmd = &cobra.Command{
	Use:   "manager",
	Short: "Start the business-manager service",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := config.Load[config.ManagerConfig](ctx)
		if err != nil {
			return err
		}
		log := initLogger(cfg.Common, "manager")

		e, db, err := managerServer(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer func() { _ = gormstore.Close(db) }()
		return serve(ctx, log, listener{name: "manager", addr: ":" + cfg.Port, e: e})
	},
}

// platform all: every service in one process. With STORE_DRIVER=memory the
// users and orders services share one in-memory identity store.
var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Start every service in a single process",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		usersCfg, err := config.Load[config.UsersConfig](ctx)
		if err != nil {
			return err
		}
		ordersCfg, err := config.Load[config.OrdersConfig](ctx)
		if err != nil {
			return err
		}
		managerCfg, err := config.Load[config.ManagerConfig](ctx)
		if err != nil {
			return err
		}
		gatewayCfg, err := config.Load[config.GatewayConfig](ctx)
		if err != nil {
			return err
		}
		base := baseLogger(usersCfg.Common)
		log := logger.ForService(base, "platform")

		backend, err := openIdentityBackend(ctx, usersCfg.StoreDriver, usersCfg.Mongo, log)
		if err != nil {
			return err
		}
		defer backend.close(context.Background())

		usersE, cleanup, err := usersServer(ctx, usersCfg, backend, logger.ForService(base, "users"))
		if err != nil {
			return err
		}
		defer cleanup()

		managerE, db, err := managerServer(ctx, managerCfg, logger.ForService(base, "manager"))
		if err != nil {
			return err
		}
		defer func() { _ = gormstore.Close(db) }()
		gatewayE, err := gatewayServer(gatewayCfg, logger.ForService(base, "gateway"))
		if err != nil {
			return err
		}

		return serve(ctx, log,
			listener{name: "gateway", addr: ":" + gatewayCfg.Port, e: gatewayE},
			listener{name: "users", addr: ":" + usersCfg.Port, e: usersE},
			listener{name: "orders", addr: ":" + ordersCfg.Port, e: ordersServer(ordersCfg, backend, logger.ForService(base, "orders"))},
			listener{name: "manager", addr: ":" + managerCfg.Port, e: managerE},
		)
	},
}

var adminFlags struct {
	username string
	email    string
	password string
}

// platform create-admin: bootstraps an account allowed to enable/disable
// others.
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account in the users store",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := config.Load[config.UsersConfig](ctx)
		if err != nil {
			return err
		}
		log := initLogger(cfg.Common, "users")

		backend, err := openIdentityBackend(ctx, cfg.StoreDriver, cfg.Mongo, log)
		if err != nil {
			return err
		}
		defer backend.close(context.Background())

		auth := service.NewAuthService(backend.users, token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL), nil, log)
		user, err := auth.Register(ctx, ports.RegisterInput{
			Username: adminFlags.username,
			Email:    adminFlags.email,
			Password: adminFlags.password,
			Role:     domain.RoleHead,
			IsAdmin:  true,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "admin %s created (id %s)\n", user.Username, user.ID)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminFlags.username, "username", "admin", "admin username")
	createAdminCmd.Flags().StringVar(&adminFlags.email, "email", "", "admin email")
	createAdminCmd.Flags().StringVar(&adminFlags.password, "password", "", "admin password")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(gatewayCmd, usersCmd, ordersCmd, managerCmd, allCmd, createAdminCmd)
}
