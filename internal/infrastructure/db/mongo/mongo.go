package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	defaultTimeout = 10 * time.Second
	appName        = "opsdesk-platform"
)

// Config holds the connection settings for the identity and orders database.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Store owns the client and exposes the users and orders collections. Users and
// orders share one database, so a token issued by the users service resolves
// in the orders service.
type Store struct {
	client *mongo.Client
	Users  *UserStore
	Orders *OrderRepository
}

// Open connects, pings the primary and creates the unique and sort indexes the
// stores rely on. The client is disconnected again if any step fails.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongo: empty URI")
	}
	if cfg.Database == "" {
		return nil, errors.New("mongo: empty database name")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	openCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetServerSelectionTimeout(timeout)
	client, err := mongo.Connect(openCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(openCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(openCtx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	s := &Store{
		client: client,
		Users:  NewUserStore(db),
		Orders: NewOrderRepository(db),
	}
	if err := s.Users.EnsureIndexes(openCtx); err != nil {
		_ = client.Disconnect(openCtx)
		return nil, fmt.Errorf("users indexes: %w", err)
	}
	if err := s.Orders.EnsureIndexes(openCtx); err != nil {
		_ = client.Disconnect(openCtx)
		return nil, fmt.Errorf("orders indexes: %w", err)
	}
	return s, nil
}

// Ping is used as the readiness check.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
