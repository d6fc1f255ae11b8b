package store

import (
	"context"
	"fmt"
	"time"

	"github.com/pharmalink/backend/internal/domain/shared"
	"github.com/pharmalink/backend/internal/infrastructure/config"
	"github.com/pharmalink/backend/internal/infrastructure/persistence"
	"github.com/pharmalink/backend/internal/infrastructure/telemetry"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Backend is an opened storage backend that stores for each namespace are built on
type Backend struct {
	driver   string
	redis    *redis.Client
	database *persistence.Database
}

// NewMemoryBackend returns a backend that keeps everything in process memory
func NewMemoryBackend() *Backend {
	return &Backend{driver: config.StoreDriverMemory}
}

// NewRedisBackend wraps an existing Redis client
func NewRedisBackend(client *redis.Client) *Backend {
	return &Backend{driver: config.StoreDriverRedis, redis: client}
}

// NewSQLBackend wraps an existing database
func NewSQLBackend(db *persistence.Database) *Backend {
	return &Backend{driver: config.StoreDriverSQL, database: db}
}

// Driver returns the driver name actually in use, after any fallback
func (b *Backend) Driver() string {
	return b.driver
}

// Ping checks that the backend is reachable
func (b *Backend) Ping(ctx context.Context) error {
	switch b.driver {
	case config.StoreDriverRedis:
		return b.redis.Ping(ctx).Err()
	case config.StoreDriverSQL:
		return b.database.Ping()
	}
	return nil
}

// Close releases backend connections
func (b *Backend) Close() error {
	switch b.driver {
	case config.StoreDriverRedis:
		return b.redis.Close()
	case config.StoreDriverSQL:
		return b.database.Close()
	}
	return nil
}

// New builds the store for a namespace on the given backend
func New[T shared.Entity](b *Backend, namespace string, newEntity func() T) shared.KeyedStore[T] {
	switch b.driver {
	case config.StoreDriverRedis:
		return NewRedisStore(b.redis, namespace, newEntity)
	case config.StoreDriverSQL:
		return NewSQLStore(b.database.DB, namespace, newEntity)
	default:
		return NewMemoryStore(namespace, newEntity)
	}
}

// Factory opens the backend selected by configuration
type Factory struct {
	storeConfig         config.StoreConfig
	redisConfig         config.RedisConfig
	databaseConfig      config.DatabaseConfig
	logger              *zap.Logger
	allowMemoryFallback bool
	dbTracing           bool
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithMemoryFallback controls whether to fall back to memory when the configured backend is unreachable
func WithMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowMemoryFallback = allow
	}
}

// WithDBTracing enables OpenTelemetry spans for SQL statements
func WithDBTracing(enabled bool) FactoryOption {
	return func(f *Factory) {
		f.dbTracing = enabled
	}
}

// NewFactory creates a new factory
func NewFactory(cfg *config.Config, opts ...FactoryOption) *Factory {
	f := &Factory{
		storeConfig:         cfg.Store,
		redisConfig:         cfg.Redis,
		databaseConfig:      cfg.Database,
		logger:              zap.NewNop(),
		allowMemoryFallback: cfg.Store.AllowMemoryFallback,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Open connects to the configured backend. When Redis or the database is
// unreachable and fallback is allowed, a memory backend is returned instead.
func (f *Factory) Open(ctx context.Context) (*Backend, error) {
	var (
		backend *Backend
		err     error
	)

	switch f.storeConfig.Driver {
	case config.StoreDriverRedis:
		backend, err = f.openRedis(ctx)
	case config.StoreDriverSQL:
		backend, err = f.openSQL()
	default:
		f.logger.Info("using memory entity store")
		return NewMemoryBackend(), nil
	}

	if err == nil {
		f.logger.Info("using entity store", zap.String("driver", backend.Driver()))
		return backend, nil
	}

	if !f.allowMemoryFallback {
		return nil, fmt.Errorf("%s store unavailable: %w", f.storeConfig.Driver, err)
	}

	f.logger.Warn("Store backend unavailable, falling back to memory entity store. "+
		"Data will not survive a restart or be shared between instances.",
		zap.String("driver", f.storeConfig.Driver),
		zap.Error(err),
	)
	return NewMemoryBackend(), nil
}

func (f *Factory) openRedis(ctx context.Context) (*Backend, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     f.redisConfig.Addr(),
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisBackend(client), nil
}

func (f *Factory) openSQL() (*Backend, error) {
	db, err := persistence.NewDatabase(&f.databaseConfig, f.logger)
	if err != nil {
		return nil, err
	}

	tracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:  f.dbTracing,
		DBSystem: f.databaseConfig.Dialect,
	}, f.logger)
	if err := tracing.Register(db.DB); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to register database tracing: %w", err)
	}

	return NewSQLBackend(db), nil
}
