package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wolfman30/synapse-clinic-hub/internal/accounts"
	"github.com/wolfman30/synapse-clinic-hub/internal/appointments"
	appconfig "github.com/wolfman30/synapse-clinic-hub/internal/config"
	"github.com/wolfman30/synapse-clinic-hub/internal/session"
	"github.com/wolfman30/synapse-clinic-hub/pkg/logging"
)

const connectTimeout = 10 * time.Second

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// BuildSessionStore keeps session slots in Redis when a client is given.
func BuildSessionStore(client *redis.Client, ttl time.Duration) session.Store {
	if client == nil {
		return session.NewMemoryStore()
	}
	return session.NewRedisStore(client, ttl)
}

// ConnectMongo opens the users database client, or returns nil when no URI
// is configured or the server is unreachable.
func ConnectMongo(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) *mongo.Client {
	if cfg == nil || strings.TrimSpace(cfg.MongoURI) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Warn("mongo connect failed", "error", err)
		return nil
	}
	if err := client.Ping(ctx, nil); err != nil {
		logger.Warn("mongo not available", "error", err)
		_ = client.Disconnect(context.Background())
		return nil
	}
	return client
}

// BuildAccountsRepository uses MongoDB when a client is given.
func BuildAccountsRepository(ctx context.Context, client *mongo.Client, cfg *appconfig.Config, logger *logging.Logger) accounts.Repository {
	if client == nil || cfg == nil {
		return accounts.NewInMemoryRepository()
	}
	if logger == nil {
		logger = logging.Default()
	}
	repo := accounts.NewMongoRepository(client.Database(cfg.MongoDatabase))
	if err := repo.EnsureIndexes(ctx); err != nil {
		logger.Warn("users index setup failed", "error", err)
	}
	return repo
}

// ConnectPostgres opens the appointments pool, or returns nil when no URL is
// configured or the database is unreachable.
func ConnectPostgres(ctx context.Context, databaseURL string, logger *logging.Logger) *pgxpool.Pool {
	if strings.TrimSpace(databaseURL) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		logger.Warn("postgres pool init failed", "error", err)
		return nil
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Warn("postgres not available", "error", err)
		pool.Close()
		return nil
	}
	return pool
}

// BuildAppointmentsRepository uses Postgres when a pool is given.
func BuildAppointmentsRepository(pool *pgxpool.Pool) appointments.Repository {
	if pool == nil {
		return appointments.NewInMemoryRepository()
	}
	return appointments.NewPostgresRepository(pool)
}
