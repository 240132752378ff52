package sequence

import (
	"context"
	"fmt"

	"explorerhub/config"

	redis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// NewStore builds the backend named by cfg.SequenceBackend. counters is the Mongo
// collection used by the "mongo" backend; the other backends ignore it.
func NewStore(ctx context.Context, cfg *config.Configuration, counters *mongo.Collection) (Store, error) {
	switch cfg.SequenceBackend {
	case config.SequenceBackendMongo, "":
		if counters == nil {
			return nil, fmt.Errorf("mongo sequence backend needs the counters collection")
		}
		return NewMongoStore(counters), nil

	case config.SequenceBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis_Addr,
			Password: cfg.Redis_Password,
			DB:       cfg.Redis_DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("ping redis %s: %w", cfg.Redis_Addr, err)
		}
		return NewRedisStore(client, ""), nil

	case config.SequenceBackendDynamoDB:
		client, err := NewDynamoClient(ctx, cfg.AWS_Region, cfg.DynamoDB_Endpoint)
		if err != nil {
			return nil, err
		}
		store := NewDynamoStore(client, cfg.DynamoDB_CounterTable)
		if err := store.EnsureTable(ctx); err != nil {
			return nil, fmt.Errorf("dynamodb counter table: %w", err)
		}
		return store, nil

	case config.SequenceBackendSQLite:
		return NewSQLiteStore(cfg.SQLite_CounterPath)

	default:
		return nil, fmt.Errorf("unknown sequence backend: %q (supported: mongo, redis, dynamodb, sqlite)", cfg.SequenceBackend)
	}
}
