package session

import (
	"context"
	"fmt"

	"github.com/matzehuels/exprtree/pkg/config"
)

// Open returns the store selected by cfg.Backend. An empty backend selects
// the in-memory store.
func Open(ctx context.Context, cfg config.SessionConfig) (Store, error) {
	switch cfg.Backend {
	case "", config.BackendMemory:
		return NewMemoryStore(), nil
	case config.BackendFile:
		return NewFileStore(cfg.Dir)
	case config.BackendRedis:
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("session backend redis: redis_addr is not set")
		}
		return NewRedisStore(ctx, cfg.RedisAddr)
	case config.BackendMongo:
		if cfg.MongoURI == "" {
			return nil, fmt.Errorf("session backend mongo: mongo_uri is not set")
		}
		db := cfg.MongoDatabase
		if db == "" {
			db = "exprtree"
		}
		return NewMongoStore(ctx, cfg.MongoURI, db)
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}
}
