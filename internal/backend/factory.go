package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"debtplan/internal/amqp"
	"debtplan/internal/cache"
	"debtplan/internal/core"
	"debtplan/internal/log"
	gsheet "debtplan/internal/sheets/google"
	"debtplan/internal/storage"
	"debtplan/internal/storage/memory"
)

const (
	planCachePrefix  = "debtplan:plan:"
	defaultCacheTTL  = 10 * time.Minute
	defaultCacheSize = 1000
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.FromContext(context.Background())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend builds the repository, the plan cache, the optional AMQP
// client and the optional plan exporter. On error everything created so far
// is released.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (_ *Result, err error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var cleanups []CleanupFunc
	cleanupAll := func() error {
		var errs []error
		for i := len(cleanups) - 1; i >= 0; i-- {
			if err := cleanups[i](); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
	defer func() {
		if err != nil {
			_ = cleanupAll()
		}
	}()

	res := &Result{Cleanup: cleanupAll}

	repo, err := f.createRepository(config)
	if err != nil {
		return nil, err
	}
	res.Repository = repo
	cleanups = append(cleanups, repo.Close)

	plans, cleanup, err := f.createPlanCache(ctx, config)
	if err != nil {
		return nil, err
	}
	res.Plans = plans
	if cleanup != nil {
		cleanups = append(cleanups, cleanup)
	}

	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			if config.RequireAMQP {
				return nil, fmt.Errorf("failed to initialize AMQP client: %w", err)
			}
			f.logger.Warn("Failed to initialize AMQP client, continuing without recalculation messages", "error", err)
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
			res.AMQP = client
			cleanups = append(cleanups, client.Close)
		}
	}

	if config.GoogleSpreadsheetID != "" {
		exporter, err := gsheet.New(ctx, gsheet.Config{
			SpreadsheetID:   config.GoogleSpreadsheetID,
			SheetName:       config.GooglePlanSheetName,
			CredentialsJSON: config.GoogleServiceAccountJSON,
			CredentialsFile: config.GoogleServiceAccountFile,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets exporter: %w", err)
		}
		res.Exporter = exporter
	}

	return res, nil
}

func (f *DefaultFactory) createRepository(config Config) (storage.Repository, error) {
	switch config.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
		return repo, nil
	case MemoryBackend:
		f.logger.Info("Initialized memory backend")
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

// createPlanCache returns the plan cache and the function stopping it.
func (f *DefaultFactory) createPlanCache(ctx context.Context, config Config) (cache.Store[core.PayoffPlan], CleanupFunc, error) {
	ttl, size := config.CacheTTL, config.CacheSize
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if size <= 0 {
		size = defaultCacheSize
	}

	if config.CacheType == RedisCache {
		client := cache.NewRedisClient(config.RedisAddr)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to connect to Redis at %s: %w", config.RedisAddr, err)
		}
		f.logger.Info("Initialized Redis plan cache", "addr", config.RedisAddr, "ttl", ttl)
		return cache.NewRedisStore[core.PayoffPlan](client, planCachePrefix, ttl), client.Close, nil
	}

	lru := cache.NewLRUCache[core.PayoffPlan](size, ttl)
	manager := cache.NewManager()
	manager.Register(lru)
	manager.StartCleanup(ttl)
	f.logger.Info("Initialized in-memory plan cache", "size", size, "ttl", ttl)
	return lru, func() error {
		manager.Stop()
		return nil
	}, nil
}
