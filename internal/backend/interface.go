package backend

import (
	"context"
	"time"

	"debtplan/internal/amqp"
	"debtplan/internal/cache"
	"debtplan/internal/core"
	"debtplan/internal/sheets"
	"debtplan/internal/storage"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Result bundles everything the binaries build the services from. Optional
// parts are nil when not configured.
type Result struct {
	Repository storage.Repository
	Plans      cache.Store[core.PayoffPlan]
	Exporter   sheets.PlanExporter
	AMQP       *amqp.Client
	Cleanup    CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	SQLiteDBPath string

	// AMQP is optional; RequireAMQP makes a failed connection fatal.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
	RequireAMQP  bool

	CacheType CacheType
	CacheTTL  time.Duration
	CacheSize int
	RedisAddr string

	// Google Sheets plan export, enabled by a spreadsheet id.
	GoogleSpreadsheetID      string
	GooglePlanSheetName      string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// CacheType selects where computed plans are cached.
type CacheType string

const (
	MemoryCache CacheType = "memory"
	RedisCache  CacheType = "redis"
)

func (ct CacheType) IsValid() bool {
	return ct == MemoryCache || ct == RedisCache
}
