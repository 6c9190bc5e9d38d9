package config

import "time"

const (
	StoreBackendRedis  = "redis"
	StoreBackendMongo  = "mongo"
	StoreBackendMemory = "memory"

	DefaultStoreBackend = StoreBackendRedis

	DefaultRedisAddr = "localhost:6379"
	DefaultRedisDB   = 0

	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "marquee"
	DefaultMongoCollection   = "kv_records"
	DefaultMongoConnTimeout  = 10 * time.Second

	// How long a seat stays locked when the client never completes the
	// reservation. Expiry is enforced by the store itself.
	DefaultLockLease = 300 * time.Second

	DefaultCatalogID = "main"

	DefaultKafkaTopic = "reservation-events"

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRequestTimeout  = 30 * time.Second
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)
