package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "agendo"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Schedule template: hourly slots over a fixed 09:00-17:00 working window.
	DefaultWorkdayStart    = "09:00"
	DefaultWorkdayEnd      = "17:00"
	DefaultSlotDurationMin = 60

	DefaultAvailabilityCacheTTL  = 10 * time.Minute
	DefaultAvailabilityCacheSize = 100

	DefaultPageSize = 20
	MaxPageSize     = 100
)
