package config

import (
	"os"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr        string
	DatabaseURL string
	RedisURL    string
}

// ProductCacheTTL bounds how long a cached product read shape may lag a
// write that bypassed this process.
var ProductCacheTTL = 5 * time.Minute

// FromEnv builds a Server config from environment variables so main stays
// lean. DatabaseURL empty selects the in-memory backend; RedisURL empty
// disables the product cache.
func FromEnv() Server {
	addr := os.Getenv("SUBHUB_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Server{
		Addr:        addr,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
	}
}
