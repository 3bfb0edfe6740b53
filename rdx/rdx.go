package rdx

import (
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"vitrin/globals"
)

// Conn is nil when REDIS_ADDR is unset; every helper is a no-op then.
// The token cache is best-effort: a dead Redis never fails a request.
var Conn *redis.Client

func Init() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Println("REDIS_ADDR not set; token cache disabled")
		return
	}

	Conn = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})

	if err := Conn.Ping(globals.Ctx).Err(); err != nil {
		log.Printf("Redis ping failed: %v; token cache disabled", err)
		Conn = nil
	}
}

func RdxHset(hash, key, value string) error {
	if Conn == nil {
		return nil
	}
	return Conn.HSet(globals.Ctx, hash, key, value).Err()
}

func RdxHget(hash, key string) (string, error) {
	if Conn == nil {
		return "", redis.Nil
	}
	return Conn.HGet(globals.Ctx, hash, key).Result()
}

func RdxHdel(hash, key string) error {
	if Conn == nil {
		return nil
	}
	return Conn.HDel(globals.Ctx, hash, key).Err()
}

func RdxSet(key, value string, ttl time.Duration) error {
	if Conn == nil {
		return nil
	}
	return Conn.Set(globals.Ctx, key, value, ttl).Err()
}
