package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-monolith/mono/pkg/storage"
	"github.com/gofiber/storage/redis/v3"
)

// RedisStore keeps sessions in Redis with a per-key TTL.
type RedisStore struct {
	storage storage.Storage
	prefix  string
	addr    string
	now     func() time.Time
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore connects to Redis at addr ("host:port"). An unreachable
// server is reported as an error.
func NewRedisStore(addr, prefix string) (*RedisStore, error) {
	s, err := dialRedis(addr)
	if err != nil {
		return nil, err
	}
	return NewRedisStoreWithStorage(s, addr, prefix), nil
}

// dialRedis builds the storage backend. redis.New pings the server and
// panics when that fails.
func dialRedis(addr string) (s storage.Storage, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to connect to redis at %s: %v", addr, r)
		}
	}()
	host, port := parseRedisAddr(addr)
	return redis.New(redis.Config{
		Host:     host,
		Port:     port,
		PoolSize: 20,
	}), nil
}

// NewRedisStoreWithStorage wraps an existing storage backend.
func NewRedisStoreWithStorage(s storage.Storage, addr, prefix string) *RedisStore {
	return &RedisStore{
		storage: s,
		prefix:  prefix,
		addr:    addr,
		now:     time.Now,
	}
}

// Save stores the record until it expires.
func (s *RedisStore) Save(ctx context.Context, record *Record) error {
	ttl := record.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", record.ID)
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.storage.SetWithContext(ctx, s.prefix+record.ID, data, ttl); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Find loads a live record.
func (s *RedisStore) Find(ctx context.Context, id string) (*Record, error) {
	data, err := s.storage.GetWithContext(ctx, s.prefix+id)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if data == nil {
		return nil, ErrSessionNotFound
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	if record.Expired(s.now()) {
		return nil, ErrSessionNotFound
	}
	return &record, nil
}

// Delete removes a record by id.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.storage.DeleteWithContext(ctx, s.prefix+id)
}

// Ping checks Redis with a read of a key that never exists.
func (s *RedisStore) Ping(ctx context.Context) error {
	_, err := s.storage.GetWithContext(ctx, s.prefix+"__health_check__")
	return err
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.storage.Close()
}

// Kind names the backend.
func (s *RedisStore) Kind() string {
	return "redis"
}

// parseRedisAddr parses "host:port", defaulting to 127.0.0.1:6379.
func parseRedisAddr(addr string) (string, int) {
	const defaultHost = "127.0.0.1"
	const defaultPort = 6379

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return defaultHost, defaultPort
	}
	if host == "" {
		host = defaultHost
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = defaultPort
	}
	return host, port
}
