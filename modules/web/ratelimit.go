package web

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/NiramayThaker/studemt-hub-atmiya-hackathon/modules/identity"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Verdict is the outcome of one login attempt check.
type Verdict struct {
	Allowed    bool
	RetryAfter time.Duration
}

// LoginThrottle limits sign-in attempts per client IP and account. Every
// attempt inside the window counts, including refused ones, so a client
// that keeps guessing stays locked out until it pauses for a full window.
type LoginThrottle struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

// NewLoginThrottle allows limit attempts per window for each IP and username pair.
func NewLoginThrottle(client *redis.Client, limit int, window time.Duration, prefix string) *LoginThrottle {
	return &LoginThrottle{
		client: client,
		limit:  limit,
		window: window,
		prefix: prefix,
	}
}

// attemptKey scopes attempts to the client and the account it targets.
func (l *LoginThrottle) attemptKey(ip, username string) string {
	return l.prefix + ip + ":" + identity.NormalizeUsername(username)
}

// Attempt records a sign-in attempt and reports whether it may proceed.
func (l *LoginThrottle) Attempt(ctx context.Context, ip, username string) (Verdict, error) {
	key := l.attemptKey(ip, username)
	now := time.Now()

	var count *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(now.Add(-l.window).UnixMilli(), 10))
		pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixMilli()), Member: uuid.NewString()})
		count = pipe.ZCard(ctx, key)
		pipe.PExpire(ctx, key, l.window)
		return nil
	})
	if err != nil {
		return Verdict{}, fmt.Errorf("record login attempt: %w", err)
	}

	n := count.Val()
	if n <= int64(l.limit) {
		return Verdict{Allowed: true}, nil
	}

	// The caller is admitted again once enough attempts age out that the
	// next one lands at the limit.
	idx := n - int64(l.limit)
	oldest, err := l.client.ZRangeWithScores(ctx, key, idx, idx).Result()
	if err != nil {
		return Verdict{}, fmt.Errorf("read login attempts: %w", err)
	}
	verdict := Verdict{RetryAfter: l.window}
	if len(oldest) == 1 {
		expires := time.UnixMilli(int64(oldest[0].Score)).Add(l.window)
		verdict.RetryAfter = expires.Sub(now)
	}
	return verdict, nil
}

// Ping checks the Redis connection.
func (l *LoginThrottle) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (l *LoginThrottle) Close() error {
	return l.client.Close()
}

// Middleware throttles POST sign-in requests. Other methods and Redis
// failures pass through.
func (l *LoginThrottle) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodPost {
			return c.Next()
		}

		verdict, err := l.Attempt(c.UserContext(), c.IP(), c.FormValue("username"))
		if err != nil {
			log.Printf("[web] Warning: login throttle check failed: %v", err)
			return c.Next()
		}
		if verdict.Allowed {
			return c.Next()
		}

		seconds := int(verdict.RetryAfter.Seconds())
		if seconds < 1 {
			seconds = 1
		}
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(seconds))
		return c.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse{
			Error:   "rate_limited",
			Message: fmt.Sprintf("Too many login attempts. Try again in %d seconds.", seconds),
		})
	}
}
