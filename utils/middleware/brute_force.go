package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hosteldesk/hostel-api/utils/cache"
	"github.com/hosteldesk/hostel-api/utils/response"
)

// BruteForceProtection throttles repeated failed logins per client IP.
// State lives in Redis; when Redis is down the login path stays open so an
// outage never locks staff out of the panel.
type BruteForceProtection struct {
	redisCache *cache.RedisCache
}

func NewBruteForceProtection(redisCache *cache.RedisCache) *BruteForceProtection {
	return &BruteForceProtection{
		redisCache: redisCache,
	}
}

func attemptKeyFor(ip string) string {
	return fmt.Sprintf("login:attempts:%s", ip)
}

func lockKeyFor(ip string) string {
	return fmt.Sprintf("login:lock:%s", ip)
}

// CheckAndRecordAttempt rejects requests from an IP that is currently
// locked out, with a Retry-After header
func (b *BruteForceProtection) CheckAndRecordAttempt() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lockKey := lockKeyFor(c.IP())

		locked, err := b.redisCache.Exists(c.Context(), lockKey)
		if err != nil {
			return c.Next()
		}

		if locked {
			ttl, _ := b.redisCache.TTL(c.Context(), lockKey)
			retryAfter := int(ttl.Seconds())
			if retryAfter < 0 {
				retryAfter = 60
			}

			c.Set("Retry-After", fmt.Sprintf("%d", retryAfter))
			return response.TooManyRequests(c, fmt.Sprintf("Too many failed attempts. Try again in %d seconds", retryAfter))
		}

		return c.Next()
	}
}

// RecordFailedAttempt counts a failure and escalates the lockout:
// 5 failures in 15 minutes locks for 2 minutes, 10 for an hour, 25 for a day
func (b *BruteForceProtection) RecordFailedAttempt(c *fiber.Ctx, ip string) error {
	ctx := c.Context()

	attempts, err := b.redisCache.Increment(ctx, attemptKeyFor(ip))
	if err != nil {
		return nil
	}

	if attempts == 1 {
		b.redisCache.Expire(ctx, attemptKeyFor(ip), 15*time.Minute)
	}

	var lockDuration time.Duration
	switch {
	case attempts >= 25:
		lockDuration = 24 * time.Hour
	case attempts >= 10:
		lockDuration = 1 * time.Hour
	case attempts >= 5:
		lockDuration = 2 * time.Minute
	default:
		return nil
	}

	return b.redisCache.Set(ctx, lockKeyFor(ip), "locked", lockDuration)
}

// RecordSuccessfulAttempt clears the IP's counter and any standing lock
func (b *BruteForceProtection) RecordSuccessfulAttempt(c *fiber.Ctx, ip string) error {
	ctx := c.Context()

	b.redisCache.Delete(ctx, attemptKeyFor(ip), lockKeyFor(ip))

	return nil
}
