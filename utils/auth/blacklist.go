package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/hosteldesk/hostel-api/model"
	"github.com/hosteldesk/hostel-api/utils/cache"
	"gorm.io/gorm"
)

// BlacklistService revokes JWTs by JTI. The database row is the source of
// truth; Redis, when available, answers the per-request revocation check
// without a query. A nil cache degrades to database-only.
type BlacklistService struct {
	db    *gorm.DB
	redis *cache.RedisCache
}

func NewBlacklistService(db *gorm.DB, redis *cache.RedisCache) *BlacklistService {
	return &BlacklistService{db: db, redis: redis}
}

func revocationKey(jti string) string {
	return fmt.Sprintf("blacklist:jti:%s", jti)
}

// RevokeToken records the JTI until the token's natural expiry
func (s *BlacklistService) RevokeToken(ctx context.Context, jti string, userID uint, expiresAt time.Time, reason string) error {
	entry := model.JWTTokenBlacklist{
		JTI:       jti,
		UserID:    userID,
		Reason:    reason,
		ExpiresAt: expiresAt,
	}

	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return err
	}

	if s.redis != nil {
		if ttl := time.Until(expiresAt); ttl > 0 {
			if err := s.redis.Set(ctx, revocationKey(jti), reason, ttl); err != nil {
				// Cache miss path still catches the revocation via the DB
				return nil
			}
		}
	}

	return nil
}

// IsTokenRevoked answers from Redis when it can, falling back to the
// blacklist table
func (s *BlacklistService) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	if s.redis != nil {
		if found, err := s.redis.Exists(ctx, revocationKey(jti)); err == nil && found {
			return true, nil
		}
	}

	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.JWTTokenBlacklist{}).
		Where("jti = ? AND expires_at > ?", jti, time.Now()).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// RevokeAllUserTokens bumps the account's token version, invalidating every
// token minted before the bump regardless of JTI
func (s *BlacklistService) RevokeAllUserTokens(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		UpdateColumn("token_version", gorm.Expr("token_version + ?", 1)).
		Error
}

// CleanupExpiredTokens drops rows whose token has expired on its own
func (s *BlacklistService) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&model.JWTTokenBlacklist{})
	return result.RowsAffected, result.Error
}
