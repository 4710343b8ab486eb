package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/account-service/internal/identity"
	"github.com/spec-kit/account-service/internal/persistence"
	"github.com/spec-kit/account-service/internal/repository"
	apperrors "github.com/spec-kit/account-service/pkg/util"
)

// IdentityService answers identity lookups by projecting user records
// through the role mapper registry. Projections are cached in Redis for a
// short TTL; cache trouble is logged and bypassed, never surfaced.
type IdentityService struct {
	users    repository.UserStore
	registry *identity.Registry
	cache    *persistence.Redis
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewIdentityService builds the service. cache may be nil to disable caching.
func NewIdentityService(users repository.UserStore, registry *identity.Registry, cache *persistence.Redis, cacheTTL time.Duration, logger *zap.Logger) *IdentityService {
	return &IdentityService{
		users:    users,
		registry: registry,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// UserData resolves the user and returns its role-shaped projection.
func (s *IdentityService) UserData(ctx context.Context, userID string, includeProfile bool) (identity.UserData, error) {
	key := cacheKey(userID, includeProfile)

	if cached, ok := s.cacheGet(ctx, key); ok {
		return cached, nil
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return identity.UserData{}, apperrors.NewNotFound("user", map[string]any{"id": userID})
		}
		return identity.UserData{}, apperrors.MapError(err)
	}

	data, ok := s.registry.UserData(user, includeProfile)
	if !ok {
		return identity.UserData{}, apperrors.NewNotFound("identity mapping", map[string]any{"role": user.Role})
	}

	s.cacheSet(ctx, key, data)
	return data, nil
}

func cacheKey(userID string, includeProfile bool) string {
	return fmt.Sprintf("identity:user:%s:%t", userID, includeProfile)
}

func (s *IdentityService) cacheGet(ctx context.Context, key string) (identity.UserData, bool) {
	if s.cache == nil || s.cache.Client == nil {
		return identity.UserData{}, false
	}

	raw, err := s.cache.Client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Debug("identity cache read failed", zap.Error(err))
		}
		return identity.UserData{}, false
	}

	var data identity.UserData
	if err := json.Unmarshal(raw, &data); err != nil {
		s.logger.Debug("identity cache entry corrupt", zap.String("key", key), zap.Error(err))
		return identity.UserData{}, false
	}
	return data, true
}

func (s *IdentityService) cacheSet(ctx context.Context, key string, data identity.UserData) {
	if s.cache == nil || s.cache.Client == nil {
		return
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	if err := s.cache.Client.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Debug("identity cache write failed", zap.Error(err))
	}
}
