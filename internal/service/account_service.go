package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/account-service/internal/auth"
	"github.com/spec-kit/account-service/internal/config"
	"github.com/spec-kit/account-service/internal/domain"
	"github.com/spec-kit/account-service/internal/events"
	"github.com/spec-kit/account-service/internal/repository"
	apperrors "github.com/spec-kit/account-service/pkg/util"
)

// RevocationQueue accepts tokens for asynchronous blacklisting. Enqueue
// reports whether the token was accepted; a full queue is not an error the
// caller sees.
type RevocationQueue interface {
	Enqueue(token string) bool
}

// AccountService coordinates registration, login, logout and token refresh.
// It owns no cryptographic or storage state itself.
type AccountService struct {
	users       repository.UserStore
	tokens      *auth.TokenService
	revocations RevocationQueue
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	bcryptCost  int
}

// AccountDependencies bundles collaborator requirements.
type AccountDependencies struct {
	UserStore   repository.UserStore
	Tokens      *auth.TokenService
	Revocations RevocationQueue
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewAccountService builds the service.
func NewAccountService(cfg config.AuthConfig, deps AccountDependencies) *AccountService {
	return &AccountService{
		users:       deps.UserStore,
		tokens:      deps.Tokens,
		revocations: deps.Revocations,
		dispatcher:  deps.Dispatcher,
		logger:      deps.Logger,
		bcryptCost:  cfg.BcryptCost,
	}
}

// RegisterInput carries a role-specific registration request. Address is
// used by customers and technicians; Experience is mandatory for
// technicians only.
type RegisterInput struct {
	Role                 domain.UserRole
	FullName             string
	Email                string
	Phone                string
	Password             string
	PasswordConfirmation string
	Address              string
	Experience           string
}

// Register creates a new account after uniqueness and input checks.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if !in.Role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": in.Role})
	}
	if in.Password == "" || in.Password != in.PasswordConfirmation {
		return nil, apperrors.NewValidationError("password confirmation does not match", nil)
	}
	if in.Role == domain.RoleTechnician && strings.TrimSpace(in.Experience) == "" {
		return nil, apperrors.NewValidationError("experience required for technicians", nil)
	}

	exists, err := s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if exists {
		return nil, apperrors.NewUserAlreadyExists(in.Email)
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	var user *domain.User
	switch in.Role {
	case domain.RoleAdmin:
		user, err = domain.NewAdmin(in.FullName, in.Email, in.Phone, hash)
	case domain.RoleCustomer:
		user, err = domain.NewCustomer(in.FullName, in.Email, in.Phone, hash, in.Address)
	case domain.RoleTechnician:
		user, err = domain.NewTechnician(in.FullName, in.Email, in.Phone, hash, in.Address, in.Experience)
	}
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventUserRegistered, user.ID, events.UserRegisteredPayload{
		Role:  user.Role,
		Email: user.Email,
	})
	return user, nil
}

// Login verifies credentials and issues a token pair. Any failure collapses
// to invalid-credentials so callers cannot tell which part was wrong.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.User, auth.TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, auth.TokenPair{}, apperrors.NewInvalidCredentials()
		}
		return nil, auth.TokenPair{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, auth.TokenPair{}, apperrors.NewInvalidCredentials()
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, auth.TokenPair{}, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.EventUserLoggedIn, user.ID, events.UserLoggedInPayload{Email: user.Email})
	return user, pair, nil
}

// Logout accepts the raw Authorization value, strips a bearer prefix when
// present and hands the token to the revocation queue. The caller's logout
// is complete once accepted; blacklisting happens out of band and a failure
// there is logged, never surfaced.
func (s *AccountService) Logout(_ context.Context, authorization string) {
	token := strings.TrimSpace(authorization)
	if len(token) >= 7 && strings.EqualFold(token[:7], "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	if token == "" {
		return
	}
	if !s.revocations.Enqueue(token) {
		s.logger.Warn("revocation queue full; token will remain valid until natural expiry")
	}
}

// Refresh exchanges a valid refresh token for a new pair.
func (s *AccountService) Refresh(_ context.Context, refreshToken string) (auth.TokenPair, error) {
	pair, err := s.tokens.RefreshTokens(refreshToken)
	if err != nil {
		return auth.TokenPair{}, apperrors.NewAuthenticationFailed()
	}
	return pair, nil
}

func (s *AccountService) issuePair(user *domain.User) (auth.TokenPair, error) {
	claims := map[string]any{
		auth.ClaimRole:     string(user.Role),
		auth.ClaimUserID:   user.ID,
		auth.ClaimFullName: user.FullName,
	}

	access, accessExp, err := s.tokens.GenerateAccessToken(user.Email, claims)
	if err != nil {
		return auth.TokenPair{}, err
	}
	refresh, refreshExp, err := s.tokens.GenerateRefreshToken(user.Email, claims)
	if err != nil {
		return auth.TokenPair{}, err
	}

	return auth.TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (s *AccountService) publish(ctx context.Context, eventType events.EventType, userID string, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
