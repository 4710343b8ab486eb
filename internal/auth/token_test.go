package auth_test

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/account-service/internal/auth"
	"github.com/spec-kit/account-service/internal/domain"
)

var errNotFound = errors.New("user not found")

type stubUserStore struct {
	users map[string]*domain.User
}

func (s *stubUserStore) FindByID(_ context.Context, id string) (*domain.User, error) {
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, errNotFound
}

func (s *stubUserStore) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, errNotFound
}

func (s *stubUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.FindByEmail(ctx, email)
	return err == nil, nil
}

func (s *stubUserStore) Save(_ context.Context, user *domain.User) error {
	s.users[user.ID] = user
	return nil
}

func newTokenService(t *testing.T, accessTTL, refreshTTL time.Duration, store *stubUserStore) *auth.TokenService {
	t.Helper()
	keys, err := auth.NewKeyProvider(validSecret())
	require.NoError(t, err)
	if store == nil {
		store = &stubUserStore{users: map[string]*domain.User{}}
	}
	return auth.NewTokenService(keys, auth.NewTokenBlacklist(), store, accessTTL, refreshTTL)
}

func standardClaims() map[string]any {
	return map[string]any{
		auth.ClaimRole:     "CUSTOMER",
		auth.ClaimUserID:   uuid.NewString(),
		auth.ClaimFullName: "Jane Doe",
	}
}

func TestGenerateAccessToken_Validates(t *testing.T) {
	svc := newTokenService(t, time.Hour, 24*time.Hour, nil)

	token, expiresAt, err := svc.GenerateAccessToken("a@b.com", standardClaims())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	assert.True(t, svc.ValidateToken(token, auth.TokenKindAccess))
	assert.True(t, svc.ValidateToken(token, ""))
	assert.False(t, svc.ValidateToken(token, auth.TokenKindRefresh))
}

func TestGenerateToken_InvalidArguments(t *testing.T) {
	svc := newTokenService(t, time.Hour, 24*time.Hour, nil)

	_, _, err := svc.GenerateAccessToken("", standardClaims())
	assert.ErrorIs(t, err, auth.ErrInvalidArgument)

	_, _, err = svc.GenerateRefreshToken("a@b.com", nil)
	assert.ErrorIs(t, err, auth.ErrInvalidArgument)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := newTokenService(t, time.Hour, 24*time.Hour, nil)

	assert.False(t, svc.ValidateToken("", ""))
	assert.False(t, svc.ValidateToken("not-a-jwt", ""))
	assert.False(t, svc.ValidateToken("a.b.c", ""))
}

func TestValidateToken_WrongKey(t *testing.T) {
	svc := newTokenService(t, time.Hour, 24*time.Hour, nil)

	otherKey, err := auth.NewKeyProvider(base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef")))
	require.NoError(t, err)
	other := auth.NewTokenService(otherKey, auth.NewTokenBlacklist(), nil, time.Hour, time.Hour)

	token, _, err := other.GenerateAccessToken("a@b.com", standardClaims())
	require.NoError(t, err)

	assert.False(t, svc.ValidateToken(token, auth.TokenKindAccess))
}

func TestValidateToken_Expired(t *testing.T) {
	svc := newTokenService(t, -time.Minute, 24*time.Hour, nil)

	token, _, err := svc.GenerateAccessToken("a@b.com", standardClaims())
	require.NoError(t, err)

	assert.False(t, svc.ValidateToken(token, auth.TokenKindAccess))
}

func TestValidateToken_MissingRequiredClaims(t *testing.T) {
	svc := newTokenService(t, time.Hour, 24*time.Hour, nil)
	key, err := base64.StdEncoding.DecodeString(validSecret())
	require.NoError(t, err)

	// Signed with the right key but minted under a legacy claim shape
	// without role/fullName/userId.
	legacy := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "a@b.com",
		"iat":  jwt.NewNumericDate(time.Now()),
		"exp":  jwt.NewNumericDate(time.Now().Add(time.Hour)),
		"type": auth.TokenKindAccess,
	})
	signed, err := legacy.SignedString(key)
	require.NoError(t, err)

	assert.False(t, svc.ValidateToken(signed, auth.TokenKindAccess))
}

func TestClaims_RoundTrip(t *testing.T) {
	svc := newTokenService(t, time.Hour, 24*time.Hour, nil)
	userID := uuid.NewString()

	token, _, err := svc.GenerateAccessToken("a@b.com", map[string]any{
		auth.ClaimRole:     "TECHNICIAN",
		auth.ClaimUserID:   userID,
		auth.ClaimFullName: "Jane Doe",
		"locale":           "en-GB",
	})
	require.NoError(t, err)

	claims, err := svc.ParseClaims(token)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", claims["sub"])
	assert.Equal(t, "TECHNICIAN", claims[auth.ClaimRole])
	assert.Equal(t, userID, claims[auth.ClaimUserID])
	assert.Equal(t, "Jane Doe", claims[auth.ClaimFullName])
	assert.Equal(t, "en-GB", claims["locale"])
	assert.Equal(t, auth.TokenKindAccess, claims["type"])
}

func TestInvalidateToken(t *testing.T) {
	svc := newTokenService(t, time.Hour, 24*time.Hour, nil)

	token, _, err := svc.GenerateAccessToken("a@b.com", standardClaims())
	require.NoError(t, err)
	require.True(t, svc.ValidateToken(token, auth.TokenKindAccess))

	require.NoError(t, svc.InvalidateToken(token))
	assert.False(t, svc.ValidateToken(token, auth.TokenKindAccess))
	assert.False(t, svc.ValidateToken(token, ""))
}

func TestInvalidateToken_MalformedFailsLoudly(t *testing.T) {
	svc := newTokenService(t, time.Hour, 24*time.Hour, nil)

	assert.Error(t, svc.InvalidateToken("garbage"))
	assert.Error(t, svc.InvalidateToken(""))
}

func TestInvalidateToken_AlreadyExpired(t *testing.T) {
	svc := newTokenService(t, -time.Minute, 24*time.Hour, nil)

	token, _, err := svc.GenerateAccessToken("a@b.com", standardClaims())
	require.NoError(t, err)

	// Blacklisting an expired token is allowed; lazy eviction makes the
	// entry a no-op on lookup.
	assert.NoError(t, svc.InvalidateToken(token))
	assert.False(t, svc.ValidateToken(token, ""))
}

func TestRefreshTokens(t *testing.T) {
	svc := newTokenService(t, time.Hour, 24*time.Hour, nil)
	claims := standardClaims()

	refresh, _, err := svc.GenerateRefreshToken("a@b.com", claims)
	require.NoError(t, err)

	pair, err := svc.RefreshTokens(refresh)
	require.NoError(t, err)

	assert.True(t, svc.ValidateToken(pair.AccessToken, auth.TokenKindAccess))
	assert.True(t, svc.ValidateToken(pair.RefreshToken, auth.TokenKindRefresh))

	// The presented refresh token is single use.
	assert.False(t, svc.ValidateToken(refresh, auth.TokenKindRefresh))
	_, err = svc.RefreshTokens(refresh)
	assert.ErrorIs(t, err, auth.ErrAuthentication)

	// The new pair carries the same subject and claims.
	newClaims, err := svc.ParseClaims(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", newClaims["sub"])
	assert.Equal(t, claims[auth.ClaimRole], newClaims[auth.ClaimRole])
	assert.Equal(t, claims[auth.ClaimUserID], newClaims[auth.ClaimUserID])
}

func TestRefreshTokens_RejectsAccessToken(t *testing.T) {
	svc := newTokenService(t, time.Hour, 24*time.Hour, nil)

	access, _, err := svc.GenerateAccessToken("a@b.com", standardClaims())
	require.NoError(t, err)

	_, err = svc.RefreshTokens(access)
	assert.ErrorIs(t, err, auth.ErrAuthentication)
}

func TestUserFromToken(t *testing.T) {
	user, err := domain.NewCustomer("Jane Doe", "a@b.com", "", "hash", "1 Main St")
	require.NoError(t, err)
	store := &stubUserStore{users: map[string]*domain.User{user.ID: user}}
	svc := newTokenService(t, time.Hour, 24*time.Hour, store)

	token, _, err := svc.GenerateAccessToken(user.Email, map[string]any{
		auth.ClaimRole:     string(user.Role),
		auth.ClaimUserID:   user.ID,
		auth.ClaimFullName: user.FullName,
	})
	require.NoError(t, err)

	resolved, err := svc.UserFromToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
}

func TestUserFromToken_Failures(t *testing.T) {
	svc := newTokenService(t, time.Hour, 24*time.Hour, nil)

	_, err := svc.UserFromToken(context.Background(), "garbage")
	assert.ErrorIs(t, err, auth.ErrAuthentication)

	// Valid token, but the user no longer exists.
	token, _, err := svc.GenerateAccessToken("a@b.com", standardClaims())
	require.NoError(t, err)
	_, err = svc.UserFromToken(context.Background(), token)
	assert.ErrorIs(t, err, auth.ErrAuthentication)
}

func TestScenario_IssueValidateInvalidate(t *testing.T) {
	svc := newTokenService(t, time.Hour, 24*time.Hour, nil)

	token, _, err := svc.GenerateAccessToken("a@b.com", map[string]any{
		auth.ClaimRole:     "CUSTOMER",
		auth.ClaimUserID:   uuid.NewString(),
		auth.ClaimFullName: "Jane Doe",
	})
	require.NoError(t, err)

	assert.True(t, svc.ValidateToken(token, auth.TokenKindAccess))
	require.NoError(t, svc.InvalidateToken(token))
	assert.False(t, svc.ValidateToken(token, auth.TokenKindAccess))
}
