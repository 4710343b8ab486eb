package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/account-service/internal/domain"
	"github.com/spec-kit/account-service/internal/repository"
)

// Token kinds carried in the "type" claim.
const (
	TokenKindAccess  = "access"
	TokenKindRefresh = "refresh"
)

// Claim names the service embeds and requires.
const (
	ClaimRole     = "role"
	ClaimUserID   = "userId"
	ClaimFullName = "fullName"
	claimType     = "type"
)

// requiredClaims must all be present for a token to validate, whatever its
// signature says. Tokens minted under older claim shapes are rejected.
var requiredClaims = []string{ClaimRole, ClaimFullName, ClaimUserID}

// TokenPair bundles a freshly issued access/refresh token pair.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// TokenService issues, validates and revokes HS256-signed JWTs.
type TokenService struct {
	keys       *KeyProvider
	blacklist  *TokenBlacklist
	users      repository.UserStore
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService builds the service. The user store is only consulted by
// UserFromToken; it may be nil when that path is unused.
func NewTokenService(keys *KeyProvider, blacklist *TokenBlacklist, users repository.UserStore, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		keys:       keys,
		blacklist:  blacklist,
		users:      users,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// GenerateAccessToken signs a new access token for the subject email,
// merging the caller's claims into the payload.
func (s *TokenService) GenerateAccessToken(subject string, claims map[string]any) (string, time.Time, error) {
	return s.generate(TokenKindAccess, subject, claims, s.accessTTL)
}

// GenerateRefreshToken signs a new refresh token for the subject email.
func (s *TokenService) GenerateRefreshToken(subject string, claims map[string]any) (string, time.Time, error) {
	return s.generate(TokenKindRefresh, subject, claims, s.refreshTTL)
}

func (s *TokenService) generate(kind, subject string, claims map[string]any, ttl time.Duration) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, fmt.Errorf("%w: subject required", ErrInvalidArgument)
	}
	if claims == nil {
		return "", time.Time{}, fmt.Errorf("%w: claims map required", ErrInvalidArgument)
	}

	now := time.Now()
	expiresAt := now.Add(ttl)

	payload := jwt.MapClaims{}
	for name, value := range claims {
		payload[name] = value
	}
	// Registered claims always win over caller-supplied values.
	payload["sub"] = subject
	payload["iat"] = jwt.NewNumericDate(now)
	payload["exp"] = jwt.NewNumericDate(expiresAt)
	payload[claimType] = kind

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)
	signed, err := token.SignedString(s.keys.Key())
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateToken reports whether the token is acceptable. It never returns
// an error: bad signature, malformed structure, expiry, revocation, a
// missing required claim and a kind mismatch all collapse to false, because
// callers treat "invalid for any reason" uniformly. An empty expectedKind
// skips the kind check.
func (s *TokenService) ValidateToken(tokenStr, expectedKind string) bool {
	if tokenStr == "" {
		return false
	}
	claims, err := s.parse(tokenStr)
	if err != nil {
		return false
	}
	if s.blacklist.IsRevoked(tokenStr) {
		return false
	}
	if expectedKind != "" && stringClaim(claims, claimType) != expectedKind {
		return false
	}
	for _, name := range requiredClaims {
		if stringClaim(claims, name) == "" {
			return false
		}
	}
	return true
}

// ParseClaims verifies the token (signature and expiry) and returns its
// claim set.
func (s *TokenService) ParseClaims(tokenStr string) (jwt.MapClaims, error) {
	return s.parse(tokenStr)
}

// UserFromToken re-validates the token, then resolves the embedded user id
// against the user store.
func (s *TokenService) UserFromToken(ctx context.Context, tokenStr string) (*domain.User, error) {
	if !s.ValidateToken(tokenStr, "") {
		return nil, ErrAuthentication
	}
	claims, err := s.parse(tokenStr)
	if err != nil {
		return nil, ErrAuthentication
	}

	user, err := s.users.FindByID(ctx, stringClaim(claims, ClaimUserID))
	if err != nil {
		return nil, fmt.Errorf("%w: unknown user", ErrAuthentication)
	}
	return user, nil
}

// InvalidateToken blacklists the token until its own expiry. Unlike
// ValidateToken this path fails loudly: a structurally invalid or
// wrongly-signed token is an error, not a no-op. An already-expired token
// is still recorded; lazy eviction makes that harmless.
func (s *TokenService) InvalidateToken(tokenStr string) error {
	claims, err := s.parseIgnoringExpiry(tokenStr)
	if err != nil {
		return fmt.Errorf("invalidate token: %w", err)
	}

	expiresAt, err := claims.GetExpirationTime()
	if err != nil || expiresAt == nil {
		return errors.New("invalidate token: missing exp claim")
	}

	s.blacklist.Revoke(tokenStr, expiresAt.UnixMilli())
	return nil
}

// RefreshTokens validates the refresh token, consumes it (single use) and
// issues a new access/refresh pair carrying the same subject and claims.
func (s *TokenService) RefreshTokens(refreshToken string) (TokenPair, error) {
	if !s.ValidateToken(refreshToken, TokenKindRefresh) {
		return TokenPair{}, ErrAuthentication
	}
	claims, err := s.parse(refreshToken)
	if err != nil {
		return TokenPair{}, ErrAuthentication
	}

	subject := stringClaim(claims, "sub")
	carried := map[string]any{}
	for name, value := range claims {
		switch name {
		case "sub", "iat", "exp", claimType:
			continue
		}
		carried[name] = value
	}

	if err := s.InvalidateToken(refreshToken); err != nil {
		return TokenPair{}, fmt.Errorf("consume refresh token: %w", err)
	}

	access, accessExp, err := s.GenerateAccessToken(subject, carried)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, refreshExp, err := s.GenerateRefreshToken(subject, carried)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// parse verifies the signature and registered claims (including expiry).
func (s *TokenService) parse(tokenStr string) (jwt.MapClaims, error) {
	return s.parseWith(tokenStr)
}

// parseIgnoringExpiry verifies the signature only, so expired tokens can
// still be read and blacklisted.
func (s *TokenService) parseIgnoringExpiry(tokenStr string) (jwt.MapClaims, error) {
	return s.parseWith(tokenStr, jwt.WithoutClaimsValidation())
}

func (s *TokenService) parseWith(tokenStr string, opts ...jwt.ParserOption) (jwt.MapClaims, error) {
	parsed, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.keys.Key(), nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

func stringClaim(claims jwt.MapClaims, name string) string {
	value, _ := claims[name].(string)
	return value
}
