package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sitecraft/website-builder/internal/core/domain"
	"github.com/sitecraft/website-builder/internal/core/ports"
)

const defaultTokenTTL = 24 * time.Hour

// sessionClaims is the signed token payload.
type sessionClaims struct {
	UserID string `json:"user_id"`
	RoleID string `json:"role_id"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 session tokens. Tokens are stateless:
// there is no revocation list, logout is client-side discard.
type TokenService struct {
	users  ports.UserRepository
	roles  ports.RoleRepository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(users ports.UserRepository, roles ports.RoleRepository, secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{
		users:  users,
		roles:  roles,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token binding userID and roleID, valid for the configured TTL.
func (s *TokenService) Issue(userID, roleID string) (string, error) {
	now := s.now()
	claims := sessionClaims{
		UserID: userID,
		RoleID: roleID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Parse checks the signature and expiry and returns the bound identities.
// Once a token has three segments, any altered byte is reported as
// ErrTokenInvalidSignature, because the HMAC is checked before decoding.
func (s *TokenService) Parse(token string) (*ports.TokenClaims, error) {
	if token == "" {
		return nil, domain.ErrTokenMissing
	}
	if err := s.verifySignature(token); err != nil {
		return nil, err
	}

	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, classifyTokenError(err)
	}
	if claims.UserID == "" || claims.RoleID == "" {
		return nil, domain.ErrTokenMalformed
	}

	return &ports.TokenClaims{UserID: claims.UserID, RoleID: claims.RoleID}, nil
}

var strictDecoder = jwt.NewParser(jwt.WithStrictDecoding())

// verifySignature runs HS256 over "header.payload" as sent. Non-canonical
// base64 in the signature segment is rejected.
func (s *TokenService) verifySignature(token string) error {
	if strings.Count(token, ".") != 2 {
		return domain.ErrTokenMalformed
	}
	dot := strings.LastIndexByte(token, '.')
	sig, err := strictDecoder.DecodeSegment(token[dot+1:])
	if err != nil {
		return domain.ErrTokenInvalidSignature
	}
	if err := jwt.SigningMethodHS256.Verify(token[:dot], sig, s.secret); err != nil {
		return domain.ErrTokenInvalidSignature
	}
	return nil
}

// Verify parses the token, then re-resolves the user and role. A user that no
// longer exists fails with ErrSubjectNotFound; a missing role resolves to
// domain.RoleUnknown, which carries no rights.
func (s *TokenService) Verify(ctx context.Context, token string) (*domain.Principal, error) {
	claims, err := s.Parse(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrSubjectNotFound
		}
		return nil, fmt.Errorf("verify token: %w", err)
	}

	roleName := domain.RoleUnknown
	role, err := s.roles.FindByID(ctx, claims.RoleID)
	switch {
	case err == nil:
		roleName = role.Name
	case !errors.Is(err, domain.ErrRoleNotFound):
		return nil, fmt.Errorf("verify token: %w", err)
	}

	return &domain.Principal{
		UserID:   claims.UserID,
		RoleID:   claims.RoleID,
		RoleName: roleName,
		Email:    user.Email,
	}, nil
}

func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return domain.ErrTokenInvalidSignature
	default:
		return fmt.Errorf("%w: %v", domain.ErrTokenMalformed, err)
	}
}
