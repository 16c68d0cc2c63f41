package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/impactclub/platform/internal/auth"
	"github.com/impactclub/platform/internal/rbac"
	"github.com/impactclub/platform/internal/repo"
	"github.com/impactclub/platform/internal/util"
)

var (
	// ErrInvalidCredentials signals an authentication failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken signals a sign-up against an address already in use.
	ErrEmailTaken = errors.New("email already registered")
	// ErrAccountDisabled signals a deactivated account.
	ErrAccountDisabled = errors.New("account disabled")
	// ErrRefreshInvalid signals an invalid or expired refresh token.
	ErrRefreshInvalid = errors.New("invalid refresh token")
	// ErrSessionBackendUnavailable signals the session store is unreachable,
	// distinct from "not authenticated" so callers can answer 503.
	ErrSessionBackendUnavailable = errors.New("session backend unavailable")
)

type authRepository interface {
	CreateUser(ctx context.Context, email, fullName string, phone *string, passwordHash string) (repo.User, error)
	GetUserByEmail(ctx context.Context, email string) (repo.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (repo.User, error)
	InsertRefreshToken(ctx context.Context, subject uuid.UUID, tokenHash string, expiresAt time.Time) (repo.RefreshToken, error)
	GetRefreshTokenByHash(ctx context.Context, tokenHash string) (repo.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	InvalidateOtherRefreshTokens(ctx context.Context, subject uuid.UUID, keepHash string) error
}

type redisCommander interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// AuthService concentrates sign-in, session rotation and revocation rules.
type AuthService struct {
	repo       authRepository
	redis      redisCommander
	jwt        *auth.JWTManager
	rbac       *rbac.Service
	refreshTTL time.Duration
}

// NewAuthService creates a new service.
func NewAuthService(r authRepository, redisClient redisCommander, jwtMgr *auth.JWTManager, rbacSvc *rbac.Service, refreshTTL time.Duration) *AuthService {
	return &AuthService{repo: r, redis: redisClient, jwt: jwtMgr, rbac: rbacSvc, refreshTTL: refreshTTL}
}

// JWT exposes the token manager (used by middleware).
func (s *AuthService) JWT() *auth.JWTManager {
	return s.jwt
}

// Profile describes the signed-in account for the dashboard shell.
type Profile struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	FullName    string      `json:"full_name"`
	Role        string      `json:"role"`
	Departments []uuid.UUID `json:"departments,omitempty"`
}

// LoginResult is the standard return of authentication flows.
type LoginResult struct {
	AccessToken   string
	RefreshToken  string
	RefreshExpiry time.Time
	Profile       Profile
}

// SignUpInput carries the public account registration fields.
type SignUpInput struct {
	FullName string
	Email    string
	Phone    string
	Password string
}

// SignUp creates a self-service account with the default role and opens its
// first session.
func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (*LoginResult, error) {
	if err := util.RequireString(input.FullName, "full_name"); err != nil {
		return nil, err
	}
	if err := util.ValidateEmail(input.Email); err != nil {
		return nil, err
	}
	if err := util.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	hash, err := auth.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	var phone *string
	if p := strings.TrimSpace(input.Phone); p != "" {
		phone = &p
	}

	user, err := s.repo.CreateUser(ctx,
		strings.ToLower(strings.TrimSpace(input.Email)),
		strings.TrimSpace(input.FullName),
		phone,
		hash,
	)
	if err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return s.openSession(ctx, user)
}

// Login authenticates by email and password and opens a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			log.Warn().Msg("login: account not found")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := auth.Verify(password, user.PasswordHash)
	if err != nil {
		log.Warn().Err(err).Msg("login: password verify failed")
		return nil, ErrInvalidCredentials
	}
	if !ok {
		log.Warn().Msg("login: wrong password")
		return nil, ErrInvalidCredentials
	}

	return s.openSession(ctx, user)
}

func (s *AuthService) openSession(ctx context.Context, user repo.User) (*LoginResult, error) {
	if !user.Active {
		return nil, ErrAccountDisabled
	}

	scope, err := s.rbac.Lookup(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	token, _, err := s.jwt.GenerateAccessToken(user.ID.String(), string(scope.Role))
	if err != nil {
		return nil, err
	}

	rawRefresh, refreshHash, err := auth.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	expiry := time.Now().UTC().Add(s.refreshTTL)
	if _, err := s.repo.InsertRefreshToken(ctx, user.ID, refreshHash, expiry); err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:   token,
		RefreshToken:  rawRefresh,
		RefreshExpiry: expiry,
		Profile: Profile{
			ID:          user.ID.String(),
			Email:       user.Email,
			FullName:    user.FullName,
			Role:        string(scope.Role),
			Departments: scope.Departments,
		},
	}, nil
}

// Refresh rotates the session: the presented token is revoked and a fresh
// access/refresh pair is issued.
func (s *AuthService) Refresh(ctx context.Context, rawRefresh string) (*LoginResult, error) {
	hash := auth.HashRefreshToken(rawRefresh)

	stored, err := s.repo.GetRefreshTokenByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRefreshInvalid
		}
		return nil, err
	}
	if stored.Revoked {
		// A rotated token being replayed suggests theft. Revoke the whole
		// session family for the subject.
		_ = s.repo.InvalidateOtherRefreshTokens(ctx, stored.Subject, "")
		return nil, ErrRefreshInvalid
	}
	if time.Now().UTC().After(stored.ExpiresAt) {
		return nil, ErrRefreshInvalid
	}

	user, err := s.repo.GetUserByID(ctx, stored.Subject)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRefreshInvalid
		}
		return nil, err
	}

	// Revoke before issuing so a failure mid-rotation cannot leave two live
	// tokens for the same session.
	if err := s.repo.RevokeRefreshToken(ctx, hash); err != nil {
		return nil, err
	}

	return s.openSession(ctx, user)
}

// Logout revokes the refresh token and denylists the current access token
// until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, rawRefresh, accessJTI string) error {
	if rawRefresh != "" {
		if err := s.repo.RevokeRefreshToken(ctx, auth.HashRefreshToken(rawRefresh)); err != nil {
			return err
		}
	}
	if accessJTI != "" {
		if err := s.redis.Set(ctx, auth.RevokedAccessKey(accessJTI), "1", s.jwt.AccessTTL()).Err(); err != nil {
			return errors.Join(ErrSessionBackendUnavailable, err)
		}
	}
	return nil
}

// IsAccessRevoked checks the denylist for a token id. A store failure is
// reported as ErrSessionBackendUnavailable, never as "revoked".
func (s *AuthService) IsAccessRevoked(ctx context.Context, jti string) (bool, error) {
	err := s.redis.Get(ctx, auth.RevokedAccessKey(jti)).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	return false, errors.Join(ErrSessionBackendUnavailable, err)
}

// Me resolves the profile of the authenticated subject.
func (s *AuthService) Me(ctx context.Context, scope rbac.Scope) Profile {
	return Profile{
		ID:          scope.Principal.ID.String(),
		Email:       scope.Principal.Email,
		FullName:    scope.Principal.Name,
		Role:        string(scope.Role),
		Departments: scope.Departments,
	}
}
