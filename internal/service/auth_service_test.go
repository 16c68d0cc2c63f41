package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/impactclub/platform/internal/auth"
	"github.com/impactclub/platform/internal/rbac"
	"github.com/impactclub/platform/internal/repo"
	"github.com/impactclub/platform/internal/util"
)

type stubStore struct {
	users  map[uuid.UUID]repo.User
	emails map[string]uuid.UUID
	grants map[uuid.UUID][]uuid.UUID
	tokens map[string]repo.RefreshToken
	ops    []string
}

func newStubStore() *stubStore {
	return &stubStore{
		users:  map[uuid.UUID]repo.User{},
		emails: map[string]uuid.UUID{},
		grants: map[uuid.UUID][]uuid.UUID{},
		tokens: map[string]repo.RefreshToken{},
	}
}

func (s *stubStore) addUser(t *testing.T, email, password, role string, active bool) repo.User {
	t.Helper()
	hash, err := auth.Hash(password)
	require.NoError(t, err)
	user := repo.User{ID: uuid.New(), Email: email, FullName: "Test User", PasswordHash: hash, Role: role, Active: active}
	s.users[user.ID] = user
	s.emails[email] = user.ID
	return user
}

func (s *stubStore) CreateUser(ctx context.Context, email, fullName string, phone *string, passwordHash string) (repo.User, error) {
	if _, ok := s.emails[email]; ok {
		return repo.User{}, repo.ErrEmailTaken
	}
	user := repo.User{ID: uuid.New(), Email: email, FullName: fullName, Phone: phone, PasswordHash: passwordHash, Role: "user", Active: true}
	s.users[user.ID] = user
	s.emails[email] = user.ID
	return user, nil
}

func (s *stubStore) GetUserByEmail(ctx context.Context, email string) (repo.User, error) {
	id, ok := s.emails[email]
	if !ok {
		return repo.User{}, repo.ErrNotFound
	}
	return s.users[id], nil
}

func (s *stubStore) GetUserByID(ctx context.Context, id uuid.UUID) (repo.User, error) {
	user, ok := s.users[id]
	if !ok {
		return repo.User{}, repo.ErrNotFound
	}
	return user, nil
}

func (s *stubStore) ListActiveGrants(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return s.grants[userID], nil
}

func (s *stubStore) InsertRefreshToken(ctx context.Context, subject uuid.UUID, tokenHash string, expiresAt time.Time) (repo.RefreshToken, error) {
	s.ops = append(s.ops, "insert:"+tokenHash)
	token := repo.RefreshToken{ID: uuid.New(), Subject: subject, TokenHash: tokenHash, ExpiresAt: expiresAt}
	s.tokens[tokenHash] = token
	return token, nil
}

func (s *stubStore) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (repo.RefreshToken, error) {
	token, ok := s.tokens[tokenHash]
	if !ok {
		return repo.RefreshToken{}, repo.ErrNotFound
	}
	return token, nil
}

func (s *stubStore) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	s.ops = append(s.ops, "revoke:"+tokenHash)
	token, ok := s.tokens[tokenHash]
	if !ok {
		return nil
	}
	token.Revoked = true
	s.tokens[tokenHash] = token
	return nil
}

func (s *stubStore) InvalidateOtherRefreshTokens(ctx context.Context, subject uuid.UUID, keepHash string) error {
	for hash, token := range s.tokens {
		if token.Subject == subject && hash != keepHash {
			token.Revoked = true
			s.tokens[hash] = token
		}
	}
	return nil
}

type stubRedis struct {
	store map[string]string
	fail  bool
}

func newStubRedis() *stubRedis {
	return &stubRedis{store: map[string]string{}}
}

func (s *stubRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	if s.fail {
		cmd.SetErr(fmt.Errorf("connection refused"))
		return cmd
	}
	s.store[key] = fmt.Sprint(value)
	cmd.SetVal("OK")
	return cmd
}

func (s *stubRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	if s.fail {
		cmd.SetErr(fmt.Errorf("connection refused"))
		return cmd
	}
	val, ok := s.store[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(val)
	return cmd
}

func (s *stubRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	for _, key := range keys {
		delete(s.store, key)
	}
	cmd.SetVal(int64(len(keys)))
	return cmd
}

func newAuthService(store *stubStore, redisStub *stubRedis) *AuthService {
	jwtMgr := auth.NewJWTManager("0123456789abcdef0123456789abcdef", 15*time.Minute)
	return NewAuthService(store, redisStub, jwtMgr, rbac.NewService(store), 30*24*time.Hour)
}

func TestSignUpCreatesDefaultRoleAccount(t *testing.T) {
	store := newStubStore()
	svc := newAuthService(store, newStubRedis())

	result, err := svc.SignUp(context.Background(), SignUpInput{
		FullName: "New Member",
		Email:    "Member@club.org ",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)
	require.Equal(t, "user", result.Profile.Role)
	require.Empty(t, result.Profile.Departments)

	// The account is immediately usable for a normal login.
	login, err := svc.Login(context.Background(), "member@club.org", "correct-horse")
	require.NoError(t, err)
	require.Equal(t, result.Profile.ID, login.Profile.ID)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	store := newStubStore()
	store.addUser(t, "member@club.org", "correct-horse", "user", true)
	svc := newAuthService(store, newStubRedis())

	_, err := svc.SignUp(context.Background(), SignUpInput{
		FullName: "New Member",
		Email:    "member@club.org",
		Password: "battery-staple",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignUpValidation(t *testing.T) {
	svc := newAuthService(newStubStore(), newStubRedis())

	cases := []struct {
		name  string
		input SignUpInput
		field string
	}{
		{"missing name", SignUpInput{Email: "member@club.org", Password: "correct-horse"}, "full_name"},
		{"bad email", SignUpInput{FullName: "New Member", Email: "not-an-address", Password: "correct-horse"}, "email"},
		{"short password", SignUpInput{FullName: "New Member", Email: "member@club.org", Password: "short"}, "password"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SignUp(context.Background(), tc.input)
			var ve *util.ValidationError
			require.ErrorAs(t, err, &ve)
			require.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestLoginSuccess(t *testing.T) {
	store := newStubStore()
	user := store.addUser(t, "lead@club.org", "correct-horse", "department_admin", true)
	dep := uuid.New()
	store.grants[user.ID] = []uuid.UUID{dep}

	svc := newAuthService(store, newStubRedis())

	result, err := svc.Login(context.Background(), "Lead@club.org ", "correct-horse")
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)
	require.NotEmpty(t, result.RefreshToken)
	require.Equal(t, "department_admin", result.Profile.Role)
	require.Equal(t, []uuid.UUID{dep}, result.Profile.Departments)

	// The raw refresh token is never stored, only its hash.
	_, raw := store.tokens[result.RefreshToken]
	require.False(t, raw)
	_, hashed := store.tokens[auth.HashRefreshToken(result.RefreshToken)]
	require.True(t, hashed)
}

func TestLoginWrongPassword(t *testing.T) {
	store := newStubStore()
	store.addUser(t, "lead@club.org", "correct-horse", "admin", true)
	svc := newAuthService(store, newStubRedis())

	_, err := svc.Login(context.Background(), "lead@club.org", "battery-staple")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownAccount(t *testing.T) {
	svc := newAuthService(newStubStore(), newStubRedis())

	_, err := svc.Login(context.Background(), "ghost@club.org", "whatever")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginDisabledAccount(t *testing.T) {
	store := newStubStore()
	store.addUser(t, "lead@club.org", "correct-horse", "admin", false)
	svc := newAuthService(store, newStubRedis())

	_, err := svc.Login(context.Background(), "lead@club.org", "correct-horse")
	require.ErrorIs(t, err, ErrAccountDisabled)
}

func TestRefreshRotatesSession(t *testing.T) {
	store := newStubStore()
	store.addUser(t, "lead@club.org", "correct-horse", "admin", true)
	svc := newAuthService(store, newStubRedis())

	first, err := svc.Login(context.Background(), "lead@club.org", "correct-horse")
	require.NoError(t, err)

	second, err := svc.Refresh(context.Background(), first.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The presented token is single-use.
	_, err = svc.Refresh(context.Background(), first.RefreshToken)
	require.ErrorIs(t, err, ErrRefreshInvalid)
}

func TestRefreshRevokesPresentedTokenBeforeIssuing(t *testing.T) {
	store := newStubStore()
	store.addUser(t, "lead@club.org", "correct-horse", "admin", true)
	svc := newAuthService(store, newStubRedis())

	first, err := svc.Login(context.Background(), "lead@club.org", "correct-horse")
	require.NoError(t, err)

	store.ops = nil
	_, err = svc.Refresh(context.Background(), first.RefreshToken)
	require.NoError(t, err)

	// Revocation of the presented token must precede the new insert, so an
	// interrupted rotation never leaves both tokens live.
	require.Len(t, store.ops, 2)
	require.Equal(t, "revoke:"+auth.HashRefreshToken(first.RefreshToken), store.ops[0])
	require.True(t, strings.HasPrefix(store.ops[1], "insert:"))
}

func TestRefreshReplayRevokesSessionFamily(t *testing.T) {
	store := newStubStore()
	store.addUser(t, "lead@club.org", "correct-horse", "admin", true)
	svc := newAuthService(store, newStubRedis())

	first, err := svc.Login(context.Background(), "lead@club.org", "correct-horse")
	require.NoError(t, err)

	second, err := svc.Refresh(context.Background(), first.RefreshToken)
	require.NoError(t, err)

	// Replaying the rotated token invalidates the live session too.
	_, err = svc.Refresh(context.Background(), first.RefreshToken)
	require.ErrorIs(t, err, ErrRefreshInvalid)

	_, err = svc.Refresh(context.Background(), second.RefreshToken)
	require.ErrorIs(t, err, ErrRefreshInvalid)
}

func TestRefreshRejectsUnknownToken(t *testing.T) {
	svc := newAuthService(newStubStore(), newStubRedis())

	_, err := svc.Refresh(context.Background(), "made-up-token")
	require.ErrorIs(t, err, ErrRefreshInvalid)
}

func TestRefreshRejectsExpiredToken(t *testing.T) {
	store := newStubStore()
	user := store.addUser(t, "lead@club.org", "correct-horse", "admin", true)
	svc := newAuthService(store, newStubRedis())

	raw, hash, err := auth.GenerateRefreshToken()
	require.NoError(t, err)
	store.tokens[hash] = repo.RefreshToken{ID: uuid.New(), Subject: user.ID, TokenHash: hash, ExpiresAt: time.Now().Add(-time.Hour)}

	_, err = svc.Refresh(context.Background(), raw)
	require.ErrorIs(t, err, ErrRefreshInvalid)
}

func TestLogoutDenylistsAccessToken(t *testing.T) {
	store := newStubStore()
	store.addUser(t, "lead@club.org", "correct-horse", "admin", true)
	redisStub := newStubRedis()
	svc := newAuthService(store, redisStub)

	result, err := svc.Login(context.Background(), "lead@club.org", "correct-horse")
	require.NoError(t, err)

	claims, err := svc.JWT().ParseAndValidate(result.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), result.RefreshToken, claims.ID))

	revoked, err := svc.IsAccessRevoked(context.Background(), claims.ID)
	require.NoError(t, err)
	require.True(t, revoked)

	_, err = svc.Refresh(context.Background(), result.RefreshToken)
	require.ErrorIs(t, err, ErrRefreshInvalid)
}

func TestIsAccessRevokedStoreFailure(t *testing.T) {
	store := newStubStore()
	redisStub := newStubRedis()
	redisStub.fail = true
	svc := newAuthService(store, redisStub)

	_, err := svc.IsAccessRevoked(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, ErrSessionBackendUnavailable)
}
