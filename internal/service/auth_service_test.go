package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/freeweek-api/internal/models"
	appErrors "github.com/noah-isme/freeweek-api/pkg/errors"
)

type authRepoStub struct {
	usersByName  map[string]*models.User
	usersByID    map[string]*models.User
	tokens       map[string]*models.RefreshToken
	created      []*models.User
	revokedIDs   []string
	createdToken *models.RefreshToken
}

func newAuthRepoStub() *authRepoStub {
	return &authRepoStub{
		usersByName: map[string]*models.User{},
		usersByID:   map[string]*models.User{},
		tokens:      map[string]*models.RefreshToken{},
	}
}

func (r *authRepoStub) addUser(u *models.User) {
	r.usersByName[u.Username] = u
	r.usersByID[u.ID] = u
}

func (r *authRepoStub) Create(ctx context.Context, user *models.User) error {
	user.ID = "generated"
	r.created = append(r.created, user)
	r.addUser(user)
	return nil
}

func (r *authRepoStub) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	u, ok := r.usersByName[username]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (r *authRepoStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := r.usersByID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (r *authRepoStub) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	return nil
}

func (r *authRepoStub) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	r.createdToken = token
	r.tokens[token.Token] = token
	return nil
}

func (r *authRepoStub) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	t, ok := r.tokens[token]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return t, nil
}

func (r *authRepoStub) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	r.revokedIDs = append(r.revokedIDs, id)
	for _, t := range r.tokens {
		if t.ID == id {
			t.Revoked = true
		}
	}
	return nil
}

func newAuthServiceForTest(repo *authRepoStub) *AuthService {
	return NewAuthService(repo, nil, nil, AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "freeweek-test",
	})
}

func seedUser(t *testing.T, repo *authRepoStub, username, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{ID: "u-" + username, Username: username, Email: username + "@example.com", PasswordHash: string(hash), DisplayName: username, Active: true}
	repo.addUser(user)
	return user
}

func TestAuthRegister(t *testing.T) {
	repo := newAuthRepoStub()
	svc := newAuthServiceForTest(repo)

	info, err := svc.Register(context.Background(), models.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "s3cretpass",
	})
	require.NoError(t, err)
	require.Equal(t, "alice", info.Username)
	// Display name defaults to the username when omitted.
	require.Equal(t, "alice", info.DisplayName)
	require.Len(t, repo.created, 1)
	require.NotEqual(t, "s3cretpass", repo.created[0].PasswordHash)
}

func TestAuthRegisterDuplicateUsername(t *testing.T) {
	repo := newAuthRepoStub()
	seedUser(t, repo, "alice", "s3cretpass")
	svc := newAuthServiceForTest(repo)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Username: "alice", Email: "other@example.com", Password: "s3cretpass",
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestAuthLoginAndValidate(t *testing.T) {
	repo := newAuthRepoStub()
	user := seedUser(t, repo, "alice", "s3cretpass")
	svc := newAuthServiceForTest(repo)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "alice", Password: "s3cretpass"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	require.Equal(t, user.ID, resp.User.ID)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, "alice", claims.Username)
}

func TestAuthLoginWrongPassword(t *testing.T) {
	repo := newAuthRepoStub()
	seedUser(t, repo, "alice", "s3cretpass")
	svc := newAuthServiceForTest(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "alice", Password: "nope nope"})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthLoginInactiveAccount(t *testing.T) {
	repo := newAuthRepoStub()
	user := seedUser(t, repo, "alice", "s3cretpass")
	user.Active = false
	svc := newAuthServiceForTest(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "alice", Password: "s3cretpass"})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestAuthRefreshRotatesToken(t *testing.T) {
	repo := newAuthRepoStub()
	seedUser(t, repo, "alice", "s3cretpass")
	svc := newAuthServiceForTest(repo)

	first, err := svc.Login(context.Background(), models.LoginRequest{Username: "alice", Password: "s3cretpass"})
	require.NoError(t, err)

	second, err := svc.Refresh(context.Background(), models.RefreshRequest{RefreshToken: first.RefreshToken})
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The rotated-out token is revoked and cannot be replayed.
	_, err = svc.Refresh(context.Background(), models.RefreshRequest{RefreshToken: first.RefreshToken})
	require.Error(t, err)
}

func TestAuthRefreshExpiredToken(t *testing.T) {
	repo := newAuthRepoStub()
	seedUser(t, repo, "alice", "s3cretpass")
	repo.tokens["old"] = &models.RefreshToken{ID: "t1", UserID: "u-alice", Token: "old", ExpiresAt: time.Now().Add(-time.Hour)}
	svc := newAuthServiceForTest(repo)

	_, err := svc.Refresh(context.Background(), models.RefreshRequest{RefreshToken: "old"})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}

func TestAuthLogout(t *testing.T) {
	repo := newAuthRepoStub()
	seedUser(t, repo, "alice", "s3cretpass")
	svc := newAuthServiceForTest(repo)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "alice", Password: "s3cretpass"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), resp.RefreshToken))
	require.NotEmpty(t, repo.revokedIDs)

	// Logging out an unknown token is a no-op.
	require.NoError(t, svc.Logout(context.Background(), "unknown"))
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	repo := newAuthRepoStub()
	seedUser(t, repo, "alice", "s3cretpass")
	svc := newAuthServiceForTest(repo)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "alice", Password: "s3cretpass"})
	require.NoError(t, err)

	other := NewAuthService(repo, nil, nil, AuthConfig{AccessTokenSecret: "another-secret", AccessTokenExpiry: time.Minute})
	_, err = other.ValidateToken(resp.AccessToken)
	require.Error(t, err)
}
