package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dukapos/internal/core/apperror"
	appctx "dukapos/internal/core/context"
	"dukapos/internal/core/id"
)

type memUserRepo struct {
	byID    map[id.ID]*User
	byEmail map[string]*User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: make(map[id.ID]*User), byEmail: make(map[string]*User)}
}

func (m *memUserRepo) Create(ctx context.Context, u *User) error {
	cp := *u
	m.byID[u.ID] = &cp
	m.byEmail[strings.ToLower(u.Email)] = &cp
	return nil
}

func (m *memUserRepo) Update(ctx context.Context, u *User) error {
	if _, ok := m.byID[u.ID]; !ok {
		return apperror.NewNotFound("user", u.ID)
	}
	cp := *u
	m.byID[u.ID] = &cp
	m.byEmail[strings.ToLower(u.Email)] = &cp
	return nil
}

func (m *memUserRepo) GetByID(ctx context.Context, userID id.ID) (*User, error) {
	u, ok := m.byID[userID]
	if !ok {
		return nil, apperror.NewNotFound("user", userID)
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := m.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, apperror.NewNotFound("user", email)
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) List(ctx context.Context) ([]*User, error) {
	out := make([]*User, 0, len(m.byID))
	for _, u := range m.byID {
		out = append(out, u)
	}
	return out, nil
}

func newAuthService() (*Service, *memUserRepo) {
	repo := newMemUserRepo()
	jwtService := NewJWTService(DefaultJWTConfig("test-secret"))
	return NewService(repo, jwtService), repo
}

func TestCreateUser_AndLogin(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "jane@example.com", "Jane", "s3cret-pass", appctx.RoleCashier)
	require.NoError(t, err)
	assert.NotEqual(t, id.Nil(), user.ID)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash, "password must be hashed")

	token, err := svc.Login(ctx, Credentials{Email: "jane@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.NotEmpty(t, token.AccessToken)
	assert.True(t, token.ExpiresAt.After(time.Now()))

	// The issued token carries the user's identity and role.
	uc, err := NewJWTService(DefaultJWTConfig("test-secret")).ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), uc.UserID)
	assert.Equal(t, appctx.RoleCashier, uc.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "jane@example.com", "Jane", "s3cret-pass", appctx.RoleCashier)
	require.NoError(t, err)

	_, err = svc.Login(ctx, Credentials{Email: "jane@example.com", Password: "wrong"})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestLogin_UnknownEmailSameError(t *testing.T) {
	svc, _ := newAuthService()

	_, err := svc.Login(context.Background(), Credentials{Email: "nobody@example.com", Password: "anything"})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
	assert.Equal(t, "invalid credentials", appErr.Message)
}

func TestLogin_InactiveUser(t *testing.T) {
	svc, repo := newAuthService()
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "jane@example.com", "Jane", "s3cret-pass", appctx.RoleCashier)
	require.NoError(t, err)

	user.IsActive = false
	require.NoError(t, repo.Update(ctx, user))

	_, err = svc.Login(ctx, Credentials{Email: "jane@example.com", Password: "s3cret-pass"})
	require.Error(t, err)
}

func TestLogin_RecordsLastLogin(t *testing.T) {
	svc, repo := newAuthService()
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "jane@example.com", "Jane", "s3cret-pass", appctx.RoleCashier)
	require.NoError(t, err)
	require.Nil(t, user.LastLoginAt)

	_, err = svc.Login(ctx, Credentials{Email: "jane@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	stored, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLoginAt)
}

func TestCreateUser_ShortPassword(t *testing.T) {
	svc, _ := newAuthService()

	_, err := svc.CreateUser(context.Background(), "jane@example.com", "Jane", "short", appctx.RoleCashier)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "jane@example.com", "Jane", "s3cret-pass", appctx.RoleCashier)
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, "jane@example.com", "Other Jane", "s3cret-pass", appctx.RoleAdmin)
	require.Error(t, err)
}

func TestCreateUser_UnknownRole(t *testing.T) {
	svc, _ := newAuthService()

	_, err := svc.CreateUser(context.Background(), "jane@example.com", "Jane", "s3cret-pass", "superuser")
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "jane@example.com", "Jane", "s3cret-pass", appctx.RoleCashier)
	require.NoError(t, err)
	token, err := svc.Login(ctx, Credentials{Email: "jane@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	other := NewJWTService(DefaultJWTConfig("different-secret"))
	_, err = other.ValidateToken(token.AccessToken)
	require.Error(t, err)
}
