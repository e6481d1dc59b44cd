package services

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/skillsync/internal/apperror"
	"alfredoptarigan/skillsync/internal/models"
	"alfredoptarigan/skillsync/internal/repositories"
)

func newTestAuthService(t *testing.T) (*authService, repositories.UserRepository) {
	t.Helper()
	userRepo := repositories.NewUserRepository(newTestDB(t))
	return NewAuthService(userRepo, "test-secret", 30*time.Minute).(*authService), userRepo
}

func TestRegisterDefaultsToApplicant(t *testing.T) {
	svc, _ := newTestAuthService(t)

	user, err := svc.Register(models.RegisterRequest{
		Email:    "  Ada@Example.com ",
		Password: "password123",
		FullName: "Ada Lovelace",
	})
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, models.RoleApplicant, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "password123", user.HashedPassword)
}

func TestRegisterRejectsDuplicateEmailAndAdminRole(t *testing.T) {
	svc, _ := newTestAuthService(t)

	req := models.RegisterRequest{Email: "dup@example.com", Password: "password123", FullName: "Dup"}
	_, err := svc.Register(req)
	require.NoError(t, err)

	_, err = svc.Register(req)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindBadRequest))
	assert.Contains(t, err.Error(), "Email already registered")

	_, err = svc.Register(models.RegisterRequest{
		Email: "root@example.com", Password: "password123", FullName: "Root", Role: models.RoleAdmin,
	})
	assert.True(t, apperror.IsKind(err, apperror.KindBadRequest))
}

func TestLoginAndAuthenticate(t *testing.T) {
	svc, _ := newTestAuthService(t)

	registered, err := svc.Register(models.RegisterRequest{
		Email: "rec@example.com", Password: "password123", FullName: "Rec", Role: models.RoleRecruiter,
	})
	require.NoError(t, err)

	_, err = svc.Login(models.LoginRequest{Email: "rec@example.com", Password: "wrong-password"})
	assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))

	_, err = svc.Login(models.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))

	token, err := svc.Login(models.LoginRequest{Email: "REC@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", token.TokenType)
	assert.NotEmpty(t, token.AccessToken)

	user, err := svc.Authenticate(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.Equal(t, models.RoleRecruiter, user.Role)
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	svc, _ := newTestAuthService(t)

	user, err := svc.Register(models.RegisterRequest{Email: "a@example.com", Password: "password123", FullName: "A"})
	require.NoError(t, err)

	_, err = svc.Authenticate("not-a-token")
	assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))

	other := NewAuthService(nil, "another-secret", time.Minute)
	forged, err := other.IssueToken(user)
	require.NoError(t, err)
	_, err = svc.Authenticate(forged.AccessToken)
	assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))

	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := svc.IssueToken(user)
	require.NoError(t, err)
	svc.now = time.Now
	_, err = svc.Authenticate(expired.AccessToken)
	assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		StandardClaims: jwt.StandardClaims{Subject: user.Email, ExpiresAt: time.Now().Add(time.Hour).Unix()},
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.Authenticate(raw)
	assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))
}

func TestAuthenticateInactiveUser(t *testing.T) {
	svc, userRepo := newTestAuthService(t)

	user, err := svc.Register(models.RegisterRequest{Email: "gone@example.com", Password: "password123", FullName: "Gone"})
	require.NoError(t, err)
	token, err := svc.IssueToken(user)
	require.NoError(t, err)

	user.IsActive = false
	require.NoError(t, userRepo.Update(user))

	_, err = svc.Authenticate(token.AccessToken)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindBadRequest))
	assert.Contains(t, err.Error(), "Inactive user")

	_, err = svc.Login(models.LoginRequest{Email: "gone@example.com", Password: "password123"})
	assert.True(t, apperror.IsKind(err, apperror.KindBadRequest))
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newTestAuthService(t)

	taken, err := svc.Register(models.RegisterRequest{Email: "taken@example.com", Password: "password123", FullName: "T"})
	require.NoError(t, err)
	user, err := svc.Register(models.RegisterRequest{Email: "me@example.com", Password: "password123", FullName: "Me"})
	require.NoError(t, err)

	_, err = svc.UpdateProfile(user, models.UserUpdateRequest{Email: &taken.Email})
	assert.True(t, apperror.IsKind(err, apperror.KindBadRequest))

	name := " New Name "
	password := "new-password-1"
	updated, err := svc.UpdateProfile(user, models.UserUpdateRequest{FullName: &name, Password: &password})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.FullName)

	_, err = svc.Login(models.LoginRequest{Email: "me@example.com", Password: password})
	assert.NoError(t, err)
}
