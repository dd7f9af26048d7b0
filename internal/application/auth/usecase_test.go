package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/infrastructure/memory"
	"github.com/jhoicas/Suministros-api/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newUseCase() *AuthUseCase {
	db := memory.New()
	return NewAuthUseCase(db.Store().Users(), JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "suministros-api"})
}

func register(t *testing.T, uc *AuthUseCase, username, email string) *dto.UserResponse {
	t.Helper()
	u, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{
		Username: username, Email: email, Password: "secreto1", ConfirmPassword: "secreto1",
	})
	require.NoError(t, err)
	return u
}

func TestRegisterAndLogin(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()
	u := register(t, uc, "cliente_1", "cliente@example.com")
	assert.Equal(t, "customer", u.Role)
	assert.False(t, u.IsAdmin)

	res, err := uc.Login(ctx, dto.LoginRequest{Username: "cliente_1", Password: "secreto1"})
	require.NoError(t, err)
	assert.Equal(t, 3600, res.ExpiresIn)
	claims, err := jwt.Parse(testSecret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "customer", claims.Role)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "cliente_1", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Username: "nadie", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRegisterDuplicates(t *testing.T) {
	uc := newUseCase()
	register(t, uc, "cliente_1", "cliente@example.com")

	_, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{
		Username: "cliente_1", Email: "cliente@example.com", Password: "secreto1", ConfirmPassword: "secreto1",
	})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{msgUsernameTaken}, ve.Fields["username"])
	assert.Equal(t, []string{msgEmailTaken}, ve.Fields["email"])
}

func TestEnsureAdmin(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()
	created, err := uc.EnsureAdmin(ctx, "admin", "admin@example.com", "admin123")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = uc.EnsureAdmin(ctx, "admin", "admin@example.com", "admin123")
	require.NoError(t, err)
	assert.False(t, created)

	res, err := uc.Login(ctx, dto.LoginRequest{Username: "admin", Password: "admin123"})
	require.NoError(t, err)
	assert.True(t, res.User.IsAdmin)
	assert.Equal(t, "admin", res.User.Role)
}
