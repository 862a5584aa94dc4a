package services

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/config"
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/dto"
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/models"
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/testutil"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(testutil.NewDB(t), &config.Config{JWTSecret: "test-secret", JWTExpiry: 7 * 24 * time.Hour})
}

func validRegistration() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Name:            "Ada Obi",
		Email:           "Ada@Example.com",
		Password:        "Secret123",
		ConfirmPassword: "Secret123",
	}
}

func TestAuthRegister_IssuesTokenForNewUser(t *testing.T) {
	s := newAuthService(t)

	resp, err := s.Register(validRegistration())
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.Equal(t, models.RoleUser, resp.User.Role)
	assert.Equal(t, models.UserActive, resp.User.Status)

	token, err := jwt.Parse(resp.Token, func(*jwt.Token) (interface{}, error) { return []byte("test-secret"), nil })
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, resp.User.ID.String(), claims["sub"])
	assert.Equal(t, "USER", claims["role"])

	id, err := s.ParseToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, id)

	var stored models.User
	require.NoError(t, s.db.First(&stored, "id = ?", resp.User.ID).Error)
	cost, err := bcrypt.Cost([]byte(stored.PasswordHash))
	require.NoError(t, err)
	assert.Equal(t, 12, cost)
}

func TestAuthRegister_Validation(t *testing.T) {
	s := newAuthService(t)

	cases := map[string]func(r *dto.RegisterRequest){
		"missing name":         func(r *dto.RegisterRequest) { r.Name = "" },
		"bad email":            func(r *dto.RegisterRequest) { r.Email = "ada@" },
		"mismatch":             func(r *dto.RegisterRequest) { r.ConfirmPassword = "Secret124" },
		"too short":            func(r *dto.RegisterRequest) { r.Password, r.ConfirmPassword = "Sec1", "Sec1" },
		"no digit":             func(r *dto.RegisterRequest) { r.Password, r.ConfirmPassword = "SecretPass", "SecretPass" },
		"no uppercase":         func(r *dto.RegisterRequest) { r.Password, r.ConfirmPassword = "secret123", "secret123" },
		"missing confirmation": func(r *dto.RegisterRequest) { r.ConfirmPassword = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := validRegistration()
			mutate(req)
			_, err := s.Register(req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAuthRegister_DuplicateEmail(t *testing.T) {
	s := newAuthService(t)

	_, err := s.Register(validRegistration())
	require.NoError(t, err)

	_, err = s.Register(validRegistration())
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, "User with this email already exists", err.Error())
}

func TestAuthLogin(t *testing.T) {
	s := newAuthService(t)
	reg, err := s.Register(validRegistration())
	require.NoError(t, err)

	resp, err := s.Login(&dto.LoginRequest{Email: "ada@example.com", Password: "Secret123"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, resp.User.ID)

	_, err = s.Login(&dto.LoginRequest{Email: "ada@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Login(&dto.LoginRequest{Email: "nobody@example.com", Password: "Secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, s.db.Model(&models.User{}).Where("id = ?", reg.User.ID).Update("status", models.UserSuspended).Error)
	_, err = s.Login(&dto.LoginRequest{Email: "ada@example.com", Password: "Secret123"})
	assert.ErrorIs(t, err, ErrAccountSuspended)
	assert.Equal(t, "Account is suspended. Please contact support.", err.Error())
}

func TestAuthParseToken_RejectsForeignSignature(t *testing.T) {
	s := newAuthService(t)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x", "exp": time.Now().Add(time.Hour).Unix()})
	raw, err := forged.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	_, err = s.ParseToken(raw)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
