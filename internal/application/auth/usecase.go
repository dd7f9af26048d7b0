package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/internal/application/forms"
	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
	"github.com/jhoicas/Suministros-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgUsernameTaken = "Este nombre de usuario ya está en uso. Por favor, elige otro."
	msgEmailTaken    = "Este correo electrónico ya está registrado. Por favor, usa otro."
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// RegisterUser crea un cliente: valida el formulario, comprueba unicidad de usuario y email,
// hashea el password con bcrypt y persiste. Los administradores solo se crean con EnsureAdmin.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	if err := forms.Register(in); err != nil {
		return nil, err
	}
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	v := domain.NewValidationError()
	existing, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		v.Add("username", msgUsernameTaken)
	}
	existing, err = uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		v.Add("email", msgEmailTaken)
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	user, err := newUser(username, email, in.Password, false)
	if err != nil {
		return nil, err
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		// carrera entre la comprobación y el insert
		switch {
		case errors.Is(err, domain.ErrUsernameTaken):
			return nil, domain.FieldError("username", msgUsernameTaken)
		case errors.Is(err, domain.ErrEmailAlreadyExists):
			return nil, domain.FieldError("email", msgEmailTaken)
		}
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login verifica usuario/password, genera JWT y retorna token + usuario.
// Usuario inexistente y password incorrecto devuelven el mismo ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := forms.Login(in); err != nil {
		return nil, err
	}
	user, err := uc.userRepo.GetByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Username, user.Role(), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("auth: generar token: %w", err)
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: uc.jwtCfg.ExpMinutes * 60,
		User:      *toUserResponse(user),
	}, nil
}

// GetUser obtiene un usuario por ID. (nil, nil) si no existe.
func (uc *AuthUseCase) GetUser(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil || user == nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// EnsureAdmin crea la cuenta de administrador si el usuario no existe todavía.
// Devuelve true si la creó.
func (uc *AuthUseCase) EnsureAdmin(ctx context.Context, username, email, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}
	existing, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	user, err := newUser(username, email, password, true)
	if err != nil {
		return false, err
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return false, fmt.Errorf("auth: crear administrador: %w", err)
	}
	return true, nil
}

func newUser(username, email, password string, isAdmin bool) (*entity.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      isAdmin,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role(),
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}
