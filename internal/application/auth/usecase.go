package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/red2blue-api/internal/application/dto"
	"github.com/jhoicas/red2blue-api/internal/domain"
	"github.com/jhoicas/red2blue-api/internal/domain/entity"
	"github.com/jhoicas/red2blue-api/internal/domain/repository"
	"github.com/jhoicas/red2blue-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro, login y perfil.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg, now: time.Now}
}

// RegisterUser crea un usuario free/member: hashea password con bcrypt y persiste.
// Devuelve ErrEmailAlreadyExists si el email ya existe.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("email: %w", domain.ErrInvalidInput)
	}
	if len(in.Password) < 8 {
		return nil, fmt.Errorf("password debe tener al menos 8 caracteres: %w", domain.ErrInvalidInput)
	}
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	username := strings.TrimSpace(in.Username)
	if username == "" {
		username = email
	}
	user := &entity.User{
		ID:               uuid.New().String(),
		Email:            email,
		Username:         username,
		PasswordHash:     string(hash),
		SubscriptionTier: entity.TierFree,
		Role:             entity.RoleMember,
		Status:           "active",
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != "active" {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, string(user.Role), string(user.SubscriptionTier), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

// Me perfil actual, leído del almacén (el tier del token puede estar desactualizado).
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return toUserResponse(user), nil
}

// SetTier cambia el tier de un usuario (operación de administración tras un pago).
func (uc *AuthUseCase) SetTier(ctx context.Context, userID string, in dto.UpdateTierRequest) (*dto.UserResponse, error) {
	tier := entity.SubscriptionTier(strings.ToLower(strings.TrimSpace(in.Tier)))
	if !tier.Known() {
		return nil, fmt.Errorf("tier %q: %w", in.Tier, domain.ErrInvalidInput)
	}
	if err := uc.userRepo.UpdateTier(ctx, userID, tier); err != nil {
		return nil, err
	}
	return uc.Me(ctx, userID)
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:               u.ID,
		Email:            u.Email,
		Username:         u.Username,
		SubscriptionTier: string(u.SubscriptionTier),
		Role:             string(u.Role),
		Status:           u.Status,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}
