// seed_users crea cuentas de staff (coach/admin) o de prueba directamente en PostgreSQL.
// El registro público siempre crea free/member; este comando es la única vía para otros roles.
//
// Uso: go run ./cmd/seed_users <email> <password> [role] [tier]
// role por defecto "admin", tier por defecto "ultimate". Usa la misma configuración que la API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/red2blue-api/internal/domain"
	"github.com/jhoicas/red2blue-api/internal/domain/entity"
	"github.com/jhoicas/red2blue-api/internal/infrastructure/postgres"
	"github.com/jhoicas/red2blue-api/pkg/config"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "uso: seed_users <email> <password> [role] [tier]")
		os.Exit(2)
	}
	email := strings.ToLower(strings.TrimSpace(os.Args[1]))
	password := os.Args[2]
	role := entity.RoleAdmin
	if len(os.Args) > 3 {
		role = entity.Role(strings.ToLower(os.Args[3]))
	}
	tier := entity.TierUltimate
	if len(os.Args) > 4 {
		tier = entity.SubscriptionTier(strings.ToLower(os.Args[4]))
	}
	if err := validate(email, password, role, tier); err != nil {
		fmt.Fprintf(os.Stderr, "Argumentos: %v\n", err)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "Esquema: %v\n", err)
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Hash: %v\n", err)
		os.Exit(1)
	}
	now := time.Now()
	user := &entity.User{
		ID:               uuid.New().String(),
		Email:            email,
		Username:         email,
		PasswordHash:     string(hash),
		SubscriptionTier: tier,
		Role:             role,
		Status:           "active",
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	repo := postgres.NewUserRepository(pool)
	if err := repo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			fmt.Fprintf(os.Stderr, "Ya existe un usuario con email %s\n", email)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Crear usuario: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Usuario %s creado (id=%s role=%s tier=%s)\n", email, user.ID, role, tier)
}

func validate(email, password string, role entity.Role, tier entity.SubscriptionTier) error {
	if !strings.Contains(email, "@") {
		return fmt.Errorf("email inválido %q", email)
	}
	if len(password) < 8 {
		return errors.New("password debe tener al menos 8 caracteres")
	}
	switch role {
	case entity.RoleMember, entity.RoleCoach, entity.RoleAdmin:
	default:
		return fmt.Errorf("role desconocido %q", role)
	}
	if !tier.Known() {
		return fmt.Errorf("tier desconocido %q", tier)
	}
	return nil
}
