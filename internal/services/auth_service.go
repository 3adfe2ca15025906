package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"

	"storefront/internal/domain"
	infraredis "storefront/internal/infra/redis"
	"storefront/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     *string
	Password  string
}

// AuthService owns customer credentials and bearer sessions. Plaintext
// passwords never leave this type and are never logged.
type AuthService struct {
	customers  repository.CustomerRepository
	sessions   infraredis.SessionStore
	bcryptCost int
}

func NewAuthService(c repository.CustomerRepository, s infraredis.SessionStore, bcryptCost int) *AuthService {
	return &AuthService{customers: c, sessions: s, bcryptCost: bcryptCost}
}

func (a *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.Customer, string, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if in.FirstName == "" {
		return nil, "", fmt.Errorf("%w: first name is required", domain.ErrValidation)
	}
	in.Email = strings.TrimSpace(in.Email)
	if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
		return nil, "", fmt.Errorf("%w: invalid email", domain.ErrValidation)
	}
	if len(in.Password) < minPasswordLength {
		return nil, "", fmt.Errorf("%w: password must have at least %d characters", domain.ErrValidation, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), a.bcryptCost)
	if err != nil {
		return nil, "", err
	}

	c := &domain.Customer{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Phone:        normalizePhone(in.Phone),
		PasswordHash: string(hash),
		Role:         domain.RoleCustomer,
	}
	if err := a.customers.Create(ctx, c); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	token, err := a.sessions.Create(ctx, c.ID)
	if err != nil {
		return nil, "", err
	}
	log.Printf("Customer %d registered", c.ID)
	return c, token, nil
}

func (a *AuthService) Login(ctx context.Context, email, password string) (*domain.Customer, string, error) {
	c, err := a.customers.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	if c == nil || c.PasswordHash == "" {
		return nil, "", domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)); err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := a.sessions.Create(ctx, c.ID)
	if err != nil {
		return nil, "", err
	}
	return c, token, nil
}

// ResolveIdentity maps a bearer token to its customer. Missing, unknown and
// expired tokens, and tokens of deleted customers, all yield ErrUnauthorized.
func (a *AuthService) ResolveIdentity(ctx context.Context, token string) (*domain.Customer, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}
	id, err := a.sessions.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, infraredis.ErrSessionNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}

	c, err := a.customers.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	if c == nil {
		return nil, domain.ErrUnauthorized
	}
	return c, nil
}

func (a *AuthService) Logout(ctx context.Context, token string) error {
	return a.sessions.Revoke(ctx, token)
}

// UpdateProfile changes only the fields present in u.
func (a *AuthService) UpdateProfile(ctx context.Context, id uint64, u repository.ProfileUpdate) (*domain.Customer, error) {
	u.FirstName = trimmed(u.FirstName)
	u.LastName = trimmed(u.LastName)
	u.Phone = trimmed(u.Phone)
	if u.FirstName != nil && *u.FirstName == "" {
		return nil, fmt.Errorf("%w: first name is required", domain.ErrValidation)
	}
	if err := a.customers.UpdateProfile(ctx, id, u); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	c, err := a.customers.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	if c == nil {
		return nil, domain.ErrCustomerNotFound
	}
	return c, nil
}

func (a *AuthService) ChangePassword(ctx context.Context, id uint64, current, next string) error {
	if len(next) < minPasswordLength {
		return fmt.Errorf("%w: password must have at least %d characters", domain.ErrValidation, minPasswordLength)
	}

	c, err := a.customers.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	if c == nil {
		return domain.ErrCustomerNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(current)); err != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), a.bcryptCost)
	if err != nil {
		return err
	}
	if err := a.customers.UpdatePasswordHash(ctx, id, string(hash)); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	log.Printf("Customer %d changed password", id)
	return nil
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}

func normalizePhone(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}
