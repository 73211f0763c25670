package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/fieldserve/fieldservice-system/internal/core/domain"
	"github.com/fieldserve/fieldservice-system/internal/core/ports"
	"github.com/fieldserve/fieldservice-system/internal/core/tz"
)

// AuthService implements registration and login.
type AuthService struct {
	repo      ports.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(repo ports.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// defaultPermissions seeds a freshly registered user per role. Admins get
// everything; dispatchers run the office; technicians read their schedule.
func defaultPermissions(role string) domain.PermissionSet {
	switch role {
	case domain.RoleAdmin:
		return domain.PermissionSet{
			domain.PermViewJobs: true, domain.PermEditJobs: true,
			domain.PermViewCustomers: true, domain.PermEditCustomers: true,
			domain.PermViewInvoices: true, domain.PermEditInvoices: true,
			domain.PermViewCalendar: true, domain.PermManageSettings: true,
			domain.PermManageUsers: true,
		}
	case domain.RoleDispatcher:
		return domain.PermissionSet{
			domain.PermViewJobs: true, domain.PermEditJobs: true,
			domain.PermViewCustomers: true, domain.PermEditCustomers: true,
			domain.PermViewInvoices: true, domain.PermViewCalendar: true,
		}
	default: // technician
		return domain.PermissionSet{
			domain.PermViewJobs:     true,
			domain.PermViewCalendar: true,
		}
	}
}

func (s *AuthService) Register(ctx context.Context, email, password, name, role string) (*domain.User, error) {
	if email == "" || password == "" || role == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if role != domain.RoleAdmin && role != domain.RoleDispatcher && role != domain.RoleTechnician {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
		Permissions:  defaultPermissions(role),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// User returns the account with the given id.
func (s *AuthService) User(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, domain.ErrUserNotFound
	}
	return s.repo.FindByID(ctx, id)
}

// UpdateTimezone stores the user's preferred display zone. Unknown zones are
// rejected the same way the business settings reject them.
func (s *AuthService) UpdateTimezone(ctx context.Context, userID, zone string) (*domain.User, error) {
	if _, err := tz.ToLocal(time.Now().UTC(), zone); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateTimezone(ctx, userID, zone); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, userID)
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  user.Role,
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
