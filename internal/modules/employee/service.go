package employee

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Service defines employee account business logic.
type Service interface {
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (*Employee, error)
	GetEmployee(ctx context.Context, id string) (*Employee, error)
	ListEmployees(ctx context.Context) ([]*Employee, error)
	UpdateEmployee(ctx context.Context, id string, req UpdateEmployeeRequest) (*Employee, error)
	DeactivateEmployee(ctx context.Context, id string) error
}

type service struct{ repo Repository }

// NewService creates a new employee service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (*Employee, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if len(req.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}
	role, err := parseRole(req.Role)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	e := &Employee{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(req.FullName),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         role,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *service) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListEmployees(ctx context.Context) ([]*Employee, error) {
	return s.repo.List(ctx)
}

func (s *service) UpdateEmployee(ctx context.Context, id string, req UpdateEmployeeRequest) (*Employee, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("employee not found: %w", err)
	}
	if strings.TrimSpace(req.FullName) != "" {
		e.FullName = strings.TrimSpace(req.FullName)
	}
	e.Phone = strings.TrimSpace(req.Phone)
	if req.Role != "" {
		role, err := parseRole(req.Role)
		if err != nil {
			return nil, err
		}
		e.Role = role
	}
	if req.IsActive != nil {
		e.IsActive = *req.IsActive
	}
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *service) DeactivateEmployee(ctx context.Context, id string) error {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("employee not found: %w", err)
	}
	e.IsActive = false
	return s.repo.Update(ctx, e)
}

func parseRole(raw string) (Role, error) {
	role := Role(strings.ToUpper(strings.TrimSpace(raw)))
	switch role {
	case RoleAdmin, RoleManager, RoleCashier:
		return role, nil
	default:
		return "", fmt.Errorf("invalid role: %s (allowed: ADMIN, MANAGER, CASHIER)", raw)
	}
}
