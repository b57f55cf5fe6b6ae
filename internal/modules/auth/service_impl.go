package auth

import (
	"context"
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/phamquangminh/brewpos-backend/internal/modules/employee"
)

type service struct {
	employeeRepo employee.Repository
	secret       []byte
	ttl          time.Duration
}

// NewService creates a new auth service.
func NewService(employeeRepo employee.Repository, secret string, ttl time.Duration) Service {
	return &service{employeeRepo: employeeRepo, secret: []byte(secret), ttl: ttl}
}

func (s *service) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	e, err := s.employeeRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, errors.New("invalid credentials")
	}
	if !e.IsActive {
		return nil, errors.New("account is deactivated")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte(password)); err != nil {
		return nil, errors.New("invalid credentials")
	}

	claims := &Claims{
		Role: string(e.Role),
		StandardClaims: jwt.StandardClaims{
			Subject:   e.ID.String(),
			ExpiresAt: time.Now().Add(s.ttl).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{Token: signed, Employee: e}, nil
}

// Claims is the JWT payload issued at login.
type Claims struct {
	Role string `json:"role"`
	jwt.StandardClaims
}
