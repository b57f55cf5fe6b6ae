package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/phamquangminh/brewpos-backend/internal/modules/employee"
)

type fakeEmployees struct {
	employee.Repository

	byEmail map[string]*employee.Employee
}

func (f *fakeEmployees) GetByEmail(ctx context.Context, email string) (*employee.Employee, error) {
	e, ok := f.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("employee %s not found", email)
	}
	return e, nil
}

func seedEmployee(t *testing.T, email, password string, active bool) *fakeEmployees {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	return &fakeEmployees{byEmail: map[string]*employee.Employee{
		email: {
			ID:           uuid.New(),
			Email:        email,
			PasswordHash: string(hash),
			FullName:     "Trần Thu Hà",
			Role:         employee.RoleCashier,
			IsActive:     active,
		},
	}}
}

func TestLogin(t *testing.T) {
	repo := seedEmployee(t, "ha@brewpos.vn", "matkhau123", true)
	svc := NewService(repo, "test-secret", time.Hour)

	res, err := svc.Login(context.Background(), "ha@brewpos.vn", "matkhau123")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "ha@brewpos.vn", res.Employee.(*employee.Employee).Email)
}

func TestLoginFailures(t *testing.T) {
	repo := seedEmployee(t, "ha@brewpos.vn", "matkhau123", true)
	svc := NewService(repo, "test-secret", time.Hour)

	_, err := svc.Login(context.Background(), "ha@brewpos.vn", "sai-mat-khau")
	assert.EqualError(t, err, "invalid credentials")

	_, err = svc.Login(context.Background(), "ai-do@brewpos.vn", "matkhau123")
	assert.EqualError(t, err, "invalid credentials")

	inactive := seedEmployee(t, "cu@brewpos.vn", "matkhau123", false)
	svc = NewService(inactive, "test-secret", time.Hour)
	_, err = svc.Login(context.Background(), "cu@brewpos.vn", "matkhau123")
	assert.EqualError(t, err, "account is deactivated")
}

func TestMiddlewareRoundTrip(t *testing.T) {
	repo := seedEmployee(t, "ha@brewpos.vn", "matkhau123", true)
	svc := NewService(repo, "test-secret", time.Hour)
	res, err := svc.Login(context.Background(), "ha@brewpos.vn", "matkhau123")
	require.NoError(t, err)

	var gotID, gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = EmployeeID(r.Context())
		gotRole, _ = Role(r.Context())
	})
	handler := Middleware("test-secret")(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+res.Token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, res.Employee.(*employee.Employee).ID.String(), gotID)
	assert.Equal(t, string(employee.RoleCashier), gotRole)
}

func TestMiddlewareRejects(t *testing.T) {
	handler := Middleware("test-secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	// No token.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Token signed with another secret.
	repo := seedEmployee(t, "ha@brewpos.vn", "matkhau123", true)
	other := NewService(repo, "someone-elses-secret", time.Hour)
	res, err := other.Login(context.Background(), "ha@brewpos.vn", "matkhau123")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+res.Token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
