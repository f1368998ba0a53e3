package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"lessons-api/internal/domain"
)

type mockUserRepo struct {
	byID    map[string]domain.User
	byEmail map[string]domain.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]domain.User),
	}
}

func (m *mockUserRepo) Create(ctx context.Context, user domain.User) error {
	m.byID[user.ID] = user
	m.byEmail[user.Email] = user
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	user, ok := m.byID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	user, ok := m.byEmail[email]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) List(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, user := range m.byID {
		out = append(out, user)
	}
	return out, nil
}

func (m *mockUserRepo) seed(t *testing.T, id, email, password string, active bool) domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("unexpected error hashing: %v", err)
	}
	user := domain.User{
		ID:           id,
		Name:         "Seeded",
		Email:        email,
		Role:         domain.RoleContributor,
		PasswordHash: string(hash),
		IsActive:     active,
	}
	m.byID[id] = user
	m.byEmail[email] = user
	return user
}

func newTestUserService(repo *mockUserRepo) *UserService {
	return NewUserService(zap.NewNop(), repo, nil)
}

func TestUserService_Register(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestUserService(repo)

	user, err := svc.Register(context.Background(), RegisterInput{
		Name:     "  Alice  ",
		Email:    "  ALICE@Example.com ",
		Password: "s3cret",
		Role:     domain.RoleProjectManager,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected a generated id")
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.Name != "Alice" {
		t.Fatalf("expected trimmed name, got %q", user.Name)
	}
	if user.Role != domain.RoleProjectManager || !user.IsActive {
		t.Fatalf("unexpected user: %+v", user)
	}
	if user.PasswordHash == "s3cret" || user.PasswordHash == "" {
		t.Fatalf("password must be stored hashed")
	}
	if _, ok := repo.byEmail["alice@example.com"]; !ok {
		t.Fatalf("expected user to be persisted")
	}
}

func TestUserService_RegisterDefaultsRole(t *testing.T) {
	svc := newTestUserService(newMockUserRepo())

	user, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Bob",
		Email:    "bob@example.com",
		Password: "pw",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Role != domain.RoleContributor {
		t.Fatalf("expected contributor by default, got %q", user.Role)
	}
}

func TestUserService_RegisterValidation(t *testing.T) {
	svc := newTestUserService(newMockUserRepo())

	cases := []struct {
		name  string
		input RegisterInput
		want  error
	}{
		{"empty email", RegisterInput{Password: "pw"}, ErrInvalidEmail},
		{"bad email", RegisterInput{Email: "not-an-email", Password: "pw"}, ErrInvalidEmail},
		{"empty password", RegisterInput{Email: "a@b.com"}, ErrPasswordRequired},
		{"unknown role", RegisterInput{Email: "a@b.com", Password: "pw", Role: "superuser"}, ErrInvalidRole},
	}
	for _, tc := range cases {
		if _, err := svc.Register(context.Background(), tc.input); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestUserService_RegisterEmailTaken(t *testing.T) {
	repo := newMockUserRepo()
	repo.seed(t, "user-1", "alice@example.com", "pw", true)
	svc := newTestUserService(repo)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "Alice@Example.com",
		Password: "other",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserService_Authenticate(t *testing.T) {
	repo := newMockUserRepo()
	repo.seed(t, "user-1", "alice@example.com", "s3cret", true)
	svc := newTestUserService(repo)

	user, err := svc.Authenticate(context.Background(), " ALICE@example.com ", "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "user-1" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestUserService_AuthenticateInvalidCredentials(t *testing.T) {
	repo := newMockUserRepo()
	repo.seed(t, "user-1", "alice@example.com", "s3cret", true)
	repo.seed(t, "user-2", "inactive@example.com", "pw", false)
	svc := newTestUserService(repo)

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@example.com", "pw"},
		{"wrong password", "alice@example.com", "wrong"},
		{"inactive user", "inactive@example.com", "pw"},
		{"empty password", "alice@example.com", ""},
	}
	for _, tc := range cases {
		if _, err := svc.Authenticate(context.Background(), tc.email, tc.password); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("%s: expected ErrInvalidCredentials, got %v", tc.name, err)
		}
	}
}

func TestUserService_AuthenticateRateLimited(t *testing.T) {
	repo := newMockUserRepo()
	repo.seed(t, "user-1", "alice@example.com", "s3cret", true)
	svc := NewUserService(zap.NewNop(), repo, NewLoginRateLimiter(loginWindow, 2))

	for i := 0; i < 2; i++ {
		if _, err := svc.Authenticate(context.Background(), "alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i, err)
		}
	}
	if _, err := svc.Authenticate(context.Background(), "alice@example.com", "s3cret"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestUserService_GetByID(t *testing.T) {
	repo := newMockUserRepo()
	repo.seed(t, "user-1", "alice@example.com", "pw", true)
	svc := newTestUserService(repo)

	if _, err := svc.GetByID(context.Background(), "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
