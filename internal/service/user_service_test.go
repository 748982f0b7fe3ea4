package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"blog-server/internal/domain"
)

type fakeUserRepo struct {
	users  []domain.User
	nextID int64
}

func (f *fakeUserRepo) Init(ctx context.Context) error { return nil }

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) (int64, error) {
	for _, existing := range f.users {
		if existing.Username == user.Username {
			return 0, fmt.Errorf("user already exists")
		}
	}
	f.nextID++
	user.ID = f.nextID
	f.users = append(f.users, *user)
	return user.ID, nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for i := range f.users {
		if f.users[i].Username == username {
			user := f.users[i]
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user not found")
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			user := f.users[i]
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user not found")
}

func TestRegisterDefaultsToReader(t *testing.T) {
	svc := NewUserService(&fakeUserRepo{})

	user, err := svc.Register(context.Background(), "alice", "password123", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != domain.RoleReader {
		t.Fatalf("role = %q, want Reader", user.Role)
	}
	if user.PasswordHash != "" {
		t.Fatal("password hash leaked out of the service")
	}
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc := NewUserService(&fakeUserRepo{})

	if _, err := svc.Register(context.Background(), "alice", "password123", "Overlord"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := NewUserService(repo)
	ctx := context.Background()

	first, err := svc.Register(ctx, "alice", "password123", domain.RoleWriter)
	if err != nil {
		t.Fatalf("first register: %v", err)
	}

	if _, err := svc.Register(ctx, "alice", "different-pass", domain.RoleAdmin); !errors.Is(err, ErrUserAlreadyExists) {
		t.Fatalf("err = %v, want ErrUserAlreadyExists", err)
	}

	// first record must be untouched
	stored, err := repo.GetByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("get first user: %v", err)
	}
	if stored.Role != domain.RoleWriter {
		t.Fatalf("first user role changed to %q", stored.Role)
	}
}

func TestAuthenticate(t *testing.T) {
	svc := NewUserService(&fakeUserRepo{})
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "password123", ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	user, err := svc.Authenticate(ctx, "alice", "password123")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.Username != "alice" || user.PasswordHash != "" {
		t.Fatalf("unexpected user %+v", user)
	}

	if _, err := svc.Authenticate(ctx, "alice", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user err = %v, want ErrInvalidCredentials", err)
	}
}
