package authsvc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"librarian/model"
	authrepo "librarian/repository/auth"
	"librarian/util/hash"
)

type mockRepo struct {
	byEmailFn func(ctx context.Context, email string) (*model.User, error)
	createFn  func(ctx context.Context, u *model.User) error
}

var _ authrepo.Repo = (*mockRepo)(nil)

func (m *mockRepo) ByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.byEmailFn == nil {
		return nil, nil
	}
	return m.byEmailFn(ctx, email)
}

func (m *mockRepo) Create(ctx context.Context, u *model.User) error {
	if m.createFn == nil {
		return nil
	}
	return m.createFn(ctx, u)
}

func TestRegister_Success(t *testing.T) {
	ctx := context.Background()
	m := &mockRepo{
		createFn: func(ctx context.Context, u *model.User) error {
			u.ID = 42
			return nil
		},
	}
	svc := New(m, "test-secret")

	req := model.RegisterReq{
		FirstName: "Avery",
		LastName:  "Quinn",
		Email:     "USER@Example.COM",
		Password:  "supersecret",
	}

	u, tok, err := svc.Register(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, u)
	require.NotEmpty(t, tok)
	require.Equal(t, int64(42), u.ID)
	require.Equal(t, "user@example.com", u.Email)
	require.Equal(t, model.RolePatron, u.Role)
}

func TestRegister_RepoError(t *testing.T) {
	m := &mockRepo{
		createFn: func(ctx context.Context, u *model.User) error {
			return errors.New("boom")
		},
	}
	svc := New(m, "test-secret")

	_, _, err := svc.Register(context.Background(), model.RegisterReq{
		FirstName: "A", LastName: "B", Email: "a@b.c", Password: "pass123",
	})
	require.Error(t, err)
}

func TestLogin(t *testing.T) {
	hashed, err := hash.HashPassword("correct-horse")
	require.NoError(t, err)

	m := &mockRepo{
		byEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: 42, Email: email, Role: model.RoleStaff, PasswordHash: hashed}, nil
		},
	}
	svc := New(m, "test-secret")

	u, tok, err := svc.Login(context.Background(), model.LoginReq{Email: "s@lib.org", Password: "correct-horse"})
	require.NoError(t, err)
	require.NotEmpty(t, tok)
	require.Equal(t, model.RoleStaff, u.Role)

	_, _, err = svc.Login(context.Background(), model.LoginReq{Email: "s@lib.org", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCreds)
}
