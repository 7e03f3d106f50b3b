package authservice

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"cloudnest/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type MockUserAdder struct {
	mock.Mock
}

func (m *MockUserAdder) AddUser(ctx context.Context, user models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type MockUserProvider struct {
	mock.Mock
}

func (m *MockUserProvider) UserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserProvider) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(*models.User), args.Error(1)
}

type MockSessionStorer struct {
	mock.Mock
}

func (m *MockSessionStorer) SaveSession(ctx context.Context, token string, userJSON string) error {
	args := m.Called(ctx, token, userJSON)
	return args.Error(0)
}

func (m *MockSessionStorer) DeleteSession(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockSessionStorer) GetUserByToken(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func TestRegister_Success(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockAdder := new(MockUserAdder)
	service := New(slog.Default(), mockAdder, nil, nil)

	admin := &models.User{ID: "a1", Email: "admin@example.com", Role: models.RoleAdmin}

	mockAdder.On("AddUser", ctx, mock.MatchedBy(func(u models.User) bool {
		return u.Email == "new@example.com" && u.Role == models.RoleRegular && len(u.PassHash) > 0
	})).Return(nil)

	email, err := service.Register(ctx, admin, "new@example.com", "password123", "")

	assert.NoError(t, err)
	assert.Equal(t, "new@example.com", email)
	mockAdder.AssertExpectations(t)
}

func TestRegister_Fail_NotAdmin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service := New(slog.Default(), nil, nil, nil)

	regular := &models.User{ID: "u1", Email: "user@example.com", Role: models.RoleRegular}

	_, err := service.Register(ctx, regular, "new@example.com", "password123", "")

	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestRegister_Fail_NilRequester(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service := New(slog.Default(), nil, nil, nil)

	_, err := service.Register(ctx, nil, "new@example.com", "password123", "")

	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestRegister_Fail_InvalidEmail(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service := New(slog.Default(), nil, nil, nil)

	admin := &models.User{ID: "a1", Email: "admin@example.com", Role: models.RoleAdmin}

	_, err := service.Register(ctx, admin, "not-an-email", "password123", "")

	assert.ErrorIs(t, err, models.ErrInvalidParams)
}

func TestRegister_Fail_ShortPassword(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service := New(slog.Default(), nil, nil, nil)

	admin := &models.User{ID: "a1", Email: "admin@example.com", Role: models.RoleAdmin}

	_, err := service.Register(ctx, admin, "new@example.com", "short", "")

	assert.ErrorIs(t, err, models.ErrInvalidParams)
}

func TestRegister_Fail_UnknownRole(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service := New(slog.Default(), nil, nil, nil)

	admin := &models.User{ID: "a1", Email: "admin@example.com", Role: models.RoleAdmin}

	_, err := service.Register(ctx, admin, "new@example.com", "password123", "superuser")

	assert.ErrorIs(t, err, models.ErrInvalidParams)
}

func TestRegister_Fail_UserExists(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockAdder := new(MockUserAdder)
	service := New(slog.Default(), mockAdder, nil, nil)

	admin := &models.User{ID: "a1", Email: "admin@example.com", Role: models.RoleAdmin}

	mockAdder.On("AddUser", ctx, mock.Anything).Return(models.ErrUserExists)

	_, err := service.Register(ctx, admin, "new@example.com", "password123", "")

	assert.ErrorIs(t, err, models.ErrUserExists)
}

func TestEnsureAdmin_AlreadyExists(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockAdder := new(MockUserAdder)
	mockProvider := new(MockUserProvider)
	service := New(slog.Default(), mockAdder, mockProvider, nil)

	admin := &models.User{ID: "a1", Email: "admin@example.com", Role: models.RoleAdmin}

	mockProvider.On("UserByEmail", ctx, "admin@example.com").Return(admin, nil)

	err := service.EnsureAdmin(ctx, "admin@example.com", "password123")

	assert.NoError(t, err)
	mockAdder.AssertNotCalled(t, "AddUser", ctx, mock.Anything)
}

func TestEnsureAdmin_SeedsAccount(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockAdder := new(MockUserAdder)
	mockProvider := new(MockUserProvider)
	service := New(slog.Default(), mockAdder, mockProvider, nil)

	mockProvider.On("UserByEmail", ctx, "admin@example.com").
		Return((*models.User)(nil), models.ErrUserNotFound)
	mockAdder.On("AddUser", ctx, mock.MatchedBy(func(u models.User) bool {
		return u.Email == "admin@example.com" && u.Role == models.RoleAdmin
	})).Return(nil)

	err := service.EnsureAdmin(ctx, "admin@example.com", "password123")

	assert.NoError(t, err)
	mockAdder.AssertExpectations(t)
}

func TestEnsureAdmin_LostRace(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockAdder := new(MockUserAdder)
	mockProvider := new(MockUserProvider)
	service := New(slog.Default(), mockAdder, mockProvider, nil)

	mockProvider.On("UserByEmail", ctx, "admin@example.com").
		Return((*models.User)(nil), models.ErrUserNotFound)
	mockAdder.On("AddUser", ctx, mock.Anything).Return(models.ErrUserExists)

	err := service.EnsureAdmin(ctx, "admin@example.com", "password123")

	assert.NoError(t, err)
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockProvider := new(MockUserProvider)
	mockSessions := new(MockSessionStorer)
	service := New(slog.Default(), nil, mockProvider, mockSessions)

	passHash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	assert.NoError(t, err)

	user := &models.User{ID: "u1", Email: "user@example.com", Role: models.RoleRegular, PassHash: passHash}

	mockProvider.On("UserByEmail", ctx, "user@example.com").Return(user, nil)
	mockSessions.On("SaveSession", ctx, mock.Anything, mock.Anything).Return(nil)

	token, err := service.Login(ctx, "user@example.com", "password123")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	mockSessions.AssertExpectations(t)
}

func TestLogin_Fail_WrongPassword(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockProvider := new(MockUserProvider)
	service := New(slog.Default(), nil, mockProvider, nil)

	passHash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	assert.NoError(t, err)

	user := &models.User{ID: "u1", Email: "user@example.com", PassHash: passHash}

	mockProvider.On("UserByEmail", ctx, "user@example.com").Return(user, nil)

	_, err = service.Login(ctx, "user@example.com", "wrong-password")

	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestLogin_Fail_UserNotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockProvider := new(MockUserProvider)
	service := New(slog.Default(), nil, mockProvider, nil)

	mockProvider.On("UserByEmail", ctx, "missing@example.com").
		Return((*models.User)(nil), models.ErrUserNotFound)

	_, err := service.Login(ctx, "missing@example.com", "password123")

	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestUserByToken_Success(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockSessions := new(MockSessionStorer)
	service := New(slog.Default(), nil, nil, mockSessions)

	user := models.User{ID: "u1", Email: "user@example.com", Role: models.RoleRegular}
	userJSON, err := json.Marshal(user)
	assert.NoError(t, err)

	mockSessions.On("GetUserByToken", ctx, "tok").Return(string(userJSON), nil)

	got, err := service.UserByToken(ctx, "tok")

	assert.NoError(t, err)
	assert.Equal(t, "user@example.com", got.Email)
}

func TestUserByToken_Fail_SessionNotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockSessions := new(MockSessionStorer)
	service := New(slog.Default(), nil, nil, mockSessions)

	mockSessions.On("GetUserByToken", ctx, "bad").Return("", models.ErrSessionNotFound)

	_, err := service.UserByToken(ctx, "bad")

	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestLogout_Success(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockSessions := new(MockSessionStorer)
	service := New(slog.Default(), nil, nil, mockSessions)

	mockSessions.On("DeleteSession", ctx, "tok").Return(nil)

	err := service.Logout(ctx, "tok")

	assert.NoError(t, err)
	mockSessions.AssertExpectations(t)
}

func TestLogout_Fail_SessionNotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockSessions := new(MockSessionStorer)
	service := New(slog.Default(), nil, nil, mockSessions)

	mockSessions.On("DeleteSession", ctx, "bad").Return(models.ErrSessionNotFound)

	err := service.Logout(ctx, "bad")

	assert.ErrorIs(t, err, models.ErrSessionNotFound)
}

func TestLogin_Fail_SessionStoreDown(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockProvider := new(MockUserProvider)
	mockSessions := new(MockSessionStorer)
	service := New(slog.Default(), nil, mockProvider, mockSessions)

	passHash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	assert.NoError(t, err)

	user := &models.User{ID: "u1", Email: "user@example.com", PassHash: passHash}

	mockProvider.On("UserByEmail", ctx, "user@example.com").Return(user, nil)
	mockSessions.On("SaveSession", ctx, mock.Anything, mock.Anything).Return(errors.New("redis down"))

	_, err = service.Login(ctx, "user@example.com", "password123")

	assert.ErrorIs(t, err, models.ErrInternal)
}
