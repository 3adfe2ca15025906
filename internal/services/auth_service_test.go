package services

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"
	infraredis "storefront/internal/infra/redis"
	"storefront/internal/mocks"
	"storefront/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func hashFor(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestAuthService_Register(t *testing.T) {
	phone := "  555-0101 "

	tests := []struct {
		name          string
		input         RegisterInput
		setupMocks    func(*mocks.MockCustomerRepository, *mocks.MockSessionStore)
		expectedError error
	}{
		{
			name:  "successful registration",
			input: RegisterInput{FirstName: "Ana", LastName: "Ruiz", Email: "ana@example.com", Phone: &phone, Password: "secret1"},
			setupMocks: func(repo *mocks.MockCustomerRepository, sessions *mocks.MockSessionStore) {
				repo.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Customer) bool {
					return c.Role == domain.RoleCustomer && c.Phone != nil && *c.Phone == "555-0101" &&
						bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte("secret1")) == nil
				})).Return(nil).Run(func(args mock.Arguments) {
					args.Get(1).(*domain.Customer).ID = 11
				})
				sessions.On("Create", mock.Anything, uint64(11)).Return("token-11", nil)
			},
		},
		{
			name:          "missing first name",
			input:         RegisterInput{FirstName: "  ", Email: "ana@example.com", Password: "secret1"},
			setupMocks:    func(*mocks.MockCustomerRepository, *mocks.MockSessionStore) {},
			expectedError: domain.ErrValidation,
		},
		{
			name:          "invalid email",
			input:         RegisterInput{FirstName: "Ana", Email: "not-an-email", Password: "secret1"},
			setupMocks:    func(*mocks.MockCustomerRepository, *mocks.MockSessionStore) {},
			expectedError: domain.ErrValidation,
		},
		{
			name:          "email with display name",
			input:         RegisterInput{FirstName: "Bob", Email: "Bob <bob@x.io>", Password: "secret1"},
			setupMocks:    func(*mocks.MockCustomerRepository, *mocks.MockSessionStore) {},
			expectedError: domain.ErrValidation,
		},
		{
			name:          "short password",
			input:         RegisterInput{FirstName: "Ana", Email: "ana@example.com", Password: "12345"},
			setupMocks:    func(*mocks.MockCustomerRepository, *mocks.MockSessionStore) {},
			expectedError: domain.ErrValidation,
		},
		{
			name:  "email already registered",
			input: RegisterInput{FirstName: "Ana", Email: "ana@example.com", Password: "secret1"},
			setupMocks: func(repo *mocks.MockCustomerRepository, sessions *mocks.MockSessionStore) {
				repo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrEmailTaken)
			},
			expectedError: domain.ErrEmailTaken,
		},
		{
			name:  "database error",
			input: RegisterInput{FirstName: "Ana", Email: "ana@example.com", Password: "secret1"},
			setupMocks: func(repo *mocks.MockCustomerRepository, sessions *mocks.MockSessionStore) {
				repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("database connection error"))
			},
			expectedError: domain.ErrPersistence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockCustomerRepository)
			sessions := new(mocks.MockSessionStore)
			tt.setupMocks(repo, sessions)

			service := NewAuthService(repo, sessions, bcrypt.MinCost)
			customer, token, err := service.Register(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, customer)
				assert.Empty(t, token)
			} else {
				require.NoError(t, err)
				assert.Equal(t, uint64(11), customer.ID)
				assert.Equal(t, "token-11", token)
			}
			repo.AssertExpectations(t)
			sessions.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	stored := &domain.Customer{ID: 4, Email: "ana@example.com", PasswordHash: hashFor(t, "secret1")}

	tests := []struct {
		name          string
		password      string
		found         *domain.Customer
		findErr       error
		expectToken   bool
		expectedError error
	}{
		{name: "valid credentials", password: "secret1", found: stored, expectToken: true},
		{name: "wrong password", password: "nope", found: stored, expectedError: domain.ErrInvalidCredentials},
		{name: "unknown email", password: "secret1", expectedError: domain.ErrInvalidCredentials},
		{name: "account without password", password: "secret1", found: &domain.Customer{ID: 5}, expectedError: domain.ErrInvalidCredentials},
		{name: "database error", password: "secret1", findErr: errors.New("timeout"), expectedError: domain.ErrPersistence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockCustomerRepository)
			sessions := new(mocks.MockSessionStore)
			if tt.found != nil {
				repo.On("FindByEmail", mock.Anything, "ana@example.com").Return(tt.found, tt.findErr)
			} else {
				repo.On("FindByEmail", mock.Anything, "ana@example.com").Return(nil, tt.findErr)
			}
			if tt.expectToken {
				sessions.On("Create", mock.Anything, uint64(4)).Return("tok", nil)
			}

			service := NewAuthService(repo, sessions, bcrypt.MinCost)
			customer, token, err := service.Login(context.Background(), "ana@example.com", tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, customer)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "tok", token)
				assert.Equal(t, uint64(4), customer.ID)
			}
			sessions.AssertExpectations(t)
		})
	}
}

func TestAuthService_ResolveIdentity(t *testing.T) {
	tests := []struct {
		name          string
		token         string
		setupMocks    func(*mocks.MockCustomerRepository, *mocks.MockSessionStore)
		expectedError error
	}{
		{
			name:  "valid token",
			token: "good",
			setupMocks: func(repo *mocks.MockCustomerRepository, sessions *mocks.MockSessionStore) {
				sessions.On("Resolve", mock.Anything, "good").Return(uint64(3), nil)
				repo.On("FindByID", mock.Anything, uint64(3)).Return(CreateMockCustomer(3), nil)
			},
		},
		{
			name:          "empty token",
			setupMocks:    func(*mocks.MockCustomerRepository, *mocks.MockSessionStore) {},
			expectedError: domain.ErrUnauthorized,
		},
		{
			name:  "unknown or expired token",
			token: "stale",
			setupMocks: func(repo *mocks.MockCustomerRepository, sessions *mocks.MockSessionStore) {
				sessions.On("Resolve", mock.Anything, "stale").Return(uint64(0), infraredis.ErrSessionNotFound)
			},
			expectedError: domain.ErrUnauthorized,
		},
		{
			name:  "customer deleted",
			token: "orphan",
			setupMocks: func(repo *mocks.MockCustomerRepository, sessions *mocks.MockSessionStore) {
				sessions.On("Resolve", mock.Anything, "orphan").Return(uint64(8), nil)
				repo.On("FindByID", mock.Anything, uint64(8)).Return(nil, nil)
			},
			expectedError: domain.ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockCustomerRepository)
			sessions := new(mocks.MockSessionStore)
			tt.setupMocks(repo, sessions)

			service := NewAuthService(repo, sessions, bcrypt.MinCost)
			customer, err := service.ResolveIdentity(context.Background(), tt.token)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, customer)
			} else {
				require.NoError(t, err)
				assert.Equal(t, uint64(3), customer.ID)
			}
			repo.AssertExpectations(t)
			sessions.AssertExpectations(t)
		})
	}
}

func TestAuthService_ResolveIdentity_StoreDown(t *testing.T) {
	sessions := new(mocks.MockSessionStore)
	sessions.On("Resolve", mock.Anything, "tok").Return(uint64(0), errors.New("redis: connection refused"))

	service := NewAuthService(new(mocks.MockCustomerRepository), sessions, bcrypt.MinCost)
	_, err := service.ResolveIdentity(context.Background(), "tok")

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthService_ChangePassword(t *testing.T) {
	stored := &domain.Customer{ID: 4, PasswordHash: hashFor(t, "secret1")}

	t.Run("updates hash when current password matches", func(t *testing.T) {
		repo := new(mocks.MockCustomerRepository)
		repo.On("FindByID", mock.Anything, uint64(4)).Return(stored, nil)
		repo.On("UpdatePasswordHash", mock.Anything, uint64(4), mock.MatchedBy(func(h string) bool {
			return bcrypt.CompareHashAndPassword([]byte(h), []byte("better-secret")) == nil
		})).Return(nil)

		service := NewAuthService(repo, new(mocks.MockSessionStore), bcrypt.MinCost)
		require.NoError(t, service.ChangePassword(context.Background(), 4, "secret1", "better-secret"))
		repo.AssertExpectations(t)
	})

	t.Run("wrong current password", func(t *testing.T) {
		repo := new(mocks.MockCustomerRepository)
		repo.On("FindByID", mock.Anything, uint64(4)).Return(stored, nil)

		service := NewAuthService(repo, new(mocks.MockSessionStore), bcrypt.MinCost)
		err := service.ChangePassword(context.Background(), 4, "guess", "better-secret")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		repo.AssertNotCalled(t, "UpdatePasswordHash", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("new password too short", func(t *testing.T) {
		repo := new(mocks.MockCustomerRepository)
		service := NewAuthService(repo, new(mocks.MockSessionStore), bcrypt.MinCost)
		err := service.ChangePassword(context.Background(), 4, "secret1", "123")
		assert.ErrorIs(t, err, domain.ErrValidation)
		repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}

func strPtr(s string) *string { return &s }

func TestAuthService_UpdateProfile(t *testing.T) {
	tests := []struct {
		name          string
		input         repository.ProfileUpdate
		expected      repository.ProfileUpdate
		expectedError error
	}{
		{
			name:     "fields are trimmed",
			input:    repository.ProfileUpdate{FirstName: strPtr(" Ana "), LastName: strPtr("Ruiz "), Phone: strPtr("   ")},
			expected: repository.ProfileUpdate{FirstName: strPtr("Ana"), LastName: strPtr("Ruiz"), Phone: strPtr("")},
		},
		{
			name:     "absent last name stays absent",
			input:    repository.ProfileUpdate{FirstName: strPtr("Ana"), Phone: strPtr("555-0101")},
			expected: repository.ProfileUpdate{FirstName: strPtr("Ana"), Phone: strPtr("555-0101")},
		},
		{
			name:          "blank first name",
			input:         repository.ProfileUpdate{FirstName: strPtr("  ")},
			expectedError: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockCustomerRepository)
			if tt.expectedError == nil {
				repo.On("UpdateProfile", mock.Anything, uint64(3), tt.expected).Return(nil)
				repo.On("FindByID", mock.Anything, uint64(3)).Return(&domain.Customer{ID: 3, FirstName: "Ana", LastName: "Ruiz"}, nil)
			}

			service := NewAuthService(repo, new(mocks.MockSessionStore), bcrypt.MinCost)
			c, err := service.UpdateProfile(context.Background(), 3, tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				repo.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "Ruiz", c.LastName)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	sessions := new(mocks.MockSessionStore)
	sessions.On("Revoke", mock.Anything, "tok").Return(nil)

	service := NewAuthService(new(mocks.MockCustomerRepository), sessions, bcrypt.MinCost)
	require.NoError(t, service.Logout(context.Background(), "tok"))
	sessions.AssertExpectations(t)
}
