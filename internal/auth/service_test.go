package auth

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/phyn2-2/kikuyu-vocab/internal/config"
	"github.com/phyn2-2/kikuyu-vocab/internal/entities"
)

func setupService(t *testing.T) (*Service, func()) {
	dbPath := "./test_auth_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&entities.User{}))

	// MinCost keeps the bcrypt work factor out of the test runtime.
	service := NewService(db, config.Auth{BcryptCost: bcrypt.MinCost})

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return service, cleanup
}

func TestService_CreateUser(t *testing.T) {
	service, cleanup := setupService(t)
	defer cleanup()

	user, err := service.CreateUser("wanjiku", "wanjiku@example.com", "a-long-password", entities.RoleContributor)
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.Equal(t, "wanjiku", user.Username)
	assert.Equal(t, entities.RoleContributor, user.Role)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "a-long-password", user.PasswordHash)
}

func TestService_CreateUser_Validation(t *testing.T) {
	service, cleanup := setupService(t)
	defer cleanup()

	tests := []struct {
		name     string
		username string
		email    string
		password string
		role     entities.UserRole
		wantErr  error
	}{
		{"missing username", "", "a@example.com", "a-long-password", entities.RoleContributor, ErrUsernameRequired},
		{"missing email", "kamau", "", "a-long-password", entities.RoleContributor, ErrEmailRequired},
		{"missing password", "kamau", "a@example.com", "", entities.RoleContributor, ErrPasswordRequired},
		{"username too short", "ab", "a@example.com", "a-long-password", entities.RoleContributor, ErrUsernameInvalid},
		{"username bad chars", "ka mau!", "a@example.com", "a-long-password", entities.RoleContributor, ErrUsernameInvalid},
		{"bad email", "kamau", "not-an-email", "a-long-password", entities.RoleContributor, ErrEmailInvalid},
		{"bad role", "kamau", "a@example.com", "a-long-password", entities.UserRole("superuser"), ErrInvalidRole},
		{"short password", "kamau", "a@example.com", "short", entities.RoleContributor, ErrPasswordTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateUser(tt.username, tt.email, tt.password, tt.role)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_CreateUser_Duplicates(t *testing.T) {
	service, cleanup := setupService(t)
	defer cleanup()

	_, err := service.CreateUser("wanjiku", "wanjiku@example.com", "a-long-password", entities.RoleContributor)
	require.NoError(t, err)

	_, err = service.CreateUser("wanjiku", "other@example.com", "a-long-password", entities.RoleContributor)
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = service.CreateUser("other", "wanjiku@example.com", "a-long-password", entities.RoleContributor)
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestService_Authenticate(t *testing.T) {
	service, cleanup := setupService(t)
	defer cleanup()

	created, err := service.CreateUser("wanjiku", "wanjiku@example.com", "a-long-password", entities.RoleContributor)
	require.NoError(t, err)

	// By username.
	user, err := service.Authenticate("wanjiku", "a-long-password")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	// By email.
	user, err = service.Authenticate("wanjiku@example.com", "a-long-password")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	// Wrong password.
	_, err = service.Authenticate("wanjiku", "not-the-password")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	// Unknown user.
	_, err = service.Authenticate("nobody", "a-long-password")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestService_Tokens(t *testing.T) {
	service, cleanup := setupService(t)
	defer cleanup()

	user, err := service.CreateUser("wanjiku", "wanjiku@example.com", "a-long-password", entities.RoleContributor)
	require.NoError(t, err)

	plaintext, err := service.GenerateToken(user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, plaintext)

	resolved, err := service.ValidateToken(plaintext)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	// Only the hash is stored.
	stored, err := service.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, stored.Token)
	assert.Equal(t, HashToken(plaintext), stored.Token)

	// Generating a new token invalidates the old one.
	replacement, err := service.GenerateToken(user.ID)
	require.NoError(t, err)
	_, err = service.ValidateToken(plaintext)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = service.ValidateToken(replacement)
	assert.NoError(t, err)

	// Revocation removes it entirely.
	require.NoError(t, service.RevokeToken(user.ID))
	_, err = service.ValidateToken(replacement)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Empty tokens never resolve, even though revoked users store "".
	_, err = service.ValidateToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_GenerateToken_UnknownUser(t *testing.T) {
	service, cleanup := setupService(t)
	defer cleanup()

	_, err := service.GenerateToken(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestService_ChangePassword(t *testing.T) {
	service, cleanup := setupService(t)
	defer cleanup()

	user, err := service.CreateUser("wanjiku", "wanjiku@example.com", "a-long-password", entities.RoleContributor)
	require.NoError(t, err)

	err = service.ChangePassword(user.ID, "wrong-old-one", "another-long-password")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	require.NoError(t, service.ChangePassword(user.ID, "a-long-password", "another-long-password"))

	_, err = service.Authenticate("wanjiku", "a-long-password")
	assert.ErrorIs(t, err, ErrInvalidPassword)
	_, err = service.Authenticate("wanjiku", "another-long-password")
	assert.NoError(t, err)
}

func TestService_SetRole(t *testing.T) {
	service, cleanup := setupService(t)
	defer cleanup()

	user, err := service.CreateUser("wanjiku", "wanjiku@example.com", "a-long-password", entities.RoleContributor)
	require.NoError(t, err)

	require.NoError(t, service.SetRole(user.ID, entities.RoleReviewer))
	updated, err := service.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.RoleReviewer, updated.Role)
	assert.True(t, updated.Role.CanReview())

	assert.ErrorIs(t, service.SetRole(user.ID, entities.UserRole("owner")), ErrInvalidRole)
	assert.ErrorIs(t, service.SetRole(9999, entities.RoleAdmin), ErrUserNotFound)
}

func TestService_HasUsers(t *testing.T) {
	service, cleanup := setupService(t)
	defer cleanup()

	has, err := service.HasUsers()
	require.NoError(t, err)
	assert.False(t, has)

	_, err = service.CreateUser("wanjiku", "wanjiku@example.com", "a-long-password", entities.RoleContributor)
	require.NoError(t, err)

	has, err = service.HasUsers()
	require.NoError(t, err)
	assert.True(t, has)
}
