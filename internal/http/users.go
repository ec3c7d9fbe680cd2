package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/phyn2-2/kikuyu-vocab/internal/auth"
	"github.com/phyn2-2/kikuyu-vocab/internal/entities"
)

// UsersController handles registration, login and API token management.
type UsersController struct {
	service  *auth.Service
	sessions *auth.SessionManager
}

// NewUsersController creates the users controller.
func NewUsersController(service *auth.Service, sessions *auth.SessionManager) *UsersController {
	return &UsersController{service: service, sessions: sessions}
}

// RegisterRequest is the request body for creating an account.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates a contributor account and starts a session.
// POST /api/auth/register
func (uc *UsersController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "username, email and password are required")
		return
	}

	user, err := uc.service.CreateUser(req.Username, req.Email, req.Password, entities.RoleContributor)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserExists):
			respondError(c, http.StatusConflict, "username or email already taken")
		case errors.Is(err, auth.ErrUsernameInvalid),
			errors.Is(err, auth.ErrEmailInvalid),
			errors.Is(err, auth.ErrPasswordTooShort),
			errors.Is(err, auth.ErrPasswordTooLong):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "register user")
		}
		return
	}

	if uc.sessions != nil {
		if err := uc.sessions.CreateSession(c.Request, user); err != nil {
			respondInternalError(c, err, "create session")
			return
		}
	}
	respondCreated(c, user)
}

// LoginRequest is the request body for logging in.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and starts a session.
// POST /api/auth/login
func (uc *UsersController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "username and password are required")
		return
	}

	user, err := uc.service.Authenticate(req.Username, req.Password)
	if err != nil {
		// One message for both unknown user and wrong password.
		respondError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if uc.sessions != nil {
		if err := uc.sessions.CreateSession(c.Request, user); err != nil {
			respondInternalError(c, err, "create session")
			return
		}
	}
	c.JSON(http.StatusOK, user)
}

// Logout destroys the session.
// POST /api/auth/logout
func (uc *UsersController) Logout(c *gin.Context) {
	if uc.sessions != nil {
		if err := uc.sessions.DestroySession(c.Request); err != nil {
			respondInternalError(c, err, "destroy session")
			return
		}
	}
	respondSuccess(c, "logged out")
}

// Me returns the authenticated user.
// GET /api/auth/me
func (uc *UsersController) Me(c *gin.Context) {
	user, err := uc.service.GetUserByID(GetUserID(c))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "not authenticated")
		return
	}
	c.JSON(http.StatusOK, user)
}

// GenerateToken issues a new API token, shown once.
// POST /api/auth/token
func (uc *UsersController) GenerateToken(c *gin.Context) {
	token, err := uc.service.GenerateToken(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "generate token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// RevokeToken removes the caller's API token.
// DELETE /api/auth/token
func (uc *UsersController) RevokeToken(c *gin.Context) {
	if err := uc.service.RevokeToken(GetUserID(c)); err != nil {
		respondInternalError(c, err, "revoke token")
		return
	}
	respondSuccess(c, "token revoked")
}

// ChangePasswordRequest carries the old and new passwords.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangePassword updates the caller's password.
// POST /api/auth/password
func (uc *UsersController) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "old_password and new_password are required")
		return
	}
	err := uc.service.ChangePassword(GetUserID(c), req.OldPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidPassword):
			respondError(c, http.StatusUnauthorized, "invalid password")
		case errors.Is(err, auth.ErrPasswordTooShort), errors.Is(err, auth.ErrPasswordTooLong):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "change password")
		}
		return
	}
	respondSuccess(c, "password changed")
}

// SetRoleRequest carries the new role.
type SetRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// SetRole changes another user's role. Admin-only.
// POST /api/admin/users/:id/role
func (uc *UsersController) SetRole(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "role is required")
		return
	}
	err := uc.service.SetRole(id, entities.UserRole(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidRole):
			respondBadRequest(c, "invalid role")
		case errors.Is(err, auth.ErrUserNotFound):
			respondNotFound(c, "user")
		default:
			respondInternalError(c, err, "set role")
		}
		return
	}
	respondSuccess(c, "role updated")
}
