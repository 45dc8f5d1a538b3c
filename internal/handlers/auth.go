package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thejas-c/E-Waste-Facility-Locator/internal/middleware"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/response"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/security"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/users"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/util"
)

type AuthHandler struct {
	users          *users.Repo
	jwt            *security.JWTManager
	logger         *zap.Logger
	bcryptCost     int
	minPasswordLen int
}

func NewAuthHandler(usersRepo *users.Repo, jwt *security.JWTManager, logger *zap.Logger, bcryptCost, minPasswordLen int) *AuthHandler {
	return &AuthHandler{
		users:          usersRepo,
		jwt:            jwt,
		logger:         logger,
		bcryptCost:     bcryptCost,
		minPasswordLen: minPasswordLen,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authUser struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Credits int    `json:"credits"`
}

// Register creates an account and returns a signed token. POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		response.Error(c, http.StatusBadRequest, "name, email and password are required")
		return
	}
	if err := util.ValidatePassword(req.Password, h.minPasswordLen); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := util.HashPassword(req.Password, h.bcryptCost)
	if err != nil {
		h.logger.Error("password hash failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "registration failed")
		return
	}

	id, err := h.users.Create(c.Request.Context(), req.Name, req.Email, hash)
	if err != nil {
		if errors.Is(err, users.ErrEmailAlreadyExists) {
			response.Error(c, http.StatusBadRequest, "user with this email already exists")
			return
		}
		h.logger.Error("user create failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "registration failed")
		return
	}

	token, err := h.jwt.Issue(id, "user")
	if err != nil {
		h.logger.Error("token issue failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "registration failed")
		return
	}

	response.Success(c, http.StatusCreated, "user registered successfully", gin.H{
		"token": token,
		"user":  authUser{ID: id, Name: req.Name, Email: req.Email, Role: "user", Credits: 0},
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and returns a signed token. POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		response.Error(c, http.StatusBadRequest, "email and password are required")
		return
	}

	u, err := h.users.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			response.Error(c, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.logger.Error("user lookup failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "login failed")
		return
	}
	if !util.ComparePassword(u.PasswordHash, req.Password) {
		response.Error(c, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := h.jwt.Issue(u.ID, u.Role)
	if err != nil {
		h.logger.Error("token issue failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "login failed")
		return
	}

	response.Success(c, http.StatusOK, "login successful", gin.H{
		"token": token,
		"user":  authUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, Credits: u.Credits},
	})
}

// Profile returns the authenticated user. GET /api/auth/profile.
func (h *AuthHandler) Profile(c *gin.Context) {
	userID := middleware.UserIDFrom(c.Request.Context())
	u, err := h.users.FindByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "user not found")
			return
		}
		h.logger.Error("profile lookup failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to get profile")
		return
	}
	response.Success(c, http.StatusOK, response.MsgSuccess, gin.H{
		"user": authUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, Credits: u.Credits},
	})
}
