package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/hrms/internal/services"
	"github.com/charlesng35/hrms/pkg/response"
	appValidator "github.com/charlesng35/hrms/pkg/validator"
)

// AuthHandler exposes registration, login, logout and profile endpoints.
type AuthHandler struct {
	svc *services.AuthService
}

func NewAuthHandler(svc *services.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type registerRequest struct {
	OrgName   string `json:"orgName" validate:"required,notblank,max=255"`
	AdminName string `json:"adminName" validate:"required,notblank,max=255"`
	Email     string `json:"email" validate:"required,notblank,email,max=255"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
}

func (registerRequest) invalidMessage(_ error, failures appValidator.ValidationErrors) string {
	switch {
	case hasFailure(failures, "orgName", ""), hasFailure(failures, "adminName", ""),
		hasFailure(failures, "email", "required"), hasFailure(failures, "email", "notblank"),
		hasFailure(failures, "password", "required"):
		return "All fields are required: orgName, adminName, email, password"
	case hasFailure(failures, "password", "min"):
		return "Password must be at least 6 characters long"
	}
	return ""
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,notblank"`
	Password string `json:"password" validate:"required"`
}

func (loginRequest) invalidMessage(_ error, failures appValidator.ValidationErrors) string {
	if len(failures) > 0 {
		return "Email and password are required"
	}
	return ""
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindAndValidate(c, &req) {
		return
	}

	result, err := h.svc.Register(requestContext(c), services.RegisterInput{
		OrgName:   req.OrgName,
		AdminName: req.AdminName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusCreated, "Organisation and admin user created successfully", result)
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	result, err := h.svc.Login(requestContext(c), services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Login successful", result)
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.svc.Logout(requestContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Logout successful", nil)
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.svc.CurrentUser(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user})
}
