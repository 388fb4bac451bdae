package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/wordageddon/wordageddon/internal/service"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Register godoc
// @Summary Register a new user
// @Description Register a new user with username, email, and password
// @Tags users
// @Accept json
// @Produce json
// @Param user body service.RegisterRequest true "User registration data"
// @Success 201 {object} domain.User
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /users/register [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req service.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
		})
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
		})
	}

	user, err := h.userService.Register(c.Request().Context(), req)
	if err != nil {
		switch err {
		case service.ErrUserAlreadyExists:
			return c.JSON(http.StatusConflict, ErrorResponse{
				Error: "Username or email already exists",
			})
		default:
			return c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error: "Failed to register user",
			})
		}
	}

	return c.JSON(http.StatusCreated, user)
}

// Login godoc
// @Summary Login user
// @Description Authenticate user and return session token
// @Tags users
// @Accept json
// @Produce json
// @Param credentials body service.LoginRequest true "Login credentials"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /users/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req service.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
		})
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
		})
	}

	user, token, err := h.userService.Login(c.Request().Context(), req)
	if err != nil {
		switch err {
		case service.ErrInvalidCredentials:
			return c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error: "Invalid username or password",
			})
		default:
			return c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error: "Failed to login",
			})
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"token": token,
		"user":  user,
	})
}

// GetProfile godoc
// @Summary Get user profile
// @Description Get a user's profile and play statistics
// @Tags users
// @Accept json
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {object} domain.User
// @Failure 404 {object} ErrorResponse
// @Router /users/{user_id} [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	userID := c.Param("user_id")

	user, err := h.userService.GetByID(c.Request().Context(), userID)
	if err != nil {
		switch err {
		case service.ErrUserNotFound:
			return c.JSON(http.StatusNotFound, ErrorResponse{
				Error: "User not found",
			})
		default:
			return c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error: "Failed to get user",
			})
		}
	}

	return c.JSON(http.StatusOK, user)
}
