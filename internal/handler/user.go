package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carpool/internal/domain"
	"carpool/internal/service"
)

// UserHandler handles HTTP requests for users.
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterUserRequest is the HTTP request body for registering a user.
type RegisterUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role"` // PASSENGER or DRIVER
}

// SetApprovalRequest is the HTTP request body for a driver approval flip.
type SetApprovalRequest struct {
	Approved bool `json:"approved"`
}

// UserResponse is the HTTP representation of a user.
type UserResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone,omitempty"`
	Role          string  `json:"role"`
	Approved      bool    `json:"approved"`
	WalletBalance float64 `json:"wallet_balance"`
	DriverRating  float64 `json:"driver_rating"`
	TotalRides    int     `json:"total_rides"`
}

func toUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		Phone:         user.Phone,
		Role:          string(user.Role),
		Approved:      user.Approved,
		WalletBalance: user.WalletBalance,
		DriverRating:  user.DriverRating,
		TotalRides:    user.TotalRides,
	}
}

// Register handles POST /v1/users
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.userService.Register(c.Request.Context(), service.RegisterRequest{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Role:  domain.UserRole(req.Role),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toUserResponse(user))
}

// GetUser handles GET /v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toUserResponse(user))
}

// ListUsers handles GET /v1/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, toUserResponse(user))
	}
	respondJSON(c, http.StatusOK, resp)
}

// SetApproval handles PATCH /v1/drivers/:id/approval
func (h *UserHandler) SetApproval(c *gin.Context) {
	var req SetApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.userService.SetDriverApproval(c.Request.Context(), c.Param("id"), req.Approved)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toUserResponse(user))
}
