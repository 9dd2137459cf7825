package dto

import (
	"time"

	"github.com/eren/driveshare/internal/app/models"
)

// UserResponse represents basic user information
type UserResponse struct {
	ID            int64                `json:"id"`
	Name          string               `json:"name"`
	Email         string               `json:"email"`
	Role          models.RoleType      `json:"role"`
	IsVerified    bool                 `json:"isVerified"`
	AccountStatus models.AccountStatus `json:"accountStatus"`
	ProfileImage  *string              `json:"profileImage,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
}

// FromUser converts a models.User to a UserResponse
func FromUser(user *models.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		Role:          user.Role,
		IsVerified:    user.IsVerified,
		AccountStatus: user.AccountStatus,
		ProfileImage:  user.ProfileImage,
		CreatedAt:     user.CreatedAt,
	}
}

// UpdateProfileRequest represents profile update data
type UpdateProfileRequest struct {
	Name string `json:"name" binding:"required"`
}

// UserListResponse represents a paginated user listing
type UserListResponse struct {
	Users      []UserResponse `json:"users"`
	Pagination PaginationInfo `json:"pagination"`
}

// UpdateUserRoleRequest represents an admin role change request
type UpdateUserRoleRequest struct {
	Role models.RoleType `json:"role" binding:"required,oneof=user lender admin"`
}

// UpdateUserStatusRequest represents an admin account status change request
type UpdateUserStatusRequest struct {
	AccountStatus models.AccountStatus `json:"accountStatus" binding:"required,oneof=active inactive"`
}
