package dto

import (
	"time"

	"kalender/model"
)

type UserResponse struct {
	UserID      string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Username    string     `json:"username"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	AvatarURL   string     `json:"avatarUrl,omitempty"`
	Following   []string   `json:"following"`
	Followers   []string   `json:"followers"`
	IsVerified  bool       `json:"isVerified"`
	CreatedAt   string     `json:"createdAt"`
}

// NewUserResponse strips credentials from u.
func NewUserResponse(u model.User) UserResponse {
	following, followers := u.Following, u.Followers
	if following == nil {
		following = []string{}
	}
	if followers == nil {
		followers = []string{}
	}
	return UserResponse{
		UserID:      u.UserID,
		Name:        u.Name,
		Email:       u.Email,
		Username:    u.Username,
		DateOfBirth: u.DateOfBirth,
		AvatarURL:   u.AvatarURL,
		Following:   following,
		Followers:   followers,
		IsVerified:  u.IsVerified,
		CreatedAt:   u.CreatedAt.Format(time.RFC3339),
	}
}

func NewUserResponses(users []model.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}

type ProfileResponse struct {
	User        UserResponse     `json:"user"`
	PublicLists []model.TaskList `json:"publicLists"`
}

type SearchUserRequest struct {
	Query string `json:"query" binding:"required"`
}

type UpdateProfileRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=50"`
	Email     string `json:"email" binding:"required,email"`
	AvatarURL string `json:"avatarUrl" binding:"omitempty,url"`
}
