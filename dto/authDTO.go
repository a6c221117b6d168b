package dto

import "time"

type SignupRequest struct {
	Name            string    `json:"name" binding:"required,min=2,max=50"`
	Email           string    `json:"email" binding:"required,email"`
	Username        string    `json:"username" binding:"required,min=3,max=30,username"`
	DateOfBirth     time.Time `json:"dateOfBirth" binding:"required"`
	Password        string    `json:"password" binding:"required,min=6"`
	ConfirmPassword string    `json:"confirmPassword" binding:"required,eqfield=Password"`
}

type SigninRequest struct {
	// Identifier is either the username or the e-mail address.
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}
