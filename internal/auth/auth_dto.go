package auth

import "go-attend/internal/user"

type SignUpRequest struct {
	Name     string `json:"name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Image    string `json:"image" binding:"omitempty,url"`
	Role     string `json:"role" binding:"omitempty,oneof=ADMIN USER"`
}

type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SignInResponse struct {
	AccessToken string            `json:"accessToken"`
	TokenType   string            `json:"tokenType"`
	ExpiresIn   int64             `json:"expiresIn"`
	User        user.UserResponse `json:"user"`
}
