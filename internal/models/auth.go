package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims carries the authenticated roster identity.
type JWTClaims struct {
	Matricula string `json:"matricula"`
	Nome      string `json:"nome"`
	Role      Role   `json:"role"`
	jwt.RegisteredClaims
}

// LoginRequest is the credentials payload.
type LoginRequest struct {
	Matricula string `json:"matricula" binding:"required,len=6,numeric"`
	Password  string `json:"password" binding:"required"`
}

// LoginResponse returns the issued token and the identity it represents.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
	Matricula string `json:"matricula"`
	Nome      string `json:"nome"`
	Role      Role   `json:"role"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
