package models

import "github.com/golang-jwt/jwt/v5"

// UserClaims are the JWT claims carried on authenticated requests.
type UserClaims struct {
	jwt.RegisteredClaims
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
}
