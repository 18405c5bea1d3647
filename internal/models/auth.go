package models

import "github.com/golang-jwt/jwt/v5"

// Role distinguishes students from advisors on protected routes.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdvisor Role = "advisor"
)

// JWTClaims represents the JWT payload for access tokens. Tokens are issued
// by the campus identity provider; this API only verifies them.
type JWTClaims struct {
	StudentID string `json:"student_id"`
	Role      Role   `json:"role"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}
