package models

import "github.com/golang-jwt/jwt/v5"

// UserRole represents a role carried in access tokens.
type UserRole string

const (
	RoleSuperAdmin UserRole = "SUPERADMIN"
	RoleAdmin      UserRole = "ADMIN"
	RoleEvaluator  UserRole = "EVALUATOR"
	RoleEmployee   UserRole = "EMPLOYEE"
)

// JWTClaims represents the JWT payload issued by the SSO gateway.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	jwt.RegisteredClaims
}

// Actor is the identity performing an operation.
type Actor struct {
	ID      string
	Role    UserRole
	IsAdmin bool
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
