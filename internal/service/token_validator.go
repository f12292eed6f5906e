package service

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/GTD-web/ems-backend-sub027/internal/models"
	appErrors "github.com/GTD-web/ems-backend-sub027/pkg/errors"
)

// TokenValidator verifies access tokens issued by the SSO gateway and turns
// their claims into an actor.
type TokenValidator struct {
	secret     []byte
	issuer     string
	adminRoles map[models.UserRole]struct{}
}

// NewTokenValidator constructs a validator. An empty issuer skips the issuer check.
func NewTokenValidator(secret, issuer string, adminRoles []string) *TokenValidator {
	roles := make(map[models.UserRole]struct{}, len(adminRoles))
	for _, role := range adminRoles {
		roles[models.UserRole(strings.ToUpper(strings.TrimSpace(role)))] = struct{}{}
	}
	return &TokenValidator{secret: []byte(secret), issuer: issuer, adminRoles: roles}
}

// ValidateToken parses and validates an access token returning the claims.
func (v *TokenValidator) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

// Actor maps validated claims to the identity used by the workflow services.
func (v *TokenValidator) Actor(claims *models.JWTClaims) models.Actor {
	if claims == nil {
		return models.Actor{}
	}
	_, admin := v.adminRoles[claims.Role]
	return models.Actor{ID: claims.UserID, Role: claims.Role, IsAdmin: admin}
}
