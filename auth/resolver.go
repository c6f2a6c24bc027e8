package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"

	"storefront/models"
)

var ErrUnauthorized = errors.New("invalid or expired token")

// UserLookup resolves a user id from the token to the stored account.
type UserLookup interface {
	FindUserByID(ctx context.Context, id string) (*models.User, error)
}

// BlacklistChecker reports whether a token was revoked by a logout.
type BlacklistChecker interface {
	IsBlacklisted(ctx context.Context, token string) bool
}

// TokenResolver verifies a bearer token and produces the request Caller.
type TokenResolver struct {
	Secret    []byte
	Users     UserLookup
	Blacklist BlacklistChecker
}

// Resolve verifies the token and looks the account up. A token whose user no
// longer exists still resolves, but only ever as a regular user.
func (r *TokenResolver) Resolve(ctx context.Context, tokenString string) (Caller, error) {
	if r.Blacklist != nil && r.Blacklist.IsBlacklisted(ctx, tokenString) {
		return Caller{}, ErrUnauthorized
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return r.Secret, nil
	})
	if err != nil || !token.Valid {
		return Caller{}, ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Caller{}, ErrUnauthorized
	}

	userID, _ := claims["userId"].(string)
	email, _ := claims["email"].(string)
	if userID == "" {
		return Caller{}, ErrUnauthorized
	}

	caller := Caller{ID: userID, Email: email, Role: RoleUser}

	if r.Users != nil {
		user, err := r.Users.FindUserByID(ctx, userID)
		if err == nil && user != nil {
			caller.Email = user.Email
			caller.Role = ParseRole(user.Role)
		}
	}

	return caller, nil
}
