// Package token contains utilities for bearer tokens.
package token

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/idoBeitOn/MealMate/internal/env"
	"github.com/idoBeitOn/MealMate/internal/jwt"
)

var (
	ErrNoUserID      = errors.New("no user id in context")
	ErrMissingBearer = errors.New("missing bearer token")
)

// NewAccessToken mints a signed access token for the given user.
func NewAccessToken(userID int64, e *env.Env) (string, error) {
	return jwt.GenerateJWT(jwt.JWTParams{
		UserID: strconv.FormatInt(userID, 10),
	}, []byte(e.Config.AppSecret.Value), e.Config.AppSecret.Version)
}

// FromAuthorizationHeader extracts the raw token from an
// "Authorization: Bearer <token>" header.
func FromAuthorizationHeader(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingBearer
	}

	scheme, rawToken, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || rawToken == "" {
		return "", ErrMissingBearer
	}
	return rawToken, nil
}

type userIDKeyType struct{}

var userIDKey userIDKeyType

// UserIDWithCtx stores the authenticated user's id in the context.
func UserIDWithCtx(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromCtx extracts the authenticated user's id from the context.
func UserIDFromCtx(ctx context.Context) (int64, error) {
	if v, ok := ctx.Value(userIDKey).(int64); ok {
		return v, nil
	}
	return 0, ErrNoUserID
}
