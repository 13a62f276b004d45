// Package middleware contains middleware functions for the API.
package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/httplog/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"

	apiError "github.com/idoBeitOn/MealMate/internal/api/error"
	"github.com/idoBeitOn/MealMate/internal/api/requestid"
	"github.com/idoBeitOn/MealMate/internal/api/token"
	"github.com/idoBeitOn/MealMate/internal/env"
	mJwt "github.com/idoBeitOn/MealMate/internal/jwt"
	"github.com/idoBeitOn/MealMate/internal/log"
)

// InjectEnv injects an environment struct into the request context.
func InjectEnv(environment *env.Env) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(env.WithCtx(r.Context(), environment)))
		})
	}
}

func LogRequest(logger *slog.Logger) func(http.Handler) http.Handler {
	return httplog.RequestLogger(logger, &httplog.Options{
		LogExtraAttrs: func(r *http.Request, reqBody string, respStatus int) []slog.Attr {
			if id := requestid.ExtractRequestID(r.Context()); id != 0 {
				return []slog.Attr{slog.Uint64("log_id", id)}
			}
			return []slog.Attr{slog.String("log_id", "N/A")}
		},
	})
}

// AddRequestID adds a request ID to the request context.
func AddRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := ulid.Now()
		r = r.WithContext(log.AppendCtx(r.Context(), slog.Uint64("log_id", requestID)))
		r = r.WithContext(requestid.InjectRequestID(r.Context(), requestID))
		next.ServeHTTP(w, r)
	})
}

// AddCors adds the necessary CORS headers to the response.
func AddCors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e := env.EnvFromCtx(r.Context())
		origin := r.Header.Get("Origin")

		// Production locks the allowed origin to the configured host.
		allowedOrigin := e.Config.HostOrigin
		if e.Config.Env != "PROD" && origin != "" {
			allowedOrigin = origin
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Authenticate validates the bearer token and stores the caller's user id
// in the request context.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env := env.EnvFromCtx(r.Context())
		requestID := fmt.Sprintf("%d", requestid.ExtractRequestID(r.Context()))

		rawToken, err := token.FromAuthorizationHeader(r)
		if err != nil {
			env.Logger.ErrorContext(r.Context(), "unable to get access token", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.InvalidAccessToken, "no token, authorization denied", requestID)
			return
		}

		accessJwt, err := mJwt.ValidateJWT(rawToken,
			env.Config.AppSecret.Version, []byte(env.Config.AppSecret.Value))
		if errors.Is(err, jwt.ErrTokenExpired) {
			env.Logger.ErrorContext(r.Context(), "access token expired", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.ExpiredAccessToken, "access token expired", requestID)
			return
		} else if err != nil {
			env.Logger.ErrorContext(r.Context(), "invalid access token", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.InvalidAccessToken, "token is not valid", requestID)
			return
		}

		sub, err := accessJwt.Claims.GetSubject()
		if err != nil {
			env.Logger.ErrorContext(r.Context(), "failed to extract subject from jwt", slog.Any("error", err))
			_ = apiError.EncodeInternalError(w, requestID)
			return
		}
		userID, err := strconv.ParseInt(sub, 10, 64)
		if err != nil {
			env.Logger.ErrorContext(r.Context(), "failed to parse user id", slog.Any("error", err))
			_ = apiError.EncodeInternalError(w, requestID)
			return
		}

		r = r.WithContext(log.AppendCtx(r.Context(), slog.Int64("user-id", userID)))
		r = r.WithContext(token.UserIDWithCtx(r.Context(), userID))

		next.ServeHTTP(w, r)
	})
}
