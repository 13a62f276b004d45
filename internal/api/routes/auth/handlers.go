// Package auth contains handlers for registration and login.
package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	apiError "github.com/idoBeitOn/MealMate/internal/api/error"
	"github.com/idoBeitOn/MealMate/internal/api/requestid"
	"github.com/idoBeitOn/MealMate/internal/api/token"
	"github.com/idoBeitOn/MealMate/internal/argon2id"
	"github.com/idoBeitOn/MealMate/internal/database"
	"github.com/idoBeitOn/MealMate/internal/env"
	mJson "github.com/idoBeitOn/MealMate/internal/json"
	"github.com/idoBeitOn/MealMate/internal/password"
)

// HandleRegister creates an account and returns a signed access token
// alongside the public user fields.
func HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	// Decode JSON
	var request RegisterRequest
	env.Logger.DebugContext(ctx, "Reading request body")
	defer func() { _ = r.Body.Close() }()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := mJson.DecodeJSON(&request, decoder); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.ValidationError, "invalid request body", requestID)
		return
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(request); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to validate request body", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.ValidationError, "invalid request body", requestID)
		return
	}

	// Ensure password strength
	env.Logger.DebugContext(ctx, "Validating password")
	if err := password.ValidatePassword(request.Password); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to validate password", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.WeakPassword, err.Error(), requestID) // OK to share the error with client.
		return
	}

	// Hash password
	env.Logger.DebugContext(ctx, "Hashing password")
	hash, err := argon2id.EncodeHash(request.Password, argon2id.DefaultParams)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to hash password", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Create user. Duplicate email or username is reported by the unique
	// index, not a pre-check.
	env.Logger.DebugContext(ctx, "Creating user")
	user, err := env.Database.CreateUser(ctx, database.CreateUserParams{
		Username:     request.Username,
		Email:        request.Email,
		PasswordHash: hash,
	})
	if database.IsUniqueViolation(err, "") {
		env.Logger.ErrorContext(ctx, "User already exists", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.AlreadyRegistered, "user already registered", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to create user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Create access token
	env.Logger.DebugContext(ctx, "Generating access token")
	accessToken, err := token.NewAccessToken(user.ID, env)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to create access token", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	writeAuthResponse(ctx, w, env, requestID, http.StatusCreated, accessToken, user)
}

// HandleLogin verifies credentials and returns a fresh access token.
func HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	// Decode JSON
	var request LoginRequest
	env.Logger.DebugContext(ctx, "Reading request body")
	defer func() { _ = r.Body.Close() }()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := mJson.DecodeJSON(&request, decoder); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.ValidationError, "invalid request body", requestID)
		return
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(request); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to validate request body", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.ValidationError, "invalid request body", requestID)
		return
	}

	// Retrieve user information
	env.Logger.DebugContext(ctx, "Retrieving user information")
	user, err := env.Database.GetUserByEmail(ctx, request.Email)
	if database.IsNotFound(err) {
		env.Logger.ErrorContext(ctx, "User with email does not exist", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.InvalidCredentials, "email or password is incorrect", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to retrieve user information", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Comparing passwords
	env.Logger.DebugContext(ctx, "Comparing passwords")
	match, err := argon2id.ComparePasswordAndHash(request.Password, user.PasswordHash)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to compare password hashes", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if !match {
		env.Logger.ErrorContext(ctx, "Given password is incorrect")
		_ = apiError.EncodeError(w, apiError.InvalidCredentials, "email or password is incorrect", requestID)
		return
	}

	// Create access token
	env.Logger.DebugContext(ctx, "Generating access token")
	accessToken, err := token.NewAccessToken(user.ID, env)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to create access token", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	writeAuthResponse(ctx, w, env, requestID, http.StatusOK, accessToken, user)
}

// HandleMe returns the authenticated caller's public profile.
func HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Retrieving user information")
	user, err := env.Database.GetUser(ctx, userID)
	if database.IsNotFound(err) {
		// The account vanished after the token was minted.
		env.Logger.ErrorContext(ctx, "user no longer exists", slog.Int64("user-id", userID))
		_ = apiError.EncodeError(w, apiError.InvalidAccessToken, "token is not valid", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to retrieve user information", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Writing response")
	resp, err := json.Marshal(UserPayload{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to marshal response", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	w.Header().Add("Content-Type", "application/json")
	if _, err := w.Write(resp); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to write response", slog.Any("error", err))
	}
}

func writeAuthResponse(ctx context.Context, w http.ResponseWriter, e *env.Env, requestID string,
	status int, accessToken string, user database.User) {
	e.Logger.DebugContext(ctx, "Writing response")
	resp, err := json.Marshal(AuthResponse{
		Token: accessToken,
		User: UserPayload{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		},
	})
	if err != nil {
		e.Logger.ErrorContext(ctx, "Failed to marshal response", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(resp); err != nil {
		e.Logger.ErrorContext(ctx, "Failed to write response", slog.Any("error", err))
	}
}
