// Package categories contains handlers for recipe categories.
package categories

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	apiError "github.com/idoBeitOn/MealMate/internal/api/error"
	"github.com/idoBeitOn/MealMate/internal/api/requestid"
	"github.com/idoBeitOn/MealMate/internal/database"
	"github.com/idoBeitOn/MealMate/internal/env"
	mJson "github.com/idoBeitOn/MealMate/internal/json"
)

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// HandleListCategories returns all categories, ordered by name.
func HandleListCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	env.Logger.DebugContext(ctx, "listing categories")
	categories, err := env.Database.ListCategories(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list categories", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "writing response")
	resp, err := json.Marshal(categories)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to marshal response", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	w.Header().Add("Content-Type", "application/json")
	if _, err := w.Write(resp); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// HandleCreateCategory adds a category. Name uniqueness is enforced by
// the database index.
func HandleCreateCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	// Decode JSON
	var request CreateCategoryRequest
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
		_ = apiError.EncodeError(w, apiError.ValidationError, "category name is required", requestID)
		return
	}

	// Create category
	env.Logger.DebugContext(ctx, "creating category")
	category, err := env.Database.CreateCategory(ctx, request.Name, request.Description)
	if database.IsUniqueViolation(err, "") {
		env.Logger.ErrorContext(ctx, "category already exists", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.CategoryConflict, "category already exists", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to create category", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "writing response")
	resp, err := json.Marshal(category)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to marshal response", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if _, err := w.Write(resp); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}
