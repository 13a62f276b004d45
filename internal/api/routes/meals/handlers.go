// Package meals contains handlers for the weekly meal planner.
package meals

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	apiError "github.com/idoBeitOn/MealMate/internal/api/error"
	"github.com/idoBeitOn/MealMate/internal/api/requestid"
	"github.com/idoBeitOn/MealMate/internal/api/token"
	"github.com/idoBeitOn/MealMate/internal/database"
	"github.com/idoBeitOn/MealMate/internal/env"
	mJson "github.com/idoBeitOn/MealMate/internal/json"
	"github.com/idoBeitOn/MealMate/internal/ownership"
)

// HandleCreateMeal plans a meal into a (day, slot) cell. The slot
// uniqueness rule is enforced by the database index; a violation maps
// to a conflict response.
func HandleCreateMeal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	request, ok := decodeMealRequest(ctx, w, r, env, requestID)
	if !ok {
		return
	}
	if !checkMealRecipe(ctx, w, env, requestID, request.RecipeID) {
		return
	}

	// Create meal
	env.Logger.DebugContext(ctx, "creating meal")
	meal, err := env.Database.CreateMeal(ctx, database.CreateMealParams{
		UserID:     userID,
		DayOfWeek:  *request.DayOfWeek,
		TimeSlot:   *request.TimeSlot,
		RecipeID:   request.RecipeID,
		CustomName: request.CustomName,
		Notes:      request.Notes,
	})
	if database.IsUniqueViolation(err, database.MealSlotConstraint) {
		env.Logger.ErrorContext(ctx, "meal slot already taken", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.MealSlotConflict, "a meal is already planned for this slot", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to create meal", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	writeJSON(ctx, w, env, requestID, http.StatusCreated, meal)
}

// HandleListMeals returns the caller's planned week with recipe
// summaries populated.
func HandleListMeals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "listing meals")
	meals, err := env.Database.ListMealsForUser(ctx, userID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list meals", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	writeJSON(ctx, w, env, requestID, http.StatusOK, meals)
}

// HandleUpdateMeal moves or edits an owned meal. Ownership itself is
// never updatable; slot moves re-validate against the unique index.
func HandleUpdateMeal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	mealID, err := strconv.ParseInt(chi.URLParam(r, "mealID"), 10, 64)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to parse meal id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid meal id", requestID)
		return
	}

	request, ok := decodeMealRequest(ctx, w, r, env, requestID)
	if !ok {
		return
	}
	if !authorizeMeal(ctx, w, env, requestID, mealID, userID) {
		return
	}
	if !checkMealRecipe(ctx, w, env, requestID, request.RecipeID) {
		return
	}

	// Update meal
	env.Logger.DebugContext(ctx, "updating meal")
	meal, err := env.Database.UpdateMeal(ctx, database.UpdateMealParams{
		ID:         mealID,
		DayOfWeek:  *request.DayOfWeek,
		TimeSlot:   *request.TimeSlot,
		RecipeID:   request.RecipeID,
		CustomName: request.CustomName,
		Notes:      request.Notes,
	})
	if database.IsUniqueViolation(err, database.MealSlotConstraint) {
		env.Logger.ErrorContext(ctx, "meal slot already taken", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.MealSlotConflict, "a meal is already planned for this slot", requestID)
		return
	} else if database.IsNotFound(err) {
		env.Logger.ErrorContext(ctx, "meal vanished during update", slog.Int64("meal-id", mealID))
		_ = apiError.EncodeError(w, apiError.MealNotFound, "meal not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to update meal", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	writeJSON(ctx, w, env, requestID, http.StatusOK, meal)
}

// HandleDeleteMeal removes an owned meal from the planner.
func HandleDeleteMeal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	mealID, err := strconv.ParseInt(chi.URLParam(r, "mealID"), 10, 64)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to parse meal id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid meal id", requestID)
		return
	}

	if !authorizeMeal(ctx, w, env, requestID, mealID, userID) {
		return
	}

	env.Logger.DebugContext(ctx, "deleting meal")
	if err := env.Database.DeleteMeal(ctx, mealID); err != nil {
		env.Logger.ErrorContext(ctx, "failed to delete meal", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func decodeMealRequest(ctx context.Context, w http.ResponseWriter, r *http.Request,
	e *env.Env, requestID string) (MealRequest, bool) {
	var request MealRequest
	e.Logger.DebugContext(ctx, "Reading request body")
	defer func() { _ = r.Body.Close() }()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := mJson.DecodeJSON(&request, decoder); err != nil {
		e.Logger.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.ValidationError, "invalid request body", requestID)
		return MealRequest{}, false
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(request); err != nil {
		e.Logger.ErrorContext(ctx, "Failed to validate request body", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.ValidationError,
			"day_of_week must be 0-6 and time_slot must be 0-10", requestID)
		return MealRequest{}, false
	}
	return request, true
}

// checkMealRecipe rejects references to recipes that do not exist.
func checkMealRecipe(ctx context.Context, w http.ResponseWriter, e *env.Env,
	requestID string, recipeID *int64) bool {
	if recipeID == nil {
		return true
	}
	exists, err := e.Database.RecipeExists(ctx, *recipeID)
	if err != nil {
		e.Logger.ErrorContext(ctx, "failed to check recipe existence", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return false
	}
	if !exists {
		e.Logger.ErrorContext(ctx, "recipe does not exist", slog.Int64("recipe-id", *recipeID))
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return false
	}
	return true
}

func authorizeMeal(ctx context.Context, w http.ResponseWriter, e *env.Env,
	requestID string, mealID, userID int64) bool {
	e.Logger.DebugContext(ctx, "checking meal ownership")
	ownerID, err := e.Database.GetMealOwner(ctx, mealID)
	exists := true
	if database.IsNotFound(err) {
		exists = false
	} else if err != nil {
		e.Logger.ErrorContext(ctx, "failed to check meal ownership", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return false
	}

	switch ownership.Authorize(exists, ownerID, userID) {
	case ownership.Allowed:
		return true
	case ownership.DeniedNotFound:
		e.Logger.ErrorContext(ctx, "meal does not exist", slog.Int64("meal-id", mealID))
		_ = apiError.EncodeError(w, apiError.MealNotFound, "meal not found", requestID)
	case ownership.DeniedForbidden:
		e.Logger.ErrorContext(ctx, "user does not own meal", slog.Int64("meal-id", mealID))
		_ = apiError.EncodeError(w, apiError.NotResourceOwner, "user does not own meal", requestID)
	}
	return false
}

func writeJSON(ctx context.Context, w http.ResponseWriter, e *env.Env,
	requestID string, status int, payload any) {
	e.Logger.DebugContext(ctx, "writing response")
	resp, err := json.Marshal(payload)
	if err != nil {
		e.Logger.ErrorContext(ctx, "failed to marshal response", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(resp); err != nil {
		e.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}
