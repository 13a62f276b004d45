// Package shoppinglist contains handlers for the per-user shopping list.
package shoppinglist

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	apiError "github.com/idoBeitOn/MealMate/internal/api/error"
	"github.com/idoBeitOn/MealMate/internal/api/requestid"
	"github.com/idoBeitOn/MealMate/internal/api/token"
	"github.com/idoBeitOn/MealMate/internal/database"
	"github.com/idoBeitOn/MealMate/internal/env"
	mJson "github.com/idoBeitOn/MealMate/internal/json"
	"github.com/idoBeitOn/MealMate/internal/shopping"
)

// HandleGetShoppingList regenerates the caller's list from their
// planned meals and returns it. Regeneration replaces the entire item
// set, so manual items and purchased flags do not survive it.
func HandleGetShoppingList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	userID, ok := pathUser(ctx, w, r, env, requestID)
	if !ok {
		return
	}

	env.Logger.DebugContext(ctx, "collecting planned-meal ingredients")
	ingredients, err := env.Database.MealIngredientsForUser(ctx, userID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to collect meal ingredients", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "regenerating shopping list")
	list, err := env.Database.ReplaceShoppingListItems(ctx, userID, shopping.Aggregate(ingredients))
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to regenerate shopping list", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	writeJSON(ctx, w, env, requestID, http.StatusOK, list)
}

// HandleAddItem appends a manual item to the caller's list, creating
// the list if absent. Manual items are not deduplicated.
func HandleAddItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	userID, ok := pathUser(ctx, w, r, env, requestID)
	if !ok {
		return
	}

	// Decode JSON
	var request AddItemRequest
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
		_ = apiError.EncodeError(w, apiError.ValidationError, "item name is required", requestID)
		return
	}
	if strings.TrimSpace(request.Name) == "" {
		env.Logger.ErrorContext(ctx, "item name is empty after trimming")
		_ = apiError.EncodeError(w, apiError.ValidationError, "item name is required", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "adding manual item")
	list, err := env.Database.AddShoppingListItem(ctx, userID, request.Name, request.Amount)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to add manual item", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	writeJSON(ctx, w, env, requestID, http.StatusCreated, list)
}

// HandleDeleteItem removes an item from the caller's list. Deleting an
// item that is already gone succeeds.
func HandleDeleteItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	userID, ok := pathUser(ctx, w, r, env, requestID)
	if !ok {
		return
	}
	itemID, err := strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to parse item id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid item id", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "deleting list item")
	list, err := env.Database.DeleteShoppingListItem(ctx, userID, itemID)
	if database.IsNotFound(err) {
		env.Logger.ErrorContext(ctx, "user has no shopping list", slog.Int64("user-id", userID))
		_ = apiError.EncodeError(w, apiError.ShoppingListNotFound, "shopping list not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to delete list item", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	writeJSON(ctx, w, env, requestID, http.StatusOK, list)
}

// HandleToggleItem flips an item's purchased flag.
func HandleToggleItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	userID, ok := pathUser(ctx, w, r, env, requestID)
	if !ok {
		return
	}
	itemID, err := strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to parse item id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid item id", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "toggling list item")
	list, err := env.Database.ToggleShoppingListItem(ctx, userID, itemID)
	if database.IsNotFound(err) {
		env.Logger.ErrorContext(ctx, "user has no shopping list", slog.Int64("user-id", userID))
		_ = apiError.EncodeError(w, apiError.ShoppingListNotFound, "shopping list not found", requestID)
		return
	} else if errors.Is(err, database.ErrItemNotFound) {
		env.Logger.ErrorContext(ctx, "item not in list", slog.Int64("item-id", itemID))
		_ = apiError.EncodeError(w, apiError.ItemNotFound, "item not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to toggle list item", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	writeJSON(ctx, w, env, requestID, http.StatusOK, list)
}

// pathUser parses the path user id and rejects callers asking for a
// list that is not their own.
func pathUser(ctx context.Context, w http.ResponseWriter, r *http.Request,
	e *env.Env, requestID string) (int64, bool) {
	pathUserID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		e.Logger.ErrorContext(ctx, "failed to parse user id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid user id", requestID)
		return 0, false
	}

	callerID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		e.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return 0, false
	}
	if pathUserID != callerID {
		e.Logger.ErrorContext(ctx, "caller requested another user's list",
			slog.Int64("path-user-id", pathUserID))
		_ = apiError.EncodeError(w, apiError.NotResourceOwner, "cannot access another user's shopping list", requestID)
		return 0, false
	}
	return callerID, true
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
