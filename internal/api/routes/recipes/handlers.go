// Package recipes contains handlers for the recipe resource.
package recipes

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/oklog/ulid/v2"

	apiError "github.com/idoBeitOn/MealMate/internal/api/error"
	"github.com/idoBeitOn/MealMate/internal/api/requestid"
	"github.com/idoBeitOn/MealMate/internal/api/token"
	"github.com/idoBeitOn/MealMate/internal/database"
	"github.com/idoBeitOn/MealMate/internal/env"
	"github.com/idoBeitOn/MealMate/internal/form"
	mJson "github.com/idoBeitOn/MealMate/internal/json"
	"github.com/idoBeitOn/MealMate/internal/ownership"
)

const (
	maxUploadSize = 20 << 20 // ~ 20 MB
)

// HandleCreateRecipe creates a recipe owned by the caller.
func HandleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Decode JSON
	var request RecipeRequest
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
		_ = apiError.EncodeError(w, apiError.ValidationError, "title, description and ingredients are required", requestID)
		return
	}

	// Create recipe
	env.Logger.DebugContext(ctx, "creating recipe")
	recipeID, err := env.Database.CreateRecipe(ctx, database.CreateRecipeParams{
		Title:           request.Title,
		Description:     request.Description,
		CookTimeMinutes: request.CookTimeMinutes,
		Difficulty:      request.difficulty(),
		CategoryID:      request.CategoryID,
		AuthorID:        userID,
		IsPublic:        request.isPublic(),
		Nutrition:       request.nutrition(),
		Ingredients:     request.ingredients(),
		Steps:           request.Steps,
		Images:          request.Images,
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to create recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	detail, err := env.Database.GetRecipe(ctx, recipeID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to load created recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	writeJSON(ctx, w, env, requestID, http.StatusCreated, detail)
}

// HandleListRecipes returns all public recipes, newest first.
func HandleListRecipes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	env.Logger.DebugContext(ctx, "listing public recipes")
	recipes, err := env.Database.ListPublicRecipes(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list recipes", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	writeJSON(ctx, w, env, requestID, http.StatusOK, recipes)
}

// HandleGetRecipe returns one recipe fully populated.
func HandleGetRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	recipeID, err := strconv.ParseInt(chi.URLParam(r, "recipeID"), 10, 64)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to parse recipe id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid recipe id", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "fetching recipe")
	detail, err := env.Database.GetRecipe(ctx, recipeID)
	if database.IsNotFound(err) {
		env.Logger.ErrorContext(ctx, "recipe does not exist", slog.Int64("recipe-id", recipeID))
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to fetch recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	writeJSON(ctx, w, env, requestID, http.StatusOK, detail)
}

// HandleSearchRecipes filters recipes by the query parameters. Filters
// are conjunctive; private recipes of other users never appear.
func HandleSearchRecipes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "reading search filters")
	query := r.URL.Query()
	params := database.SearchRecipesParams{
		Query:      query.Get("q"),
		Difficulty: query.Get("difficulty"),
		SortBy:     query.Get("sort"),
		ViewerID:   userID,
	}
	switch params.SortBy {
	case "", "createdAt", "likes", "trending":
	default:
		env.Logger.ErrorContext(ctx, "unknown sort order", slog.String("sort", params.SortBy))
		_ = apiError.EncodeError(w, apiError.ValidationError, "unknown sort order", requestID)
		return
	}
	if raw := query.Get("category"); raw != "" {
		categoryID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			env.Logger.ErrorContext(ctx, "failed to parse category filter", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.ValidationError, "invalid category filter", requestID)
			return
		}
		params.CategoryID = &categoryID
	}
	if raw := query.Get("maxCookTime"); raw != "" {
		maxCookTime, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			env.Logger.ErrorContext(ctx, "failed to parse cook time filter", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.ValidationError, "invalid cook time filter", requestID)
			return
		}
		cookTime := int32(maxCookTime)
		params.MaxCookTime = &cookTime
	}
	if raw := query.Get("author"); raw != "" {
		authorID := userID
		if raw != "me" {
			authorID, err = strconv.ParseInt(raw, 10, 64)
			if err != nil {
				env.Logger.ErrorContext(ctx, "failed to parse author filter", slog.Any("error", err))
				_ = apiError.EncodeError(w, apiError.ValidationError, "invalid author filter", requestID)
				return
			}
		}
		params.AuthorID = &authorID
	}

	env.Logger.DebugContext(ctx, "searching recipes")
	recipes, err := env.Database.SearchRecipes(ctx, params)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to search recipes", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	writeJSON(ctx, w, env, requestID, http.StatusOK, recipes)
}

// HandleUpdateRecipe replaces the mutable fields of an owned recipe.
func HandleUpdateRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	recipeID, err := strconv.ParseInt(chi.URLParam(r, "recipeID"), 10, 64)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to parse recipe id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid recipe id", requestID)
		return
	}

	// Decode JSON
	var request RecipeRequest
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
		_ = apiError.EncodeError(w, apiError.ValidationError, "title, description and ingredients are required", requestID)
		return
	}

	if !authorizeRecipe(ctx, w, env, requestID, recipeID, userID) {
		return
	}

	// Update recipe
	env.Logger.DebugContext(ctx, "updating recipe")
	err = env.Database.UpdateRecipe(ctx, database.UpdateRecipeParams{
		ID:              recipeID,
		Title:           request.Title,
		Description:     request.Description,
		CookTimeMinutes: request.CookTimeMinutes,
		Difficulty:      request.difficulty(),
		CategoryID:      request.CategoryID,
		IsPublic:        request.isPublic(),
		Nutrition:       request.nutrition(),
		Ingredients:     request.ingredients(),
		Steps:           request.Steps,
		Images:          request.Images,
	})
	if database.IsNotFound(err) {
		env.Logger.ErrorContext(ctx, "recipe vanished during update", slog.Int64("recipe-id", recipeID))
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to update recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	detail, err := env.Database.GetRecipe(ctx, recipeID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to load updated recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	writeJSON(ctx, w, env, requestID, http.StatusOK, detail)
}

// HandleDeleteRecipe removes an owned recipe and everything hanging off it.
func HandleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	recipeID, err := strconv.ParseInt(chi.URLParam(r, "recipeID"), 10, 64)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to parse recipe id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid recipe id", requestID)
		return
	}

	if !authorizeRecipe(ctx, w, env, requestID, recipeID, userID) {
		return
	}

	env.Logger.DebugContext(ctx, "deleting recipe")
	err = env.Database.DeleteRecipe(ctx, recipeID)
	if database.IsNotFound(err) {
		env.Logger.ErrorContext(ctx, "recipe vanished during delete", slog.Int64("recipe-id", recipeID))
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to delete recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleToggleLike flips the caller's like on a recipe and returns the
// resulting state and count.
func HandleToggleLike(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	recipeID, ok := requireRecipe(ctx, w, r, env, requestID)
	if !ok {
		return
	}

	env.Logger.DebugContext(ctx, "toggling like")
	liked, likes, err := env.Database.ToggleLike(ctx, recipeID, userID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to toggle like", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	writeJSON(ctx, w, env, requestID, http.StatusOK, LikeResponse{Liked: liked, LikesCount: likes})
}

// HandleAddFavorite marks the recipe as a favorite of the caller.
// Repeating the call is a no-op.
func HandleAddFavorite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	recipeID, ok := requireRecipe(ctx, w, r, env, requestID)
	if !ok {
		return
	}

	env.Logger.DebugContext(ctx, "adding favorite")
	if err := env.Database.AddFavorite(ctx, recipeID, userID); err != nil {
		env.Logger.ErrorContext(ctx, "failed to add favorite", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRemoveFavorite drops the recipe from the caller's favorites.
func HandleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	recipeID, ok := requireRecipe(ctx, w, r, env, requestID)
	if !ok {
		return
	}

	env.Logger.DebugContext(ctx, "removing favorite")
	if err := env.Database.RemoveFavorite(ctx, recipeID, userID); err != nil {
		env.Logger.ErrorContext(ctx, "failed to remove favorite", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleUploadImage stores a multipart image for an owned recipe and
// appends its URL to the recipe's image list.
func HandleUploadImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	recipeID, err := strconv.ParseInt(chi.URLParam(r, "recipeID"), 10, 64)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to parse recipe id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid recipe id", requestID)
		return
	}

	// Read form
	env.Logger.DebugContext(ctx, "reading multipart form")
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		env.Logger.ErrorContext(ctx, "failed to parse multipart form", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "request too large", requestID)
		return
	}
	uploadedImage, err := form.ReadImage(r, "image")
	if errors.Is(err, form.ErrNoImageUploaded) {
		env.Logger.ErrorContext(ctx, "no image uploaded")
		_ = apiError.EncodeError(w, apiError.BadRequest, "expected an image in the form", requestID)
		return
	} else if errors.Is(err, form.ErrUnsupportedMimeType) {
		env.Logger.ErrorContext(ctx, "unsupported file type", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid file type", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to read recipe image", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	if !authorizeRecipe(ctx, w, env, requestID, recipeID, userID) {
		return
	}

	// Upload image
	env.Logger.DebugContext(ctx, "uploading image")
	urlPath, _, err := env.FileStore.WriteRecipeImage(recipeID, ulid.Now(), uploadedImage.Suffix, uploadedImage.Data)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to write image", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if err := env.Database.AddRecipeImage(ctx, recipeID, urlPath); err != nil {
		env.Logger.ErrorContext(ctx, "failed to record image", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	writeJSON(ctx, w, env, requestID, http.StatusCreated, ImageUploadResponse{URL: urlPath})
}

// authorizeRecipe writes the error response itself and reports whether
// the handler may continue.
func authorizeRecipe(ctx context.Context, w http.ResponseWriter, e *env.Env,
	requestID string, recipeID, userID int64) bool {
	e.Logger.DebugContext(ctx, "checking recipe ownership")
	ownerID, err := e.Database.GetRecipeOwner(ctx, recipeID)
	exists := true
	if database.IsNotFound(err) {
		exists = false
	} else if err != nil {
		e.Logger.ErrorContext(ctx, "failed to check recipe ownership", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return false
	}

	switch decision := ownership.Authorize(exists, ownerID, userID); decision {
	case ownership.Allowed:
		return true
	case ownership.DeniedNotFound:
		e.Logger.ErrorContext(ctx, "recipe does not exist", slog.Int64("recipe-id", recipeID))
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
	case ownership.DeniedForbidden:
		e.Logger.ErrorContext(ctx, "user does not own recipe", slog.Int64("recipe-id", recipeID))
		_ = apiError.EncodeError(w, apiError.NotResourceOwner, "user does not own recipe", requestID)
	}
	return false
}

// requireRecipe parses the path id and checks the recipe exists.
func requireRecipe(ctx context.Context, w http.ResponseWriter, r *http.Request,
	e *env.Env, requestID string) (int64, bool) {
	recipeID, err := strconv.ParseInt(chi.URLParam(r, "recipeID"), 10, 64)
	if err != nil {
		e.Logger.ErrorContext(ctx, "failed to parse recipe id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid recipe id", requestID)
		return 0, false
	}

	exists, err := e.Database.RecipeExists(ctx, recipeID)
	if err != nil {
		e.Logger.ErrorContext(ctx, "failed to check recipe existence", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return 0, false
	}
	if !exists {
		e.Logger.ErrorContext(ctx, "recipe does not exist", slog.Int64("recipe-id", recipeID))
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return 0, false
	}
	return recipeID, true
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
