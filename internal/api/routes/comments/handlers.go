// Package comments contains handlers for recipe comments.
package comments

import (
	"context"
	"encoding/json"
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
	"github.com/idoBeitOn/MealMate/internal/ownership"
)

// HandleCreateComment attaches a comment to an existing recipe. The
// response carries the commenter's username and email, matching what
// the feed renders.
func HandleCreateComment(w http.ResponseWriter, r *http.Request) {
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
	var request CreateCommentRequest
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

	// Whitespace-only comments are rejected after trimming.
	text := strings.TrimSpace(request.Text)
	if text == "" {
		env.Logger.ErrorContext(ctx, "comment text is empty after trimming")
		_ = apiError.EncodeError(w, apiError.ValidationError, "comment text is required", requestID)
		return
	}

	// Check recipe exists
	env.Logger.DebugContext(ctx, "checking recipe existence")
	exists, err := env.Database.RecipeExists(ctx, request.RecipeID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to check recipe existence", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if !exists {
		env.Logger.ErrorContext(ctx, "recipe does not exist", slog.Int64("recipe-id", request.RecipeID))
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return
	}

	// Create comment
	env.Logger.DebugContext(ctx, "creating comment")
	comment, err := env.Database.CreateComment(ctx, database.CreateCommentParams{
		RecipeID: request.RecipeID,
		UserID:   userID,
		Body:     text,
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to create comment", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	writeJSON(ctx, w, env, requestID, http.StatusCreated, comment)
}

// HandleListComments returns a recipe's comments, newest first.
func HandleListComments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	recipeID, err := strconv.ParseInt(chi.URLParam(r, "recipeID"), 10, 64)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to parse recipe id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid recipe id", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "checking recipe existence")
	exists, err := env.Database.RecipeExists(ctx, recipeID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to check recipe existence", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if !exists {
		env.Logger.ErrorContext(ctx, "recipe does not exist", slog.Int64("recipe-id", recipeID))
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "listing comments")
	comments, err := env.Database.ListCommentsByRecipe(ctx, recipeID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list comments", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	writeJSON(ctx, w, env, requestID, http.StatusOK, comments)
}

// HandleDeleteComment removes the caller's own comment.
func HandleDeleteComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	commentID, err := strconv.ParseInt(chi.URLParam(r, "commentID"), 10, 64)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to parse comment id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid comment id", requestID)
		return
	}

	// Check comment ownership
	env.Logger.DebugContext(ctx, "checking comment ownership")
	ownerID, err := env.Database.GetCommentOwner(ctx, commentID)
	exists := true
	if database.IsNotFound(err) {
		exists = false
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to check comment ownership", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	switch ownership.Authorize(exists, ownerID, userID) {
	case ownership.Allowed:
	case ownership.DeniedNotFound:
		env.Logger.ErrorContext(ctx, "comment does not exist", slog.Int64("comment-id", commentID))
		_ = apiError.EncodeError(w, apiError.CommentNotFound, "comment not found", requestID)
		return
	case ownership.DeniedForbidden:
		env.Logger.ErrorContext(ctx, "user does not own comment", slog.Int64("comment-id", commentID))
		_ = apiError.EncodeError(w, apiError.NotResourceOwner, "user does not own comment", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "deleting comment")
	if err := env.Database.DeleteComment(ctx, commentID); err != nil {
		env.Logger.ErrorContext(ctx, "failed to delete comment", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
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
