package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apiError "github.com/idoBeitOn/MealMate/internal/api/error"
	"github.com/idoBeitOn/MealMate/internal/api/requestid"
	"github.com/idoBeitOn/MealMate/internal/api/token"
	"github.com/idoBeitOn/MealMate/internal/config"
	"github.com/idoBeitOn/MealMate/internal/database"
	"github.com/idoBeitOn/MealMate/internal/env"
	"github.com/idoBeitOn/MealMate/internal/filestore"
)

func newAuthRequest(t *testing.T, path, body string) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")

	e := env.New(nil, nil, filestore.FileStore{}, config.Config{})
	r = r.WithContext(env.WithCtx(r.Context(), e))
	r = r.WithContext(requestid.InjectRequestID(r.Context(), 1))
	return r
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apiError.Error {
	t.Helper()
	var body apiError.Error
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshaling error body: %v", err)
	}
	return body
}

// These rejections happen before any storage access.
func TestHandleRegister_Validation(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode apiError.ErrorCode
	}{
		{
			name:     "missing username",
			body:     `{"email":"cook@example.com","password":"correct-horse-battery-staple-91"}`,
			wantCode: apiError.ValidationError,
		},
		{
			name:     "username too short",
			body:     `{"username":"ab","email":"cook@example.com","password":"correct-horse-battery-staple-91"}`,
			wantCode: apiError.ValidationError,
		},
		{
			name:     "invalid email",
			body:     `{"username":"cook","email":"not-an-email","password":"correct-horse-battery-staple-91"}`,
			wantCode: apiError.ValidationError,
		},
		{
			name:     "missing password",
			body:     `{"username":"cook","email":"cook@example.com"}`,
			wantCode: apiError.ValidationError,
		},
		{
			name:     "password too short",
			body:     `{"username":"cook","email":"cook@example.com","password":"ab1"}`,
			wantCode: apiError.WeakPassword,
		},
		{
			name:     "password too weak",
			body:     `{"username":"cook","email":"cook@example.com","password":"aaaaaaaa"}`,
			wantCode: apiError.WeakPassword,
		},
		{
			name:     "unknown field",
			body:     `{"username":"cook","email":"cook@example.com","password":"correct-horse-battery-staple-91","role":"admin"}`,
			wantCode: apiError.ValidationError,
		},
		{
			name:     "not json",
			body:     `username=cook`,
			wantCode: apiError.ValidationError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleRegister(rec, newAuthRequest(t, "/api/auth/register", tt.body))

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
			if body := decodeError(t, rec); body.Code != tt.wantCode {
				t.Errorf("error code = %q, want %q", body.Code, tt.wantCode)
			}
		})
	}
}

type profileStore struct {
	database.Store
}

func (profileStore) GetUser(ctx context.Context, id int64) (database.User, error) {
	return database.User{ID: id, Username: "cook", Email: "cook@example.com"}, nil
}

func TestHandleMe(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	e := env.New(nil, profileStore{}, filestore.FileStore{}, config.Config{})
	r = r.WithContext(env.WithCtx(r.Context(), e))
	r = r.WithContext(requestid.InjectRequestID(r.Context(), 1))
	r = r.WithContext(token.UserIDWithCtx(r.Context(), 42))

	rec := httptest.NewRecorder()
	HandleMe(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var user UserPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &user); err != nil {
		t.Fatalf("unmarshaling response: %v", err)
	}
	if user.ID != 42 || user.Username != "cook" || user.Email != "cook@example.com" {
		t.Errorf("user = %+v, want the caller's profile", user)
	}
}

func TestHandleLogin_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "missing email",
			body: `{"password":"whatever123"}`,
		},
		{
			name: "missing password",
			body: `{"email":"cook@example.com"}`,
		},
		{
			name: "unknown field",
			body: `{"email":"cook@example.com","password":"whatever123","remember_me":true}`,
		},
		{
			name: "not json",
			body: `email=cook@example.com`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleLogin(rec, newAuthRequest(t, "/api/auth/login", tt.body))

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
			if body := decodeError(t, rec); body.Code != apiError.ValidationError {
				t.Errorf("error code = %q, want %q", body.Code, apiError.ValidationError)
			}
		})
	}
}
