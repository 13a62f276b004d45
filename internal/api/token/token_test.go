package token

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/idoBeitOn/MealMate/internal/config"
	"github.com/idoBeitOn/MealMate/internal/env"
	"github.com/idoBeitOn/MealMate/internal/filestore"
	"github.com/idoBeitOn/MealMate/internal/jwt"
)

func TestFromAuthorizationHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{
			name:   "valid bearer",
			header: "Bearer abc.def.ghi",
			want:   "abc.def.ghi",
		},
		{
			name:   "lowercase scheme",
			header: "bearer abc.def.ghi",
			want:   "abc.def.ghi",
		},
		{
			name:    "missing header",
			header:  "",
			wantErr: true,
		},
		{
			name:    "no scheme",
			header:  "abc.def.ghi",
			wantErr: true,
		},
		{
			name:    "wrong scheme",
			header:  "Basic abc.def.ghi",
			wantErr: true,
		},
		{
			name:    "empty token",
			header:  "Bearer ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}

			got, err := FromAuthorizationHeader(r)
			if tt.wantErr {
				if !errors.Is(err, ErrMissingBearer) {
					t.Errorf("FromAuthorizationHeader() error = %v, want ErrMissingBearer", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FromAuthorizationHeader() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("FromAuthorizationHeader() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserIDCtxRoundTrip(t *testing.T) {
	ctx := UserIDWithCtx(context.Background(), 77)

	userID, err := UserIDFromCtx(ctx)
	if err != nil {
		t.Fatalf("UserIDFromCtx() error = %v", err)
	}
	if userID != 77 {
		t.Errorf("UserIDFromCtx() = %d, want 77", userID)
	}
}

func TestUserIDFromCtx_Missing(t *testing.T) {
	if _, err := UserIDFromCtx(context.Background()); !errors.Is(err, ErrNoUserID) {
		t.Errorf("UserIDFromCtx() error = %v, want ErrNoUserID", err)
	}
}

func TestNewAccessToken(t *testing.T) {
	secret := "test-secret-32-bytes-long-123456"
	e := env.New(nil, nil, filestore.FileStore{}, config.Config{
		AppSecret: config.AppSecret{
			Value:   config.AppSecretValue(secret),
			Version: "1",
		},
	})

	accessToken, err := NewAccessToken(99, e)
	if err != nil {
		t.Fatalf("NewAccessToken() error = %v", err)
	}

	parsed, err := jwt.ValidateJWT(accessToken, "1", []byte(secret))
	if err != nil {
		t.Fatalf("ValidateJWT() error = %v", err)
	}
	sub, err := parsed.Claims.GetSubject()
	if err != nil {
		t.Fatalf("GetSubject() error = %v", err)
	}
	if sub != "99" {
		t.Errorf("subject = %q, want %q", sub, "99")
	}
}
