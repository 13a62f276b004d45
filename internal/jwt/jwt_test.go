package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-32-bytes-long-123456"

func TestGenerateAndValidateJWT(t *testing.T) {
	signed, err := GenerateJWT(JWTParams{UserID: "42"}, []byte(testSecret), DefaultKID)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	token, err := ValidateJWT(signed, DefaultKID, []byte(testSecret))
	if err != nil {
		t.Fatalf("ValidateJWT() error = %v", err)
	}
	if !token.Valid {
		t.Error("expected token to be valid")
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		t.Fatalf("GetSubject() error = %v", err)
	}
	if sub != "42" {
		t.Errorf("subject = %q, want %q", sub, "42")
	}

	exp, err := token.Claims.GetExpirationTime()
	if err != nil {
		t.Fatalf("GetExpirationTime() error = %v", err)
	}
	remaining := time.Until(exp.Time)
	if remaining <= 0 || remaining > JWTDuration {
		t.Errorf("expiry %v from now, want within (0, %v]", remaining, JWTDuration)
	}
}

func TestValidateJWT_WrongSecret(t *testing.T) {
	signed, err := GenerateJWT(JWTParams{UserID: "42"}, []byte(testSecret), DefaultKID)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	if _, err := ValidateJWT(signed, DefaultKID, []byte("another-secret-32-bytes-long-xyz")); err == nil {
		t.Error("expected validation to fail with the wrong secret")
	}
}

func TestValidateJWT_KIDMismatch(t *testing.T) {
	signed, err := GenerateJWT(JWTParams{UserID: "42"}, []byte(testSecret), "2")
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	if _, err := ValidateJWT(signed, "1", []byte(testSecret)); err == nil {
		t.Error("expected validation to fail when kid does not match the configured version")
	}
}

func TestValidateJWT_MissingKID(t *testing.T) {
	claims := jwt.MapClaims{
		"sub": "42",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}

	if _, err := ValidateJWT(signed, DefaultKID, []byte(testSecret)); err == nil {
		t.Error("expected validation to fail without a kid header")
	}
}

func TestValidateJWT_Expired(t *testing.T) {
	claims := jwt.MapClaims{
		"sub": "42",
		"iat": time.Now().Add(-2 * time.Hour).Unix(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["kid"] = DefaultKID
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}

	_, err = ValidateJWT(signed, DefaultKID, []byte(testSecret))
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Errorf("ValidateJWT() error = %v, want ErrTokenExpired", err)
	}
}

func TestValidateJWT_RejectsOtherSigningMethods(t *testing.T) {
	claims := jwt.MapClaims{
		"sub": "42",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	token.Header["kid"] = DefaultKID
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}

	if _, err := ValidateJWT(signed, DefaultKID, []byte(testSecret)); err == nil {
		t.Error("expected validation to reject a non-HS256 token")
	}
}
