package error

import "net/http"

type ErrorCode string

const (
	UnknownError         ErrorCode = "unknown_error"
	InternalServerError  ErrorCode = "internal_server_error"
	BadRequest           ErrorCode = "bad_request"
	ValidationError      ErrorCode = "validation_error"
	InvalidCredentials   ErrorCode = "invalid_credentials"
	InvalidAccessToken   ErrorCode = "invalid_access_token"
	ExpiredAccessToken   ErrorCode = "expired_access_token"
	WeakPassword         ErrorCode = "weak_password"
	AlreadyRegistered    ErrorCode = "already_registered"
	NotResourceOwner     ErrorCode = "not_resource_owner"
	RecipeNotFound       ErrorCode = "recipe_not_found"
	CommentNotFound      ErrorCode = "comment_not_found"
	MealNotFound         ErrorCode = "meal_not_found"
	MealSlotConflict     ErrorCode = "meal_slot_conflict"
	ShoppingListNotFound ErrorCode = "shopping_list_not_found"
	ItemNotFound         ErrorCode = "item_not_found"
	CategoryConflict     ErrorCode = "category_conflict"
)

var errorCodeToStatusCode = map[ErrorCode]int{
	UnknownError:        0, // No error code - unknown
	InternalServerError: http.StatusInternalServerError,
	BadRequest:          http.StatusBadRequest,
	ValidationError:     http.StatusBadRequest,
	InvalidCredentials:  http.StatusUnauthorized,
	InvalidAccessToken:  http.StatusUnauthorized,
	ExpiredAccessToken:  http.StatusUnauthorized,
	WeakPassword:        http.StatusBadRequest,
	// Duplicate registration reports 400, matching the public contract.
	AlreadyRegistered:    http.StatusBadRequest,
	NotResourceOwner:     http.StatusForbidden,
	RecipeNotFound:       http.StatusNotFound,
	CommentNotFound:      http.StatusNotFound,
	MealNotFound:         http.StatusNotFound,
	MealSlotConflict:     http.StatusConflict,
	ShoppingListNotFound: http.StatusNotFound,
	ItemNotFound:         http.StatusNotFound,
	CategoryConflict:     http.StatusConflict,
}

func (ec ErrorCode) StatusCode() int {
	return errorCodeToStatusCode[ec]
}

func (ec ErrorCode) String() string {
	return string(ec)
}
