package models

import (
	"fmt"
	"net/http"
)

// APIError represents a standardized error response for the API
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error code constants
const (
	// General errors
	ErrBadRequest       = "BAD_REQUEST"
	ErrUnauthorized     = "UNAUTHORIZED"
	ErrForbidden        = "FORBIDDEN"
	ErrNotFound         = "NOT_FOUND"
	ErrConflict         = "CONFLICT"
	ErrInternalServer   = "INTERNAL_SERVER_ERROR"
	ErrValidationFailed = "VALIDATION_FAILED"

	// Recipe-specific errors
	ErrRecipeNotFound     = "RECIPE_NOT_FOUND"
	ErrRecipeNotOwner     = "RECIPE_NOT_OWNER"
	ErrIngredientNotFound = "INGREDIENT_NOT_FOUND"
	ErrTagNotFound        = "TAG_NOT_FOUND"

	// Membership errors
	ErrAlreadyFavorited   = "ALREADY_FAVORITED"
	ErrNotFavorited       = "NOT_FAVORITED"
	ErrAlreadyInCart      = "ALREADY_IN_SHOPPING_CART"
	ErrNotInCart          = "NOT_IN_SHOPPING_CART"
	ErrAlreadySubscribed  = "ALREADY_SUBSCRIBED"
	ErrNotSubscribed      = "NOT_SUBSCRIBED"
	ErrSelfSubscription   = "SELF_SUBSCRIPTION"
	ErrUserNotFound       = "USER_NOT_FOUND"
	ErrAvatarNotSet       = "AVATAR_NOT_SET"
	ErrInvalidCredentials = "INVALID_CREDENTIALS"
	ErrPageNotFound       = "INVALID_PAGE"
)

// NewAPIError creates a new API error with the given code and message
func NewAPIError(code, message string, details ...map[string]interface{}) APIError {
	err := APIError{
		Code:    code,
		Message: message,
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

// ErrorKind classifies a DomainError and decides its HTTP status.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindConflict
	KindNotFound
	KindPermission
	KindAuthentication
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindPermission:
		return "permission"
	case KindAuthentication:
		return "authentication"
	default:
		return "unknown"
	}
}

// Status returns the HTTP status code the kind is surfaced with.
func (k ErrorKind) Status() int {
	switch k {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindPermission:
		return http.StatusForbidden
	case KindAuthentication:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// DomainError is returned by services for every failure the caller is
// expected to handle. Two DomainErrors match under errors.Is when their
// kind and code are equal, so sentinels work for errors built with fields.
type DomainError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Fields  map[string][]string
}

func (e *DomainError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s %v", e.Code, e.Message, e.Fields)
}

func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// APIError converts the domain error into the response body.
func (e *DomainError) APIError() APIError {
	if len(e.Fields) == 0 {
		return NewAPIError(e.Code, e.Message)
	}
	details := make(map[string]interface{}, len(e.Fields))
	for field, msgs := range e.Fields {
		details[field] = msgs
	}
	return NewAPIError(e.Code, e.Message, details)
}

// NewValidationError builds a validation error with field-level detail.
func NewValidationError(fields map[string][]string) *DomainError {
	return &DomainError{
		Kind:    KindValidation,
		Code:    ErrValidationFailed,
		Message: "invalid input",
		Fields:  fields,
	}
}

// Sentinel domain errors.
var (
	ErrRecipeMissing      = &DomainError{Kind: KindNotFound, Code: ErrRecipeNotFound, Message: "recipe not found"}
	ErrUserMissing        = &DomainError{Kind: KindNotFound, Code: ErrUserNotFound, Message: "user not found"}
	ErrTagMissing         = &DomainError{Kind: KindNotFound, Code: ErrTagNotFound, Message: "tag not found"}
	ErrIngredientMissing  = &DomainError{Kind: KindNotFound, Code: ErrIngredientNotFound, Message: "ingredient not found"}
	ErrNotRecipeOwner     = &DomainError{Kind: KindPermission, Code: ErrRecipeNotOwner, Message: "only the author can modify this recipe"}
	ErrForbiddenRole      = &DomainError{Kind: KindPermission, Code: ErrForbidden, Message: "insufficient permissions"}
	ErrNotAuthenticated   = &DomainError{Kind: KindAuthentication, Code: ErrUnauthorized, Message: "authentication credentials were not provided"}
	ErrBadCredentials     = &DomainError{Kind: KindValidation, Code: ErrInvalidCredentials, Message: "unable to log in with provided credentials"}
	ErrFavoriteExists     = &DomainError{Kind: KindConflict, Code: ErrAlreadyFavorited, Message: "recipe is already in favorites"}
	ErrFavoriteMissing    = &DomainError{Kind: KindConflict, Code: ErrNotFavorited, Message: "recipe is not in favorites"}
	ErrCartEntryExists    = &DomainError{Kind: KindConflict, Code: ErrAlreadyInCart, Message: "recipe is already in the shopping cart"}
	ErrCartEntryMissing   = &DomainError{Kind: KindConflict, Code: ErrNotInCart, Message: "recipe is not in the shopping cart"}
	ErrSubscriptionExists = &DomainError{Kind: KindConflict, Code: ErrAlreadySubscribed, Message: "already subscribed to this author"}
	ErrSubscriptionAbsent = &DomainError{Kind: KindConflict, Code: ErrNotSubscribed, Message: "not subscribed to this author"}
	ErrSubscribeSelf      = &DomainError{Kind: KindConflict, Code: ErrSelfSubscription, Message: "cannot subscribe to yourself"}
	ErrInvalidPage        = &DomainError{Kind: KindNotFound, Code: ErrPageNotFound, Message: "invalid page"}
	ErrNoAvatar           = &DomainError{Kind: KindValidation, Code: ErrAvatarNotSet, Message: "avatar is not set"}
)
