package service

import (
	"github.com/d60-Lab/shelf/internal/model"
	"github.com/d60-Lab/shelf/pkg/apperr"
)

var (
	ErrFollowSelf       = apperr.Validation("cannot follow yourself")
	ErrAlreadyFollowing = apperr.Conflict("already following this user")
	ErrNotFollowing     = apperr.NotFound("not following this user")
	ErrUserNotFound     = apperr.NotFound("user not found")

	ErrActivityNotFound = apperr.NotFound("activity not found")
	ErrInvalidAction    = apperr.Validation("invalid action type")

	ErrContentIDRequired  = apperr.Validation("contentId is required")
	ErrInvalidContentType = apperr.Validation("type must be movie or book")
	ErrQueryRequired      = apperr.Validation("query is required")
	ErrContentNotFound    = apperr.NotFound("content not found")
	ErrUpstream           = apperr.New(apperr.KindUpstreamUnavailable, "content provider unavailable")

	ErrInvalidScore = apperr.Validation("score must be between 1 and 10")

	ErrReviewText     = apperr.Validation("review text must be between 1 and 5000 characters")
	ErrReviewNotFound = apperr.NotFound("review not found")

	ErrInvalidStatus = apperr.Validation("status does not apply to this content type")
	ErrEntryNotFound = apperr.NotFound("library entry not found")
	ErrListName      = apperr.Validation("list name must be between 1 and 100 characters")
	ErrListNotFound  = apperr.NotFound("list not found")
	ErrBioTooLong    = apperr.Validation("bio must be at most 1000 characters")
	ErrAvatarTooLong = apperr.Validation("avatarUrl must be at most 500 characters")

	ErrMissingFields      = apperr.Validation("username, email and password are required")
	ErrWeakPassword       = apperr.Validation("password is too short")
	ErrUserExists         = apperr.Conflict("username or email already in use")
	ErrInvalidCredentials = apperr.Unauthorized("invalid email or password")
	ErrInvalidResetToken  = apperr.Validation("invalid or expired reset token")
)

func validateRef(ref model.ContentRef) error {
	if ref.ID == "" {
		return ErrContentIDRequired
	}
	if !ref.Type.Valid() {
		return ErrInvalidContentType
	}
	return nil
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
