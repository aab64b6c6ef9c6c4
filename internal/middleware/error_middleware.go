package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dcanli/fieldside/internal/app/models/dto"
	"github.com/dcanli/fieldside/internal/pkg/apperrors"
	"github.com/dcanli/fieldside/internal/pkg/logger"
)

// HandleAPIError maps service errors to HTTP responses. Controllers call it
// instead of building error payloads themselves so status codes and error
// codes stay consistent across the API.
func HandleAPIError(c *gin.Context, err error) {
	var customErr *apperrors.CustomError
	message := err.Error()
	if errors.As(err, &customErr) && customErr.Message != "" {
		message = customErr.Message
	}

	var status int
	var code dto.ErrorCode

	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		status, code = http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials
	case errors.Is(err, apperrors.ErrTokenExpired):
		status, code = http.StatusUnauthorized, dto.ErrorCodeExpiredToken
	case errors.Is(err, apperrors.ErrTokenInvalid):
		status, code = http.StatusUnauthorized, dto.ErrorCodeInvalidToken
	case errors.Is(err, apperrors.ErrTokenNotFound), errors.Is(err, apperrors.ErrTokenRevoked):
		status, code = http.StatusUnauthorized, dto.ErrorCodeTokenNotFound
	case errors.Is(err, apperrors.ErrUnauthorized):
		status, code = http.StatusUnauthorized, dto.ErrorCodeUnauthorized
	case errors.Is(err, apperrors.ErrPermissionDenied), errors.Is(err, apperrors.ErrSelfLikeNotAllowed):
		status, code = http.StatusForbidden, dto.ErrorCodeForbidden
	case errors.Is(err, apperrors.ErrResourceNotFound),
		errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrPostNotFound):
		status, code = http.StatusNotFound, dto.ErrorCodeResourceNotFound
	case errors.Is(err, apperrors.ErrResourceAlreadyExists),
		errors.Is(err, apperrors.ErrUsernameAlreadyExists):
		status, code = http.StatusConflict, dto.ErrorCodeResourceAlreadyExists
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest),
		errors.Is(err, apperrors.ErrOAuthStateMismatch):
		status, code = http.StatusBadRequest, dto.ErrorCodeValidationFailed
	case errors.Is(err, apperrors.ErrOAuthExchange):
		status, code = http.StatusBadGateway, dto.ErrorCodeInternalServer
	default:
		status, code = http.StatusInternalServerError, dto.ErrorCodeInternalServer
		message = "An unexpected error occurred"
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled API error")
	}

	errorDetail := dto.NewErrorDetail(code, message)
	if customErr != nil && customErr.Details != nil {
		errorDetail.WithDetails(customErr.Details)
	}
	c.JSON(status, dto.NewErrorResponse(errorDetail))
}
