package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/lshigami/codeduel/internal/apperror"
	"github.com/lshigami/codeduel/internal/dto"
	"github.com/lshigami/codeduel/internal/middleware"
	"github.com/rs/zerolog/log"
)

// RespondError writes err using the domain status mapping. Server errors
// are logged and answered with a generic message.
func RespondError(ctx *gin.Context, op string, err error) {
	status := apperror.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("op", op).Str("path", ctx.FullPath()).Msg("request failed")
	} else {
		log.Warn().Err(err).Str("op", op).Int("status", status).Msg("request rejected")
	}
	ctx.JSON(status, dto.ErrorResponse{Message: apperror.PublicMessage(err)})
}

// RespondBindError answers a request body or query that failed binding.
func RespondBindError(ctx *gin.Context, op string, err error) {
	log.Warn().Err(err).Str("op", op).Msg("Failed to bind request")
	var details []string
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			details = append(details, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
		}
	} else {
		details = []string{err.Error()}
	}
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: details})
}

// UserID returns the authenticated caller, or "" for anonymous requests.
func UserID(ctx *gin.Context) string {
	id, _ := middleware.CurrentUser(ctx)
	return id.UserID
}
