package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the body written for every failed request.
type ErrorResponse struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

const internalErrorMessage = "Internal server error"

// Success returns a 200 response with the given body.
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, data)
}

// Created returns a 201 response with the given body.
func Created(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusCreated, data)
}

// Error writes a uniform error body with the given status.
func Error(ctx *gin.Context, status int, message string) {
	ctx.AbortWithStatusJSON(status, ErrorResponse{Code: status, Error: message})
}

// RespondError maps err onto a status and body. Internal failures are logged
// and answered with a generic message.
func RespondError(ctx *gin.Context, log *zap.Logger, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = NewInternalError("unexpected failure", err)
	}
	status := AppErrorToHTTPStatus(appErr.Code)
	if appErr.Code == ErrInternal {
		if log != nil {
			log.Error("request failed",
				zap.String("path", ctx.FullPath()),
				zap.String("method", ctx.Request.Method),
				zap.Error(err),
			)
		}
		Error(ctx, status, internalErrorMessage)
		return
	}
	Error(ctx, status, appErr.Message)
}
