package controllers

import (
	"net/http"

	"github.com/Aditya0Kumar/trackr-sub000/config"
	"github.com/Aditya0Kumar/trackr-sub000/models"
	"github.com/Aditya0Kumar/trackr-sub000/services"

	"github.com/gin-gonic/gin"
)

var statusByCode = map[services.Code]int{
	services.CodeBadRequest:        http.StatusBadRequest,
	services.CodeForbidden:         http.StatusForbidden,
	services.CodeInvalidTransition: http.StatusUnprocessableEntity,
	services.CodeInvalidState:      http.StatusUnprocessableEntity,
	services.CodeNotFound:          http.StatusNotFound,
	services.CodeQuotaExceeded:     http.StatusTooManyRequests,
	services.CodeConflict:          http.StatusConflict,
	services.CodeTransient:         http.StatusServiceUnavailable,
	services.CodeCorruptDocument:   http.StatusInternalServerError,
}

// HTTPStatus maps a service error to its response status
func HTTPStatus(err error) int {
	if status, ok := statusByCode[services.CodeOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	status := HTTPStatus(err)
	code := services.CodeOf(err)
	_ = c.Error(err)

	if status >= http.StatusInternalServerError && code == services.CodeUnknown {
		config.Logger.Errorw("unexpected error", "path", c.FullPath(), "uid", c.GetString("uid"), "error", err)
		c.JSON(status, models.ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(status, models.ErrorResponse{Error: err.Error(), Code: string(code)})
}

func badRequest(c *gin.Context, err error) {
	invalidRequest(c, "invalid request: "+err.Error())
}

// invalidRequest rejects a request the handler could not interpret
func invalidRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: message, Code: string(services.CodeBadRequest)})
}
