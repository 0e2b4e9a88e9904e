package handler

import (
	"net/http"

	"github.com/backoffice-ledger/internal/api_server/middleware"
	"github.com/gin-gonic/gin"
)

// Response is the envelope of every API reply
type Response struct {
	Data          interface{} `json:"data,omitempty"`
	Error         *ErrorInfo  `json:"error,omitempty"`
	CorrelationID string      `json:"correlation_id,omitempty"`
	Meta          *MetaInfo   `json:"meta,omitempty"`
}

// ErrorInfo carries a machine-readable code. Fields lists the per-field
// problems of a rejected entry.
type ErrorInfo struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// MetaInfo describes the page returned by a list endpoint
type MetaInfo struct {
	Page       int `json:"page,omitempty"`
	PerPage    int `json:"per_page,omitempty"`
	TotalPages int `json:"total_pages,omitempty"`
	TotalItems int `json:"total_items,omitempty"`
}

func pageMeta(page, perPage, totalItems int) *MetaInfo {
	totalPages := 0
	if perPage > 0 {
		totalPages = (totalItems + perPage - 1) / perPage
	}
	return &MetaInfo{
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		TotalItems: totalItems,
	}
}

func respond(c *gin.Context, statusCode int, response *Response) {
	response.CorrelationID = middleware.GetCorrelationID(c)
	c.JSON(statusCode, response)
}

func respondErrorStatus(c *gin.Context, statusCode int, code, message string) {
	respond(c, statusCode, &Response{Error: &ErrorInfo{Code: code, Message: message}})
}

func RespondOK(c *gin.Context, data interface{}) {
	respond(c, http.StatusOK, &Response{Data: data})
}

func RespondCreated(c *gin.Context, data interface{}) {
	respond(c, http.StatusCreated, &Response{Data: data})
}

// RespondWithPaginatedData sends one page of a list with its page metadata
func RespondWithPaginatedData(c *gin.Context, statusCode int, data interface{}, page, perPage, totalItems int) {
	respond(c, statusCode, &Response{Data: data, Meta: pageMeta(page, perPage, totalItems)})
}

func RespondBadRequest(c *gin.Context, message string) {
	respondErrorStatus(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

func RespondNotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	respondErrorStatus(c, http.StatusNotFound, "NOT_FOUND", message)
}

func RespondConflict(c *gin.Context, message string) {
	respondErrorStatus(c, http.StatusConflict, "CONFLICT", message)
}

// RespondValidationFailed sends a 422 listing every field problem at once
func RespondValidationFailed(c *gin.Context, fields map[string]string) {
	respond(c, http.StatusUnprocessableEntity, &Response{Error: &ErrorInfo{
		Code:    "VALIDATION_FAILED",
		Message: "The entry is inconsistent",
		Fields:  fields,
	}})
}

// RespondInternalError hides the cause from the client; callers log it
func RespondInternalError(c *gin.Context) {
	respondErrorStatus(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An internal server error occurred")
}
