package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fleet/internal/repository"
	"fleet/internal/service"
)

// timeFormat is the wire format for timestamps.
const timeFormat = "2006-01-02T15:04:05Z07:00"

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ListResponse wraps a page of results with the total match count.
type ListResponse struct {
	Data  any   `json:"data"`
	Count int64 `json:"count"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// parsePage reads limit/offset query parameters.
func parsePage(c *gin.Context) repository.Page {
	var page repository.Page
	if v, err := strconv.Atoi(c.Query("limit")); err == nil {
		page.Limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil {
		page.Offset = v
	}
	return page
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidCompanyName),
		errors.Is(err, service.ErrInvalidDriverName),
		errors.Is(err, service.ErrInvalidDriverPhone),
		errors.Is(err, service.ErrNewDriverNameRequired),
		errors.Is(err, service.ErrInvalidLicencePlate),
		errors.Is(err, service.ErrInvalidVehicleType),
		errors.Is(err, service.ErrInvalidUnloadStatus),
		errors.Is(err, service.ErrInvalidCompanyID),
		errors.Is(err, service.ErrInvalidDriverID),
		errors.Is(err, service.ErrInvalidVehicleID),
		errors.Is(err, service.ErrInvalidTripID),
		errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrInvalidUserEmail),
		errors.Is(err, service.ErrInvalidUserPassword),
		errors.Is(err, service.ErrInvalidUserRole):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, repository.ErrDuplicateKey),
		errors.Is(err, service.ErrActiveTripExists):
		return http.StatusConflict

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
