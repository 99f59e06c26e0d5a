package api

import (
	"encoding/json"
	"net/http"

	"github.com/hashheat/hashheat/pkg/errors"
)

// errorBody is the wire shape of every error response.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	writeJSON(w, statusFor(code), errorBody{
		Code:    string(code),
		Message: errors.UserMessage(err),
	})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidSeries,
		errors.ErrCodeInvalidMetric,
		errors.ErrCodeInvalidCountry,
		errors.ErrCodeInvalidDirection,
		errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidChartType,
		errors.ErrCodeInvalidLayout,
		errors.ErrCodeInvalidDocument:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound,
		errors.ErrCodeRegionNotFound,
		errors.ErrCodeReportNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
