package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Sathviksu/College-Placement-Management-Portal/internal/common"
)

// ErrorCollector counts error responses by code. Set once at startup.
type ErrorCollector interface {
	IncError(code string)
}

var errorCollector ErrorCollector

func SetErrorCollector(collector ErrorCollector) {
	errorCollector = collector
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

type errorBody struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// Error renders err as the JSON error envelope. Unknown errors are
// flattened to a 500 without leaking the underlying message.
func Error(w http.ResponseWriter, err error) {
	var appErr *common.Error
	if !errors.As(err, &appErr) {
		appErr = &common.Error{Code: common.CodeInternal, Message: "internal server error", Err: err}
	}
	if errorCollector != nil {
		errorCollector.IncError(string(appErr.Code))
	}
	JSON(w, statusFor(appErr.Code), errorBody{Error: appErr.Message, Details: appErr.Details})
}

func statusFor(code common.Code) int {
	switch code {
	case common.CodeValidation:
		return http.StatusBadRequest
	case common.CodeUnauthorized:
		return http.StatusUnauthorized
	case common.CodeForbidden:
		return http.StatusForbidden
	case common.CodeNotFound:
		return http.StatusNotFound
	case common.CodeConflict:
		return http.StatusConflict
	case common.CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
