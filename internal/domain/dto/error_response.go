package dto

import (
	"time"

	"github.com/guttosm/garchcast/internal/domain/errs"
)

// ErrorResponse is the JSON body of transport-level failures (bad JSON,
// rate limiting, panics) that happen before a lifecycle response exists.
type ErrorResponse struct {
	Message      string    `json:"message" example:"invalid request body"`
	ErrorCode    string    `json:"error_code,omitempty" example:"invalid_parameter"`
	ErrorDetails string    `json:"error_details,omitempty" example:"json: cannot unmarshal string into Go struct field"`
	Timestamp    time.Time `json:"timestamp" example:"2024-10-18T21:00:00Z"`
}

// NewErrorResponse builds an ErrorResponse stamped with the current UTC time.
// A non-nil err supplies the details and the taxonomy code.
func NewErrorResponse(message string, err error) ErrorResponse {
	e := ErrorResponse{Message: message, Timestamp: time.Now().UTC()}
	if err != nil {
		e.ErrorCode = errs.Code(err)
		e.ErrorDetails = err.Error()
	}
	return e
}

func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}
