package webapi

import (
	"encoding/json"
	"net/http"

	apierr "degiro-trader/internal/errors"
)

// statusPayload is the error envelope the server attaches to failed calls.
type statusPayload struct {
	Status     int    `json:"status"`
	StatusText string `json:"statusText"`
}

// checkResponse applies the uniform response validation: any HTTP status
// outside 2xx becomes an APIStatusError carrying the raw body and, when
// present, the server-reported status payload. Nothing is retried here.
func checkResponse(op string, statusCode int, body []byte) error {
	if statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices {
		return nil
	}
	e := &apierr.APIStatusError{
		Op:         op,
		StatusCode: statusCode,
		Body:       string(body),
	}
	var payload statusPayload
	if json.Unmarshal(body, &payload) == nil {
		e.Status = payload.Status
		e.StatusText = payload.StatusText
	}
	return e
}
