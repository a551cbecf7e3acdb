package errors

import (
	"encoding/json"
	"net/http"
)

// HTTPError is the JSON envelope returned to clients for failed requests
type HTTPError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Meta    map[string]interface{} `json:"meta,omitempty"`
}

// ToHTTPError converts an error to the JSON envelope and its status code
func ToHTTPError(err error) (int, *HTTPError) {
	if err == nil {
		return http.StatusOK, nil
	}

	var customErr *Error
	if As(err, &customErr) {
		return customErr.Code.HTTPStatus(), &HTTPError{
			Code:    string(customErr.Code),
			Message: customErr.Message,
			Meta:    customErr.Meta,
		}
	}

	return http.StatusInternalServerError, &HTTPError{
		Code:    string(CodeInternal),
		Message: err.Error(),
	}
}

// WriteHTTPError writes an error to the response as a JSON envelope
func WriteHTTPError(w http.ResponseWriter, err error) {
	status, body := ToHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Encoding a flat struct cannot fail; ignore the error like http.Error does
	_ = json.NewEncoder(w).Encode(body)
}
