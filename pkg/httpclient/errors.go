package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/kosynka/storefront/pkg/errors"
)

// DownstreamErrorBody mirrors the error payloads returned by the store
// backend. FastAPI-style backends put the message under "detail", others
// under "message"; both are tried.
type DownstreamErrorBody struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

// ParseResponseError reads the body of a non-2xx HTTP response and translates
// it into an error carrying a human-readable message. The response body is
// fully consumed and closed.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", serviceName, resp.StatusCode, err)
	}

	message := ""
	var downstream DownstreamErrorBody
	if json.Unmarshal(bodyBytes, &downstream) == nil {
		if downstream.Detail != "" {
			message = downstream.Detail
		} else if downstream.Message != "" {
			message = downstream.Message
		}
	}
	if message == "" {
		message = fmt.Sprintf("server error (status %d)", resp.StatusCode)
	}

	return mapDownstreamError(resp.StatusCode, message, serviceName)
}

// mapDownstreamError translates a downstream HTTP status code into an
// AppError preserving the message for presentation.
func mapDownstreamError(status int, message, serviceName string) error {
	qualified := fmt.Sprintf("%s: %s", serviceName, message)

	switch {
	case status == http.StatusNotFound:
		return apperrors.NotFound(serviceName, message)
	case status == http.StatusBadRequest:
		return apperrors.InvalidInput(qualified)
	case status == http.StatusUnauthorized:
		return apperrors.Unauthorized(qualified)
	case status == http.StatusServiceUnavailable:
		return apperrors.Unavailable(qualified)
	case status >= 500:
		return fmt.Errorf("%s server error (%d): %s", serviceName, status, message)
	default:
		return &apperrors.AppError{
			Code:    "DOWNSTREAM_ERROR",
			Message: qualified,
			Status:  status,
		}
	}
}

// IsClientError returns true if the HTTP status code is a 4xx client error.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
