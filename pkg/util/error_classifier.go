package util

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5"
)

// IsRetryableError classifies an error for the enhancement client's single
// retry decision. Returns (isRetryable, errorType).
func IsRetryableError(err error) (bool, string) {
	if err == nil {
		return false, ""
	}

	// Malformed payloads never get better on retry.
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return false, "json_decode_error"
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return false, "json_decode_error"
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return false, "not_found"
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true, "timeout"
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true, "network_error"
	}

	errStr := err.Error()
	if strings.Contains(errStr, "duplicate key") {
		return false, "duplicate_key"
	}
	if strings.Contains(errStr, "connection") || strings.Contains(errStr, "timeout") {
		return true, "connection_error"
	}

	return false, "unknown"
}
