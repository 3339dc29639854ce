package util

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestIsRetryableError(t *testing.T) {
	t.Parallel()

	jsonErr := json.Unmarshal([]byte("{"), &struct{}{})

	cases := []struct {
		name     string
		err      error
		want     bool
		wantKind string
	}{
		{"nil", nil, false, ""},
		{"json syntax", jsonErr, false, "json_decode_error"},
		{"no rows", pgx.ErrNoRows, false, "not_found"},
		{"deadline", context.DeadlineExceeded, true, "timeout"},
		{"connection string", errors.New("connection refused"), true, "connection_error"},
		{"duplicate key", errors.New(`duplicate key value violates unique constraint "users_email_key"`), false, "duplicate_key"},
		{"unknown", errors.New("something else"), false, "unknown"},
	}
	for _, c := range cases {
		got, kind := IsRetryableError(c.err)
		if got != c.want || kind != c.wantKind {
			t.Fatalf("%s: = (%v, %q), want (%v, %q)", c.name, got, kind, c.want, c.wantKind)
		}
	}
}
