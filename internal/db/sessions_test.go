package db

import (
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestHashSessionToken(t *testing.T) {
	a := HashSessionToken("some-token")
	b := HashSessionToken("some-token")
	if a != b {
		t.Errorf("hash is not deterministic: %q vs %q", a, b)
	}
	if a == HashSessionToken("other-token") {
		t.Error("distinct tokens hashed to the same value")
	}
	if strings.ContainsAny(a, "+/=") {
		t.Errorf("hash %q is not URL-safe", a)
	}
	// SHA-256 in unpadded base64 is always 43 characters
	if len(a) != 43 {
		t.Errorf("hash length = %d, want 43", len(a))
	}
}

func TestIsUniqueViolation(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505"}
	if !isUniqueViolation(unique) {
		t.Error("23505 not recognized as a unique violation")
	}
	if !isUniqueViolation(fmt.Errorf("insert failed: %w", unique)) {
		t.Error("wrapped 23505 not recognized")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("foreign-key violation misread as unique violation")
	}
	if isUniqueViolation(fmt.Errorf("plain error")) {
		t.Error("plain error misread as unique violation")
	}
}
