package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsUniqueViolation(t *testing.T) {
	if !IsUniqueViolation(&pq.Error{Code: "23505"}) {
		t.Error("expected 23505 to be a unique violation")
	}
	if IsUniqueViolation(&pq.Error{Code: "23503"}) {
		t.Error("foreign key violation is not a unique violation")
	}
	if IsUniqueViolation(errors.New("plain error")) {
		t.Error("non-driver error is not a unique violation")
	}
	wrapped := fmt.Errorf("inserting: %w", &pq.Error{Code: "23505"})
	if !IsUniqueViolation(wrapped) {
		t.Error("expected wrapped driver error to be detected")
	}
}

func TestIsUUID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"6ba7b810-9dad-11d1-80b4-00c04fd430c8", true},
		{"abc", false},
		{"", false},
		{"6ba7b810-9dad-11d1-80b4-00c04fd430c8x", false},
	}
	for _, tt := range tests {
		if got := isUUID(tt.id); got != tt.want {
			t.Errorf("isUUID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestFilterUUIDs(t *testing.T) {
	ids := []string{
		"6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		"not-an-id",
		"6ba7b811-9dad-11d1-80b4-00c04fd430c8",
		"",
	}
	got := filterUUIDs(ids)
	if len(got) != 2 {
		t.Fatalf("expected 2 well-formed IDs, got %d", len(got))
	}
	if got[0] != ids[0] || got[1] != ids[2] {
		t.Errorf("expected order preserved, got %v", got)
	}
}
