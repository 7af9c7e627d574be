package s3store

import "testing"

func TestStore_PublicURL(t *testing.T) {
	s := &Store{publicBaseURL: "https://cdn.example.com"}

	if got := s.PublicURL("logos/team-1.png"); got != "https://cdn.example.com/logos/team-1.png" {
		t.Fatalf("unexpected url %q", got)
	}
	if got := s.PublicURL("/logos/team-1.png"); got != "https://cdn.example.com/logos/team-1.png" {
		t.Fatalf("leading slash should not double: %q", got)
	}
}

func TestNew_RequiresBucket(t *testing.T) {
	if _, err := New(t.Context(), Config{PublicBaseURL: "https://cdn.example.com"}, nil); err == nil {
		t.Fatal("expected error without a bucket")
	}
}
