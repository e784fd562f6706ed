package billing

import (
	"strings"
	"testing"
)

func TestPublicTokenFormat(t *testing.T) {
	token, err := PublicToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(token) != TokenLength {
		t.Fatalf("token length = %d, want %d", len(token), TokenLength)
	}
	for _, r := range token {
		if !strings.ContainsRune(tokenAlphabet, r) {
			t.Fatalf("token %q contains %q outside alphabet", token, r)
		}
	}
}

func TestPublicTokenNoDuplicates(t *testing.T) {
	seen := make(map[string]bool, 10000)
	for i := 0; i < 10000; i++ {
		token, err := PublicToken()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen[token] {
			t.Fatalf("duplicate token after %d generations", i)
		}
		seen[token] = true
	}
}
