package service

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// The unknown-email login path compares against a dummy hash. It must be
// generated at the same cost as real credential hashes, otherwise the two
// failure paths diverge in duration and emails become enumerable.
func TestNewAuthService_DummyHashUsesConfiguredCost(t *testing.T) {
	for _, cost := range []int{bcrypt.MinCost, 6, 8} {
		store := NewCredentialStore(nil, cost)
		auth := NewAuthService(store, "0123456789abcdef0123456789abcdef", time.Hour)

		got, err := bcrypt.Cost(auth.dummyHash)
		if err != nil {
			t.Fatalf("cost %d: read dummy hash cost: %v", cost, err)
		}
		if got != cost {
			t.Fatalf("dummy hash generated at cost %d, store uses cost %d", got, cost)
		}
	}
}
