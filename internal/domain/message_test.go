package domain_test

import (
	"testing"

	"github.com/peerconnect/backend/internal/domain"
)

func TestPairKey_OrderIndependent(t *testing.T) {
	if domain.PairKey(7, 3) != domain.PairKey(3, 7) {
		t.Fatal("pair key must not depend on initiator order")
	}
	if got := domain.PairKey(7, 3); got != "3:7" {
		t.Fatalf("got %q, want %q", got, "3:7")
	}
}

func TestPairKey_SelfPair(t *testing.T) {
	if got := domain.PairKey(5, 5); got != "5:5" {
		t.Fatalf("got %q, want %q", got, "5:5")
	}
}
