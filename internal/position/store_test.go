package position

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
)

func TestStoreMissingFileIsIdle(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "absent", "position.json"))

	if err := s.Load(); err != nil {
		t.Fatalf("missing snapshot must not be an error: %v", err)
	}
	if got := s.Get("THB_DOGE"); got.Phase != Idle {
		t.Fatalf("expected Idle for untracked symbol, got %+v", got)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "position.json")

	s := NewStore(path)
	want := Position{
		Phase:          Holding,
		ReferencePrice: decimal.RequireFromString("98.00"),
		HeldAmount:     decimal.RequireFromString("1.02040816"),
	}
	if err := s.Put("THB_DOGE", want); err != nil {
		t.Fatalf("put: %v", err)
	}

	reloaded := NewStore(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	got := reloaded.Get("THB_DOGE")
	if got.Phase != Holding {
		t.Fatalf("expected Holding, got %s", got.Phase)
	}
	if !got.ReferencePrice.Equal(want.ReferencePrice) || !got.HeldAmount.Equal(want.HeldAmount) {
		t.Fatalf("snapshot round trip changed values: %+v", got)
	}
	if other := reloaded.Get("THB_BTC"); other.Phase != Idle {
		t.Fatalf("untracked symbol must read Idle, got %+v", other)
	}
}
