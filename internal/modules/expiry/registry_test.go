package expiry

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func testRegistration(product, market string) Registration {
	return Registration{
		ID:   ContractID{Product: product, Market: market, Type: Future},
		Rule: NewRule().OnNthWeekday(3, time.Friday).AdjustBackward().MustBuild(),
	}
}

func TestNewRegistry(t *testing.T) {
	t.Run("duplicate identifier rejected", func(t *testing.T) {
		_, err := NewRegistry([]Registration{
			testRegistration("ES", "CME"),
			testRegistration("ES", "CME"),
		})
		if err == nil {
			t.Error("expected error for duplicate registration")
		}
	})

	t.Run("nil rule rejected", func(t *testing.T) {
		_, err := NewRegistry([]Registration{{ID: ContractID{Product: "ES", Market: "CME", Type: Future}}})
		if err == nil {
			t.Error("expected error for registration without a rule")
		}
	})

	t.Run("same product on two markets is distinct", func(t *testing.T) {
		r, err := NewRegistry([]Registration{
			testRegistration("B", "ICE"),
			testRegistration("B", "NYMEX"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.Len() != 2 {
			t.Errorf("expected 2 registrations, got %d", r.Len())
		}
	})
}

func TestRegistryResolve(t *testing.T) {
	r, err := NewRegistry([]Registration{testRegistration("ES", "CME")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := r.Resolve(ContractID{Product: "ES", Market: "CME", Type: Future}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	_, err = r.Resolve(ContractID{Product: "XX", Market: "CME", Type: Future})
	if !errors.Is(err, ErrUnsupportedContract) {
		t.Errorf("expected ErrUnsupportedContract, got %v", err)
	}
}

func TestRegistryContractsOrdered(t *testing.T) {
	r, err := NewRegistry([]Registration{
		testRegistration("ZC", "CBOT"),
		testRegistration("CL", "NYMEX"),
		testRegistration("ES", "CME"),
		testRegistration("6E", "CME"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := r.Contracts()
	want := []ContractID{
		{Product: "ZC", Market: "CBOT", Type: Future},
		{Product: "6E", Market: "CME", Type: Future},
		{Product: "ES", Market: "CME", Type: Future},
		{Product: "CL", Market: "NYMEX", Type: Future},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d contracts, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRegistryConcurrentReads(t *testing.T) {
	r, err := NewRegistry([]Registration{testRegistration("ES", "CME")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	id := ContractID{Product: "ES", Market: "CME", Type: Future}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if _, err := r.Resolve(id); err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
				r.Contracts()
			}
		}()
	}
	wg.Wait()
}
