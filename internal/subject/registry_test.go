package subject

import (
	"fmt"
	"sync"
	"testing"

	"github.com/DasBoogs/news-fetcher/models"
)

func TestRegistryGetUnknown(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.Get("nope"); ok {
		t.Fatalf("expected unknown subject to be absent")
	}
}

func TestRegistryGetAllKeepsRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	r.Add(models.Subject{ID: "b", Name: "B"})
	r.Add(models.Subject{ID: "a", Name: "A"})
	r.Add(models.Subject{ID: "c", Name: "C"})

	all := r.GetAll()
	if len(all) != 3 {
		t.Fatalf("expected 3 subjects, got %d", len(all))
	}
	for i, want := range []string{"b", "a", "c"} {
		if all[i].ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, all[i].ID)
		}
	}
}

func TestRegistryAddOverwritesWholeRecord(t *testing.T) {
	r := NewRegistry()
	r.Add(models.Subject{ID: "go", Name: "Go", Keywords: []string{"golang", "goroutine"}})
	r.Add(models.Subject{ID: "rust", Name: "Rust"})
	r.Add(models.Subject{ID: "go", Name: "Go v2", Keywords: []string{"generics"}})

	s, ok := r.Get("go")
	if !ok {
		t.Fatalf("expected subject to remain registered")
	}
	if s.Name != "Go v2" {
		t.Errorf("expected overwritten name, got %q", s.Name)
	}
	if len(s.Keywords) != 1 || s.Keywords[0] != "generics" {
		t.Errorf("expected keyword lists to be replaced, not merged: %v", s.Keywords)
	}

	all := r.GetAll()
	if len(all) != 2 {
		t.Fatalf("overwrite must not grow the registry, got %d entries", len(all))
	}
	if all[0].ID != "go" {
		t.Errorf("overwrite must keep original registration position, got %s first", all[0].ID)
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			r.Add(models.Subject{ID: fmt.Sprintf("s-%d", n)})
		}(i)
		go func(n int) {
			defer wg.Done()
			r.Get(fmt.Sprintf("s-%d", n))
			r.GetAll()
		}(i)
	}
	wg.Wait()

	if got := len(r.GetAll()); got != 50 {
		t.Fatalf("expected 50 subjects after concurrent adds, got %d", got)
	}
}
