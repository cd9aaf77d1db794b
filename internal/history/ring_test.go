package history

import (
	"fmt"
	"sync"
	"testing"

	"pdfSentinel/internal/model"
)

func entry(i int) model.ScanHistoryEntry {
	return model.ScanHistoryEntry{ID: fmt.Sprintf("id-%d", i), Name: fmt.Sprintf("f%d.pdf", i), Score: i}
}

func TestRing_EvictsOldest(t *testing.T) {
	r := NewRing(10)
	for i := 1; i <= 11; i++ {
		r.Add(entry(i))
	}

	got := r.List()
	if len(got) != 10 {
		t.Fatalf("Len = %d, want 10", len(got))
	}
	// 最新的在前，第 1 条被淘汰
	if got[0].ID != "id-11" {
		t.Errorf("first = %s, want id-11", got[0].ID)
	}
	if got[9].ID != "id-2" {
		t.Errorf("last = %s, want id-2", got[9].ID)
	}
	for _, e := range got {
		if e.ID == "id-1" {
			t.Error("oldest entry should have been evicted")
		}
	}
}

func TestRing_ListIsCopy(t *testing.T) {
	r := NewRing(3)
	r.Add(entry(1))
	list := r.List()
	list[0].Name = "mutated"
	if r.List()[0].Name != "f1.pdf" {
		t.Error("List must return a copy")
	}
}

func TestRing_Clear(t *testing.T) {
	r := NewRing(0)
	if r.Capacity() != DefaultCapacity {
		t.Errorf("Capacity = %d, want default", r.Capacity())
	}
	r.Add(entry(1))
	r.Add(entry(2))
	r.Clear()
	if r.Len() != 0 || len(r.List()) != 0 {
		t.Error("Clear did not empty the ring")
	}
	r.Add(entry(3))
	if r.Len() != 1 {
		t.Errorf("Len after reuse = %d, want 1", r.Len())
	}
}

func TestRing_Concurrent(t *testing.T) {
	r := NewRing(5)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.Add(entry(i))
			r.List()
		}(i)
	}
	wg.Wait()
	if r.Len() != 5 {
		t.Errorf("Len = %d, want 5", r.Len())
	}
}
