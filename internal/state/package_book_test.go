package state

import (
	"delivery-tracker/internal/domain"
	"errors"
	"testing"
	"time"
)

func TestPackageBookAddRejectsDuplicates(t *testing.T) {
	book := NewPackageBook()

	if !book.Add(domain.Package{ID: "0b6f7c52-8d8e-4a4b-9a55-3c1f0e0c2a11"}) {
		t.Fatalf("first add should succeed")
	}
	if book.Add(domain.Package{ID: "0B6F7C52-8D8E-4A4B-9A55-3C1F0E0C2A11"}) {
		t.Fatalf("duplicate add should be rejected")
	}
	if got := book.Len(); got != 1 {
		t.Fatalf("len = %d, want 1", got)
	}
}

func TestPackageBookDraftCommit(t *testing.T) {
	book := NewPackageBook()
	book.Replace([]domain.Package{
		{ID: "a", Status: domain.StatusEnRoute},
		{ID: "b", Status: domain.StatusAssigned},
	})

	draft := book.Draft()
	if err := draft.Packages[0].Advance(domain.StatusDelivered, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// staged changes stay invisible until commit
	if book.Snapshot()[0].Delivered() {
		t.Fatalf("draft leaked into visible state")
	}

	if err := book.Commit(draft); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if !book.Snapshot()[0].Delivered() {
		t.Fatalf("commit did not apply draft")
	}
}

func TestPackageBookStaleDraft(t *testing.T) {
	book := NewPackageBook()
	book.Replace([]domain.Package{{ID: "a"}})

	draft := book.Draft()
	book.Add(domain.Package{ID: "b"})

	if err := book.Commit(draft); !errors.Is(err, ErrStaleDraft) {
		t.Fatalf("err = %v, want ErrStaleDraft", err)
	}
	if got := book.Len(); got != 2 {
		t.Fatalf("len = %d, want 2", got)
	}
}

func TestPackageBookSnapshotIsolation(t *testing.T) {
	book := NewPackageBook()
	book.Replace([]domain.Package{{ID: "a", Status: domain.StatusAssigned}})

	snap := book.Snapshot()
	snap[0].Status = domain.StatusDelivered

	if book.Snapshot()[0].Status != domain.StatusAssigned {
		t.Fatalf("snapshot mutation leaked into book")
	}
}

func TestActiveRoute(t *testing.T) {
	ar := NewActiveRoute()
	if _, ok := ar.Get(); ok {
		t.Fatalf("new ActiveRoute should be empty")
	}

	ar.Set(domain.Route{ID: "r1", Legs: []domain.Leg{{Steps: []domain.Step{{}}}}})
	r, ok := ar.Get()
	if !ok || r.ID != "r1" {
		t.Fatalf("Get = %+v, %v", r, ok)
	}

	ar.Clear()
	if _, ok := ar.Get(); ok {
		t.Fatalf("Clear did not reset route")
	}
}
