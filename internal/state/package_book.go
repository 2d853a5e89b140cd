package state

import (
	"delivery-tracker/internal/domain"
	"errors"
	"strings"
	"sync"
)

// ErrStaleDraft is returned when a draft is committed after the book changed.
var ErrStaleDraft = errors.New("package book changed since draft was taken")

// PackageBook is the session's ordered package list.
//
// All mutations go through the book and are serialized; callers only ever
// see copies. Multi-step changes use Draft/Commit so that the visible list
// changes only once the remote side has confirmed.
type PackageBook struct {
	mu      sync.Mutex
	pkgs    []domain.Package
	version uint64
}

func NewPackageBook() *PackageBook {
	return &PackageBook{}
}

// Draft is a staged copy of the book.
type Draft struct {
	version  uint64
	Packages []domain.Package
}

func clonePackages(in []domain.Package) []domain.Package {
	out := make([]domain.Package, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}

// Replace swaps the whole list.
func (b *PackageBook) Replace(pkgs []domain.Package) {
	c := clonePackages(pkgs)

	b.mu.Lock()
	b.pkgs = c
	b.version++
	b.mu.Unlock()
}

// Add appends a package unless one with the same ID is already present.
func (b *PackageBook) Add(p domain.Package) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.indexLocked(p.ID) >= 0 {
		return false
	}
	b.pkgs = append(b.pkgs, p.Clone())
	b.version++
	return true
}

// Remove drops the package with the given ID.
func (b *PackageBook) Remove(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.indexLocked(id)
	if i < 0 {
		return false
	}
	b.pkgs = append(b.pkgs[:i:i], b.pkgs[i+1:]...)
	b.version++
	return true
}

func (b *PackageBook) Contains(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.indexLocked(id) >= 0
}

func (b *PackageBook) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.pkgs)
}

// Snapshot returns a copy of the ordered list.
func (b *PackageBook) Snapshot() []domain.Package {
	b.mu.Lock()
	defer b.mu.Unlock()

	return clonePackages(b.pkgs)
}

// SortByLegs reorders the book to follow the legs of route.
func (b *PackageBook) SortByLegs(route *domain.Route) {
	b.mu.Lock()
	defer b.mu.Unlock()

	domain.SortByLegs(b.pkgs, route)
	b.version++
}

// Clear empties the book.
func (b *PackageBook) Clear() {
	b.mu.Lock()
	b.pkgs = nil
	b.version++
	b.mu.Unlock()
}

// Draft stages a copy of the current list.
func (b *PackageBook) Draft() *Draft {
	b.mu.Lock()
	defer b.mu.Unlock()

	return &Draft{version: b.version, Packages: clonePackages(b.pkgs)}
}

// Commit makes a draft the visible list. It fails with ErrStaleDraft when
// the book was modified after the draft was taken.
func (b *PackageBook) Commit(d *Draft) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if d.version != b.version {
		return ErrStaleDraft
	}
	b.pkgs = clonePackages(d.Packages)
	b.version++
	return nil
}

// IDs are compared case-insensitively; scanned UUIDs may differ in case.
func (b *PackageBook) indexLocked(id string) int {
	for i := range b.pkgs {
		if strings.EqualFold(b.pkgs[i].ID, id) {
			return i
		}
	}
	return -1
}
