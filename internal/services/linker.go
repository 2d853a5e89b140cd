package services

import (
	"context"
	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/ports"
	"delivery-tracker/internal/state"
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

var packageCode = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ValidCode reports whether a scanned code is a package id.
func ValidCode(code string) bool {
	return packageCode.MatchString(code)
}

// Linker adds scanned packages to the driver's list.
type Linker struct {
	api      ports.PackageAPI
	book     *state.PackageBook
	notifier ports.Notifier
}

func NewLinker(api ports.PackageAPI, book *state.PackageBook, notifier ports.Notifier) *Linker {
	return &Linker{api: api, book: book, notifier: notifier}
}

func (l *Linker) Link(ctx context.Context, code string) (domain.Package, error) {
	if !ValidCode(code) {
		l.notifier.Toast(ports.SeverityError, "Invalid code. Scan the package QR code.")
		return domain.Package{}, ErrInvalidCode
	}

	id := uuid.MustParse(code).String()

	if l.book.Contains(id) {
		l.notifier.Toast(ports.SeverityWarning, "Package already linked.")
		return domain.Package{}, ErrAlreadyLinked
	}

	pkg, err := l.api.GetPackage(ctx, id)
	if err != nil {
		l.notifier.Toast(ports.SeverityError, "Could not link the package.")
		return domain.Package{}, fmt.Errorf("link package %s: %w", id, err)
	}
	if pkg.ID == "" {
		pkg.ID = id
	}

	if !l.book.Add(pkg) {
		l.notifier.Toast(ports.SeverityWarning, "Package already linked.")
		return domain.Package{}, ErrAlreadyLinked
	}

	l.notifier.Toast(ports.SeveritySuccess, "Package linked.")
	return pkg, nil
}
