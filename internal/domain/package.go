package domain

import (
	"errors"
	"fmt"
	"time"
)

var ErrStatusRegression = errors.New("package status cannot move backwards")

// PackageStatus is the backend delivery status of a package.
// Statuses only move forward: CREATED -> ASSIGNED -> EN_ROUTE -> DELIVERED.
type PackageStatus string

const (
	StatusCreated   PackageStatus = "CREATED"
	StatusAssigned  PackageStatus = "ASSIGNED"
	StatusEnRoute   PackageStatus = "EN_ROUTE"
	StatusDelivered PackageStatus = "DELIVERED"
)

// Legacy status values still emitted by the delivery backend.
var legacyStatuses = map[string]PackageStatus{
	"A_CAMINHO": StatusEnRoute,
	"ENTREGUE":  StatusDelivered,
}

// ParseStatus maps a backend status string onto a PackageStatus.
func ParseStatus(s string) (PackageStatus, error) {
	switch PackageStatus(s) {
	case StatusCreated, StatusAssigned, StatusEnRoute, StatusDelivered:
		return PackageStatus(s), nil
	}
	if st, ok := legacyStatuses[s]; ok {
		return st, nil
	}
	return "", fmt.Errorf("parse status: unknown package status %q", s)
}

func (s PackageStatus) rank() int {
	switch s {
	case StatusCreated:
		return 0
	case StatusAssigned:
		return 1
	case StatusEnRoute:
		return 2
	case StatusDelivered:
		return 3
	}
	return -1
}

// Represents a single shipment with its own destination and delivery status.
type Package struct {
	ID           string
	TrackingCode string
	Destination  Coordinates
	Status       PackageStatus
	ClientID     string
	ClientName   string
	DriverID     string
	DriverName   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeliveredAt  *time.Time
}

// Delivered reports whether the package reached its terminal status.
func (p *Package) Delivered() bool { return p.Status == StatusDelivered }

// Advance moves the package to a later status and stamps the update times.
// Moving to the current status is a no-op; moving backwards fails.
func (p *Package) Advance(to PackageStatus, at time.Time) error {
	if to.rank() < 0 {
		return fmt.Errorf("advance package %s: unknown status %q", p.ID, to)
	}
	if to.rank() < p.Status.rank() {
		return fmt.Errorf("advance package %s from %s to %s: %w", p.ID, p.Status, to, ErrStatusRegression)
	}
	if to == p.Status {
		return nil
	}

	p.Status = to
	p.UpdatedAt = at
	if to == StatusDelivered {
		deliveredAt := at
		p.DeliveredAt = &deliveredAt
	}
	return nil
}

// Clone returns a copy that shares no pointers with p.
func (p Package) Clone() Package {
	if p.DeliveredAt != nil {
		at := *p.DeliveredAt
		p.DeliveredAt = &at
	}
	return p
}
