// Package device provides registration and identity for field units: the
// in-vehicle terminals and technician phones that submit trips and fixes.
package device

import (
	"errors"
	"time"
)

// Repository errors.
var (
	ErrDeviceNotFound = errors.New("device not found")
)

// Device represents a registered field unit.
type Device struct {
	ID         string
	Name       string
	VehicleID  *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	LastSeenAt *time.Time
}

// ListOptions contains options for listing devices.
type ListOptions struct {
	Limit int
}

// ListResult contains the result of listing devices.
type ListResult struct {
	Items      []*Device
	NextCursor string
}
